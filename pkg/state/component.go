package state

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/hashgraph/solo-sub009/internal/soloerr"
)

// Phase is a component's deployment-lifecycle phase (spec §3 "Deployment
// phases").
type Phase string

const (
	PhaseRequested  Phase = "REQUESTED"
	PhaseDeployed   Phase = "DEPLOYED"
	PhaseConfigured Phase = "CONFIGURED"
	PhaseStarted    Phase = "STARTED"
	PhaseStopped    Phase = "STOPPED"
	PhaseFrozen     Phase = "FROZEN"
)

// validTransitions encodes the component phase state machine: REQUESTED ->
// DEPLOYED -> CONFIGURED -> STARTED <-> STOPPED; STARTED -> FROZEN.
// Non-consensus components simply never progress past DEPLOYED.
var validTransitions = map[Phase][]Phase{
	PhaseRequested:  {PhaseDeployed},
	PhaseDeployed:   {PhaseConfigured},
	PhaseConfigured: {PhaseStarted},
	PhaseStarted:    {PhaseStopped, PhaseFrozen},
	PhaseStopped:    {PhaseStarted},
	PhaseFrozen:     {},
}

// CanTransition reports whether from->to is a legal phase transition.
func CanTransition(from, to Phase) bool {
	for _, allowed := range validTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Component is one deployed resource tracked in remote state (spec §3
// "Component"). Consensus nodes additionally carry NodeID.
type Component struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Cluster   string `json:"cluster"`
	Namespace string `json:"namespace"`
	Phase     Phase  `json:"phase"`
	NodeID    *int   `json:"nodeId,omitempty"`
}

var componentNamePattern = regexp.MustCompile(`^(.+)-(\d+)$`)

// RenderComponentName builds the deterministic "<base>-<index>" name.
func RenderComponentName(base string, index int) string {
	return fmt.Sprintf("%s-%d", base, index)
}

// ParseComponentIndex extracts the numeric index from a deterministic
// component name, the counterpart to RenderComponentName.
func ParseComponentIndex(name string) (int, error) {
	m := componentNamePattern.FindStringSubmatch(name)
	if m == nil {
		return 0, soloerr.IllegalArgument("component name %q is not of the form <base>-<index>", name)
	}
	idx, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, soloerr.IllegalArgument("component name %q has a non-numeric index", name)
	}
	return idx, nil
}
