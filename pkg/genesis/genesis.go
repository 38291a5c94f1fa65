// Package genesis implements Solo's Genesis Network & Node-Overrides
// Model (spec §4.L): given node aliases, a key manager, per-alias service
// endpoints, and optional admin public keys, build the node bootstrap
// roster consumed by the ledger's genesis-network configuration.
package genesis

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/hashgraph/solo-sub009/internal/keys"
	"github.com/hashgraph/solo-sub009/internal/soloerr"
	"github.com/hashgraph/solo-sub009/pkg/mathx"
	"github.com/hashgraph/solo-sub009/pkg/state"
	"sigs.k8s.io/yaml"
)

// ServiceEndpoint is one node's externally reachable service address.
type ServiceEndpoint struct {
	Hostname string
	Port     int
}

// NodeGenesisData is the per-node bootstrap record (spec §4.L output (a)).
type NodeGenesisData struct {
	NodeID           int    `json:"nodeId"`
	AccountID        string `json:"accountId"`
	AdminPublicKey   string `json:"adminPublicKey"`
	Weight           int    `json:"weight"`
	GossipEndpoint   string `json:"gossipEndpoint"`
	ServiceEndpoint  string `json:"serviceEndpoint"`
	GossipCACertDER  string `json:"gossipCaCertificate"` // base64-encoded DER
}

// RosterEntry mirrors a node's genesis data in the shape the ledger's
// roster expects: the same fields minus AccountID and AdminPublicKey, as a
// separate type so the two can diverge independently as the roster format
// evolves.
type RosterEntry struct {
	NodeID          int    `json:"nodeId"`
	Weight          int    `json:"weight"`
	GossipEndpoint  string `json:"gossipEndpoint"`
	ServiceEndpoint string `json:"serviceEndpoint"`
	GossipCACertDER string `json:"gossipCaCertificate"`
}

// NodeMetadataEntry pairs one node's genesis data with its roster entry,
// the unit spec §4.L's JSON output repeats per node-alias.
type NodeMetadataEntry struct {
	Node        NodeGenesisData `json:"node"`
	RosterEntry RosterEntry     `json:"rosterEntry"`
}

// GenesisNetwork is the full JSON output shape: {nodeMetadata: [...]}.
type GenesisNetwork struct {
	NodeMetadata []NodeMetadataEntry `json:"nodeMetadata"`
}

// BuildInput bundles the per-alias data Build needs.
type BuildInput struct {
	NodeAliases     []string
	KeyManager      keys.KeyManager
	ServiceByAlias  map[string]ServiceEndpoint
	AdminPublicKeys []string // optional; if set, len must equal len(NodeAliases)
	ClusterRef      state.ClusterRef
	AccountIDByAlias map[string]string
	Weights         map[string]int // optional explicit per-alias weight
}

// gossipEndpointTemplate renders ClusterRef.DNSConsensusNodePattern (spec
// §6's cluster metadata) against each node alias, using
// sprig.TxtFuncMap() the way Helm's own chart engine renders templated
// hostnames (grounded in the teacher/pack's Helm chart-rendering use of
// Masterminds/sprig).
func gossipEndpointTemplate(pattern, alias string) (string, error) {
	tmpl, err := template.New("gossip-endpoint").Funcs(sprig.TxtFuncMap()).Parse(pattern)
	if err != nil {
		return "", soloerr.Configuration("parsing gossip endpoint pattern %q: %v", pattern, err)
	}
	var buf strings.Builder
	if err := tmpl.Execute(&buf, map[string]string{"NodeAlias": alias}); err != nil {
		return "", soloerr.Configuration("rendering gossip endpoint pattern %q for alias %q: %v", pattern, alias, err)
	}
	return buf.String(), nil
}

// Build produces the genesis network document (spec §4.L), in
// node-alias order.
func Build(ctx context.Context, in BuildInput) (*GenesisNetwork, error) {
	if len(in.AdminPublicKeys) > 0 && len(in.AdminPublicKeys) != len(in.NodeAliases) {
		return nil, soloerr.IllegalArgument("admin public key count (%d) must equal node count (%d)", len(in.AdminPublicKeys), len(in.NodeAliases))
	}

	aliases := append([]string{}, in.NodeAliases...)
	sort.Strings(aliases)

	weights, err := resolveWeights(in, aliases)
	if err != nil {
		return nil, err
	}

	out := &GenesisNetwork{}
	for i, alias := range aliases {
		svc, ok := in.ServiceByAlias[alias]
		if !ok {
			return nil, soloerr.IllegalArgument("no service endpoint configured for node alias %q", alias)
		}

		cert, err := in.KeyManager.SigningCert(ctx, alias)
		if err != nil {
			return nil, err
		}

		adminKey := ""
		if len(in.AdminPublicKeys) > 0 {
			adminKey = in.AdminPublicKeys[i]
		} else {
			adminKey, err = in.KeyManager.GenesisPublicKey(ctx, alias)
			if err != nil {
				return nil, err
			}
		}

		gossipHost, err := gossipEndpointTemplate(in.ClusterRef.DNSConsensusNodePattern, alias)
		if err != nil {
			return nil, err
		}

		nodeID := i
		derB64 := base64.StdEncoding.EncodeToString(cert.DERBytes)
		serviceEndpoint := formatEndpoint(svc.Hostname, svc.Port)

		node := NodeGenesisData{
			NodeID:          nodeID,
			AccountID:       in.AccountIDByAlias[alias],
			AdminPublicKey:  adminKey,
			Weight:          weights[alias],
			GossipEndpoint:  gossipHost,
			ServiceEndpoint: serviceEndpoint,
			GossipCACertDER: derB64,
		}
		roster := RosterEntry{
			NodeID:          nodeID,
			Weight:          weights[alias],
			GossipEndpoint:  gossipHost,
			ServiceEndpoint: serviceEndpoint,
			GossipCACertDER: derB64,
		}
		out.NodeMetadata = append(out.NodeMetadata, NodeMetadataEntry{Node: node, RosterEntry: roster})
	}
	return out, nil
}

func resolveWeights(in BuildInput, aliases []string) (map[string]int, error) {
	weights := map[string]int{}
	missing := 0
	for _, alias := range aliases {
		if w, ok := in.Weights[alias]; ok {
			weights[alias] = w
		} else {
			missing++
		}
	}
	if missing == 0 {
		return weights, nil
	}
	// Split a total of 100 equally (by count) among aliases without an
	// explicit weight; explicit weights are not subtracted from that total.
	parts, err := mathx.DivideEvenly(100, missing)
	if err != nil {
		return nil, err
	}
	idx := 0
	for _, alias := range aliases {
		if _, ok := in.Weights[alias]; !ok {
			weights[alias] = parts[idx]
			idx++
		}
	}
	return weights, nil
}

// EndpointOverride is one entry of the node-overrides YAML's
// endpointOverrides/interfaceBindings lists (spec §4.L output (b)).
type EndpointOverride struct {
	NodeID   int    `json:"nodeId"`
	Hostname string `json:"hostname"`
	Port     int    `json:"port"`
}

// NodeOverrides is the YAML document shape: gossip.interfaceBindings and
// gossip.endpointOverrides, each a list of JSON-encoded entries.
type NodeOverrides struct {
	Gossip struct {
		InterfaceBindings []string `json:"interfaceBindings" yaml:"interfaceBindings"`
		EndpointOverrides []string `json:"endpointOverrides" yaml:"endpointOverrides"`
	} `json:"gossip" yaml:"gossip"`
}

// BuildNodeOverrides renders the per-node gossip interface-binding and
// endpoint-override YAML, with entries JSON-encoded as
// {nodeId, hostname, port} (spec §4.L).
func BuildNodeOverrides(net *GenesisNetwork, bindHostname string) ([]byte, error) {
	overrides := NodeOverrides{}
	for _, entry := range net.NodeMetadata {
		binding := EndpointOverride{NodeID: entry.Node.NodeID, Hostname: bindHostname, Port: gossipPort}
		raw, err := json.Marshal(binding)
		if err != nil {
			return nil, soloerr.Configuration("encoding interface binding for node %d: %v", entry.Node.NodeID, err)
		}
		overrides.Gossip.InterfaceBindings = append(overrides.Gossip.InterfaceBindings, string(raw))

		override := EndpointOverride{NodeID: entry.Node.NodeID, Hostname: entry.Node.GossipEndpoint, Port: gossipPort}
		raw, err = json.Marshal(override)
		if err != nil {
			return nil, soloerr.Configuration("encoding endpoint override for node %d: %v", entry.Node.NodeID, err)
		}
		overrides.Gossip.EndpointOverrides = append(overrides.Gossip.EndpointOverrides, string(raw))
	}
	return yaml.Marshal(overrides)
}

// gossipPort is the fixed port the ledger's gossip protocol binds.
const gossipPort = 50111

func formatEndpoint(hostname string, port int) string {
	return hostname + ":" + strconv.Itoa(port)
}
