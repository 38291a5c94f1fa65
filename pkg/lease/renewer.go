package lease

import (
	"context"
	"sync"
	"time"

	"github.com/hashgraph/solo-sub009/pkg/durationx"
	"k8s.io/klog/v2"
)

// renewTarget is one renewal-service registration (spec §4.G "Renewal":
// "maintains a set of {scheduleId -> lease} registrations").
type renewTarget struct {
	lease  *Lease
	cancel context.CancelFunc
	held   bool
}

// Renewer is the background renewal service. Each registration fires at
// interval = durationSeconds/2 and calls tryRenew(); a failure marks the
// lease held=false and stops further renewals for it, without crashing
// the process (spec §7 "renewal-service-failure-does-not-crash-process").
type Renewer struct {
	mu        sync.Mutex
	targets   map[string]*renewTarget // keyed by namespace/name
	cancelled bool
}

// NewRenewer constructs an empty renewal service.
func NewRenewer() *Renewer {
	return &Renewer{targets: map[string]*renewTarget{}}
}

func leaseKey(l *Lease) string { return l.Namespace + "/" + l.Name }

// Schedule registers l for periodic renewal via manager.tryRenew.
func (r *Renewer) Schedule(l *Lease, manager *Manager) {
	r.mu.Lock()
	if r.cancelled {
		r.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	target := &renewTarget{lease: l, cancel: cancel, held: true}
	r.targets[leaseKey(l)] = target
	r.mu.Unlock()

	interval := durationx.RenewalInterval(l.DurationSeconds)

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := manager.tryRenew(ctx, l); err != nil {
					klog.V(1).Infof("lease %s renewal failed, marking unheld: %v", leaseKey(l), err)
					r.mu.Lock()
					target.held = false
					r.mu.Unlock()
					return
				}
			}
		}
	}()
}

// Unschedule stops renewing l, if it was scheduled.
func (r *Renewer) Unschedule(l *Lease) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.targets[leaseKey(l)]; ok {
		t.cancel()
		delete(r.targets, leaseKey(l))
	}
}

// CancelAll unschedules every registered lease (spec §4.G "Cancellation";
// used during process shutdown). Possibly-fired renewal events racing
// cancellation are tolerated by tryRenew's own no-op/benign-failure
// behavior on a released lease.
func (r *Renewer) CancelAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancelled = true
	for key, t := range r.targets {
		t.cancel()
		delete(r.targets, key)
	}
}

func (r *Renewer) isHeldBy(name, holder string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.targets {
		if t.lease.Name == name && t.held && t.lease.HolderID == holder {
			return true
		}
	}
	return false
}
