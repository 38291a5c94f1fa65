// Package lease implements Solo's Lock (Lease) Manager & Renewal Service
// (spec §4.G): acquire/renew/transfer/release semantics over
// coordination.k8s.io/v1 Lease resources, with a background renewal
// service.
package lease

import (
	"context"
	"time"

	coordinationv1 "k8s.io/api/coordination/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/google/uuid"
	"github.com/hashgraph/solo-sub009/internal/soloerr"
	"github.com/hashgraph/solo-sub009/pkg/durationx"
)

// Client is the minimum lease-resource surface Manager needs. Satisfied
// by pkg/k8sfacade's LeasesFacade; declared locally to keep lease free of
// a direct k8sfacade dependency.
type Client interface {
	Get(ctx context.Context, namespace, name string) (*coordinationv1.Lease, bool, error)
	Create(ctx context.Context, namespace string, lease *coordinationv1.Lease) (*coordinationv1.Lease, error)
	Replace(ctx context.Context, namespace string, lease *coordinationv1.Lease) (*coordinationv1.Lease, error)
	Delete(ctx context.Context, namespace, name string) error
}

// Lease is the in-process view of an acquired lock (spec §3 "Lease").
type Lease struct {
	Namespace       string
	Name            string
	HolderID        string
	DurationSeconds int
	AcquireTime     time.Time
	RenewTime       time.Time
	Transitions     int32
	ResourceVersion string
}

const defaultMaxAttempts = 10

// NewHolderID mints a fresh lease-holder identity token (spec §4.G;
// grounded in the teacher's use of google/uuid for MCP session IDs).
func NewHolderID() string {
	return uuid.NewString()
}

// Manager owns acquire/renew/transfer/release and the renewal service.
type Manager struct {
	client  Client
	renewer *Renewer
	now     func() time.Time
}

// NewManager constructs a Manager over client, wiring it to renewer (use
// NewRenewer to obtain one).
func NewManager(client Client, renewer *Renewer) *Manager {
	return &Manager{client: client, renewer: renewer, now: time.Now}
}

// Renewer returns the background renewal service backing this Manager, for
// process-shutdown cleanup (spec §5 "cancelAll() on process shutdown").
func (m *Manager) Renewer() *Renewer {
	return m.renewer
}

// Acquire implements spec §4.G's three-way acquisition rule, retrying up
// to maxAttempts times with a fixed backoff. maxAttempts<=0 uses the
// spec's default of 10.
func (m *Manager) Acquire(ctx context.Context, namespace, name, holder string, durationSeconds int, maxAttempts int, backoff time.Duration) (*Lease, error) {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		lease, err := m.tryAcquire(ctx, namespace, name, holder, durationSeconds)
		if err == nil {
			m.renewer.Schedule(lease, m)
			return lease, nil
		}
		lastErr = err
		if !soloerr.Is(err, soloerr.KindLeaseAcquisition) {
			return nil, err
		}
		if attempt < maxAttempts-1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}
	}
	return nil, soloerr.LeaseExhausted(name, maxAttempts)
}

func (m *Manager) tryAcquire(ctx context.Context, namespace, name, holder string, durationSeconds int) (*Lease, error) {
	existing, found, err := m.client.Get(ctx, namespace, name)
	now := m.now()

	if err != nil {
		return nil, err
	}

	if !found {
		created, err := m.client.Create(ctx, namespace, newLeaseResource(namespace, name, holder, durationSeconds, now, 0))
		if err != nil {
			return nil, err
		}
		return fromResource(created), nil
	}

	renewTime := leaseRenewTime(existing)
	currentHolder := leaseHolder(existing)
	expired := durationx.IsExpired(now, renewTime, durationSeconds)

	if expired {
		replacement := newLeaseResource(namespace, name, holder, durationSeconds, now, leaseTransitions(existing)+1)
		replacement.ResourceVersion = existing.ResourceVersion
		updated, err := m.client.Replace(ctx, namespace, replacement)
		if err != nil {
			return nil, err
		}
		return fromResource(updated), nil
	}

	if currentHolder == holder {
		existing.Spec.RenewTime = metav1ptr(now)
		updated, err := m.client.Replace(ctx, namespace, existing)
		if err != nil {
			return nil, err
		}
		return fromResource(updated), nil
	}

	return nil, soloerr.LeaseAcquisitionFailed(name, currentHolder)
}

// tryRenew performs the renewal service's replace-with-bumped-renewTime
// (spec §4.G "Renewal"). A failure does not crash the process; callers
// (Renewer) mark the lease held=false and stop scheduling it.
func (m *Manager) tryRenew(ctx context.Context, l *Lease) error {
	existing, found, err := m.client.Get(ctx, l.Namespace, l.Name)
	if err != nil {
		return err
	}
	if !found || leaseHolder(existing) != l.HolderID {
		return soloerr.IllegalState("lease %q is no longer held by %q", l.Name, l.HolderID)
	}
	existing.Spec.RenewTime = metav1ptr(m.now())
	updated, err := m.client.Replace(ctx, l.Namespace, existing)
	if err != nil {
		return err
	}
	l.RenewTime = leaseRenewTime(updated)
	l.ResourceVersion = updated.ResourceVersion
	return nil
}

// Release deletes the lease resource (ignore-not-found) and unschedules
// renewal; idempotent.
func (m *Manager) Release(ctx context.Context, l *Lease) error {
	m.renewer.Unschedule(l)
	return m.client.Delete(ctx, l.Namespace, l.Name)
}

// Transfer increments transitions, bumps renewTime, and sets holderId to
// newHolder, preserving the renewal schedule (spec §4.G "Transfer").
func (m *Manager) Transfer(ctx context.Context, l *Lease, newHolder string) error {
	existing, found, err := m.client.Get(ctx, l.Namespace, l.Name)
	if err != nil {
		return err
	}
	if !found {
		return soloerr.ResourceNotFound("lease", l.Namespace, l.Name)
	}
	existing.Spec.HolderIdentity = &newHolder
	existing.Spec.RenewTime = metav1ptr(m.now())
	transitions := leaseTransitions(existing) + 1
	existing.Spec.LeaseTransitions = &transitions
	updated, err := m.client.Replace(ctx, l.Namespace, existing)
	if err != nil {
		return err
	}
	l.HolderID = newHolder
	l.Transitions = transitions
	l.RenewTime = leaseRenewTime(updated)
	l.ResourceVersion = updated.ResourceVersion
	return nil
}

// IsHeldBy reports whether name is currently held by holder, satisfying
// pkg/state.LeaseHolderVerifier.
func (m *Manager) IsHeldBy(ctx context.Context, name, holder string) (bool, error) {
	return m.renewer.isHeldBy(name, holder), nil
}

func newLeaseResource(namespace, name, holder string, durationSeconds int, now time.Time, transitions int32) *coordinationv1.Lease {
	duration := int32(durationSeconds)
	return &coordinationv1.Lease{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: namespace},
		Spec: coordinationv1.LeaseSpec{
			HolderIdentity:       &holder,
			LeaseDurationSeconds: &duration,
			AcquireTime:          metav1ptr(now),
			RenewTime:            metav1ptr(now),
			LeaseTransitions:     &transitions,
		},
	}
}

func fromResource(r *coordinationv1.Lease) *Lease {
	return &Lease{
		Namespace:       r.Namespace,
		Name:            r.Name,
		HolderID:        leaseHolder(r),
		DurationSeconds: int(derefInt32(r.Spec.LeaseDurationSeconds)),
		AcquireTime:     derefTime(r.Spec.AcquireTime),
		RenewTime:       derefTime(r.Spec.RenewTime),
		Transitions:     leaseTransitions(r),
		ResourceVersion: r.ResourceVersion,
	}
}

func leaseHolder(r *coordinationv1.Lease) string {
	if r.Spec.HolderIdentity == nil {
		return ""
	}
	return *r.Spec.HolderIdentity
}

func leaseRenewTime(r *coordinationv1.Lease) time.Time {
	return derefTime(r.Spec.RenewTime)
}

func leaseTransitions(r *coordinationv1.Lease) int32 {
	return derefInt32(r.Spec.LeaseTransitions)
}

func derefInt32(p *int32) int32 {
	if p == nil {
		return 0
	}
	return *p
}

func derefTime(p *metav1.MicroTime) time.Time {
	if p == nil {
		return time.Time{}
	}
	return p.Time
}

func metav1ptr(t time.Time) *metav1.MicroTime {
	mt := metav1.NewMicroTime(t)
	return &mt
}
