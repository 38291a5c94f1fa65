package k8sfacade

import (
	"context"
	"time"

	coordinationv1 "k8s.io/api/coordination/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// LeasesFacade is the coordination.k8s.io/v1 Lease sub-facade backing
// pkg/lease's Lease (Lock) Manager (spec §4.G).
type LeasesFacade struct{ f *Facade }

const (
	leaseReadRetries  = 3
	leaseReadInterval = 5 * time.Second
)

// Get fetches a lease, retrying up to leaseReadRetries times at
// leaseReadInterval on a 500 response (spec §4.F "500 during
// readLease is retried up to 3 times at 5-second intervals"). nil, false
// is returned (not an error) when the lease does not exist.
func (l *LeasesFacade) Get(ctx context.Context, namespace, name string) (*coordinationv1.Lease, bool, error) {
	var lastErr error
	for attempt := 0; attempt <= leaseReadRetries; attempt++ {
		lease, err := l.f.clientSet.CoordinationV1().Leases(namespace).Get(ctx, name, metav1.GetOptions{})
		if err == nil {
			return lease, true, nil
		}
		if apierrors.IsNotFound(err) {
			return nil, false, nil
		}
		lastErr = err
		if statusOf(err) != 500 {
			break
		}
		if attempt < leaseReadRetries {
			select {
			case <-ctx.Done():
				return nil, false, ctx.Err()
			case <-time.After(leaseReadInterval):
			}
		}
	}
	return nil, false, wrapRead("lease", namespace, name, lastErr)
}

// Create creates a new lease resource.
func (l *LeasesFacade) Create(ctx context.Context, namespace string, lease *coordinationv1.Lease) (*coordinationv1.Lease, error) {
	created, err := l.f.clientSet.CoordinationV1().Leases(namespace).Create(ctx, lease, metav1.CreateOptions{})
	return created, wrapCreate("lease", namespace, lease.Name, err)
}

// Replace updates (replaces) an existing lease resource.
func (l *LeasesFacade) Replace(ctx context.Context, namespace string, lease *coordinationv1.Lease) (*coordinationv1.Lease, error) {
	updated, err := l.f.clientSet.CoordinationV1().Leases(namespace).Update(ctx, lease, metav1.UpdateOptions{})
	return updated, wrapUpdate("lease", namespace, lease.Name, err)
}

// Delete deletes a lease resource, ignoring not-found (idempotent release,
// spec §4.G "release() ... ignore-not-found").
func (l *LeasesFacade) Delete(ctx context.Context, namespace, name string) error {
	err := l.f.clientSet.CoordinationV1().Leases(namespace).Delete(ctx, name, metav1.DeleteOptions{})
	return wrapDelete("lease", namespace, name, err)
}
