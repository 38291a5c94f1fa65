package main

import (
	"context"
	"errors"
	"os"
	"syscall"
	"testing"
	"time"

	coordinationv1 "k8s.io/api/coordination/v1"

	"github.com/hashgraph/solo-sub009/pkg/lease"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nopLeaseClient is a lease.Client that never holds any lease; enough to
// construct a Manager for exercising withLeaseShutdown.
type nopLeaseClient struct{}

func (nopLeaseClient) Get(ctx context.Context, namespace, name string) (*coordinationv1.Lease, bool, error) {
	return nil, false, nil
}
func (nopLeaseClient) Create(ctx context.Context, namespace string, l *coordinationv1.Lease) (*coordinationv1.Lease, error) {
	return l, nil
}
func (nopLeaseClient) Replace(ctx context.Context, namespace string, l *coordinationv1.Lease) (*coordinationv1.Lease, error) {
	return l, nil
}
func (nopLeaseClient) Delete(ctx context.Context, namespace, name string) error { return nil }

func TestWithLeaseShutdownReturnsRunResultWhenNoSignalArrives(t *testing.T) {
	manager := lease.NewManager(nopLeaseClient{}, lease.NewRenewer())

	err := withLeaseShutdown(context.Background(), manager, func(ctx context.Context) error {
		return nil
	})
	require.NoError(t, err)
}

func TestWithLeaseShutdownPropagatesRunError(t *testing.T) {
	manager := lease.NewManager(nopLeaseClient{}, lease.NewRenewer())
	wantErr := errors.New("boom")

	err := withLeaseShutdown(context.Background(), manager, func(ctx context.Context) error {
		return wantErr
	})
	assert.Equal(t, wantErr, err)
}

func TestWithLeaseShutdownCancelsContextOnSignal(t *testing.T) {
	manager := lease.NewManager(nopLeaseClient{}, lease.NewRenewer())
	started := make(chan struct{})

	go func() {
		<-started
		time.Sleep(20 * time.Millisecond)
		_ = syscall.Kill(os.Getpid(), syscall.SIGTERM)
	}()

	err := withLeaseShutdown(context.Background(), manager, func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	})
	assert.ErrorIs(t, err, context.Canceled)
}
