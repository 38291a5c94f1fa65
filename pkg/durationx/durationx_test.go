package durationx_test

import (
	"testing"
	"time"

	"github.com/hashgraph/solo-sub009/pkg/durationx"
	"github.com/stretchr/testify/assert"
)

func TestRenewalIntervalHalvesDuration(t *testing.T) {
	assert.Equal(t, 30*time.Second, durationx.RenewalInterval(60))
}

func TestRenewalIntervalFloorsAtOneSecond(t *testing.T) {
	assert.Equal(t, time.Second, durationx.RenewalInterval(0))
}

func TestIsExpired(t *testing.T) {
	now := time.Now()
	assert.True(t, durationx.IsExpired(now, now.Add(-2*time.Minute), 60))
	assert.False(t, durationx.IsExpired(now, now.Add(-30*time.Second), 60))
}
