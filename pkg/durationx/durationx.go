// Package durationx centralizes the fixed timeouts and intervals the
// system names explicitly (spec §5 "individual tasks may enforce
// per-operation timeouts ... listNamespacedSecret = 5 min") so they are
// declared once instead of scattered as magic numbers.
package durationx

import "time"

const (
	// SecretListTimeout bounds a listNamespacedSecret call (spec §5).
	SecretListTimeout = 5 * time.Minute

	// LeaseReadRetryInterval is the backoff between readLease retries
	// (spec §4.F "3-retry/5s readLease policy").
	LeaseReadRetryInterval = 5 * time.Second

	// LeaseReadMaxAttempts is the retry ceiling for readLease on a 500.
	LeaseReadMaxAttempts = 3
)

// RenewalInterval computes the lease renewal-service firing interval from
// a lease's configured duration (spec §4.G "interval = durationSeconds/2").
func RenewalInterval(durationSeconds int) time.Duration {
	d := time.Duration(durationSeconds) * time.Second / 2
	if d <= 0 {
		return time.Second
	}
	return d
}

// IsExpired reports whether a lease last renewed at renewTime has exceeded
// durationSeconds as of now (spec §4.G "Acquisition" step 1).
func IsExpired(now, renewTime time.Time, durationSeconds int) bool {
	return now.Sub(renewTime) > time.Duration(durationSeconds)*time.Second
}
