// Package ledgerclient is the consensus-ledger SDK seam the command
// orchestrator's account/network tasks drive (spec §4.I step 4: "close the
// ledger SDK client ... on every exit path"). The real ledger client
// (network connection, gRPC channels to consensus nodes) is out of scope
// for this system's core; only the interface is specified, with a stub
// implementation for tests.
package ledgerclient

import "context"

// AccountID identifies a ledger account (e.g. "0.0.1001").
type AccountID string

// Client is the minimal ledger SDK surface the orchestrator needs.
type Client interface {
	CreateAccount(ctx context.Context, initialBalance int64) (AccountID, error)
	GetAccountBalance(ctx context.Context, id AccountID) (int64, error)
	Close() error
}

// StubClient is an in-memory Client for tests and environments without a
// reachable ledger network.
type StubClient struct {
	balances map[AccountID]int64
	nextID   int
	closed   bool
}

// NewStubClient constructs an empty StubClient.
func NewStubClient() *StubClient {
	return &StubClient{balances: map[AccountID]int64{}}
}

func (c *StubClient) CreateAccount(ctx context.Context, initialBalance int64) (AccountID, error) {
	c.nextID++
	id := AccountID("0.0." + itoa(c.nextID))
	c.balances[id] = initialBalance
	return id, nil
}

func (c *StubClient) GetAccountBalance(ctx context.Context, id AccountID) (int64, error) {
	return c.balances[id], nil
}

func (c *StubClient) Close() error {
	c.closed = true
	return nil
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}
