// Package prottest provides utilities for Ledger testing.
package prottest

import (
	"context"
	"testing"

	"vestchain/protocol"
	"vestchain/protocol/memstore"
	"vestchain/testutil"
)

// NewLedger makes a new empty Ledger on an in-memory store,
// for use in tests.
func NewLedger(tb testing.TB) *protocol.Ledger {
	ctx := context.Background()
	l, err := protocol.NewLedger(ctx, memstore.New())
	if err != nil {
		testutil.FatalErr(tb, err)
	}
	return l
}
