package mocks

import (
	"context"

	"github.com/phrazzld/tasklog-api/internal/store"
)

// PassthroughTxRunner runs fn without a transaction. The in-memory stores
// ignore the nil *sql.Tx handed to WithTx.
var PassthroughTxRunner store.TxRunner = func(ctx context.Context, fn store.TxFn) error {
	return fn(ctx, nil)
}
