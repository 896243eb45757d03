package common

import (
	"fmt"

	coreerrors "weidex/core/errors"
)

// DefaultMaxBatchOrders bounds the number of orders a single batch call may
// carry when no explicit quota is configured.
const DefaultMaxBatchOrders = 256

// Quota defines the structural limits enforced on batch calls.
type Quota struct {
	MaxBatchOrders int
}

// CheckBatch verifies the shape of a batch: orders and signatures must pair
// up, the batch must not be empty and it must fit within the quota.
func CheckBatch(q Quota, orders, signatures int) error {
	if orders == 0 {
		return fmt.Errorf("%w: empty batch", coreerrors.ErrInvalidInput)
	}
	if orders != signatures {
		return fmt.Errorf("%w: %d orders but %d signatures", coreerrors.ErrInvalidInput, orders, signatures)
	}
	limit := q.MaxBatchOrders
	if limit <= 0 {
		limit = DefaultMaxBatchOrders
	}
	if orders > limit {
		return fmt.Errorf("%w: batch of %d orders exceeds limit %d", coreerrors.ErrInvalidInput, orders, limit)
	}
	return nil
}
