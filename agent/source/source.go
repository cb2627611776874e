// Package source holds the read-only backing data for the support tools:
// the order collection and the return policy document.
package source

import (
	"context"
	"errors"
	"strings"

	contractx "github.com/tanpawarit/Chative-Support-Mini-Agent/agent/contract"
)

var ErrOrderNotFound = errors.New("order not found")

type OrderSource interface {
	// FindOrder matches orderID by exact string equality after trimming.
	// It returns ErrOrderNotFound or an error wrapping
	// contract.ErrResourceMissing when the collection itself is absent.
	FindOrder(ctx context.Context, orderID string) (contractx.Order, error)
}

type PolicySource interface {
	LoadPolicy(ctx context.Context) (string, error)
}

func normalizeOrderID(id string) string {
	return strings.TrimSpace(id)
}
