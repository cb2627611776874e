package tool

import (
	"context"
	"errors"
	"fmt"

	contractx "github.com/tanpawarit/Chative-Support-Mini-Agent/agent/contract"
	sourcex "github.com/tanpawarit/Chative-Support-Mini-Agent/agent/source"
)

func (r *Registry) checkOrderStatus(ctx context.Context, args map[string]any) (map[string]any, error) {
	orderID, ok := stringArg(args, "order_id")
	if !ok {
		return nil, ErrOrderIDRequired
	}
	if r.orders == nil {
		return nil, fmt.Errorf("%w: order collection is not configured", contractx.ErrResourceMissing)
	}

	order, err := r.orders.FindOrder(ctx, orderID)
	if errors.Is(err, sourcex.ErrOrderNotFound) {
		return nil, fmt.Errorf("no record found for %s", orderID)
	}
	if err != nil {
		return nil, err
	}

	eta := "unknown"
	if order.ETA != nil && *order.ETA != "" {
		eta = *order.ETA
	}
	status := order.Status
	if status == "" {
		status = "unknown"
	}

	return map[string]any{
		"order_id": orderID,
		"status":   status,
		"eta":      eta,
	}, nil
}
