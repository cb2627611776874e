package tool

import (
	"context"
	"fmt"
	"math"
	"strings"
)

const taxRate = 0.10

func (r *Registry) calcPrice(ctx context.Context, args map[string]any) (map[string]any, error) {
	unitPrice, present, err := floatArg(args, "unit_price")
	if err != nil {
		return nil, err
	}
	if !present {
		return nil, ErrUnitPriceMissing
	}

	quantity, err := intArg(args, "quantity", 1)
	if err != nil {
		return nil, err
	}
	if quantity <= 0 {
		return nil, ErrQuantityTooSmall
	}
	if unitPrice < 0 {
		return nil, ErrUnitPriceNegative
	}

	currency := r.defaultCurrency
	if v, ok := args["currency"].(string); ok && strings.TrimSpace(v) != "" {
		currency = strings.TrimSpace(v)
	}

	q := quote(quantity, unitPrice)
	return map[string]any{
		"quantity":   quantity,
		"unit_price": unitPrice,
		"subtotal":   q.subtotal,
		"tax":        q.tax,
		"total":      q.total,
		"currency":   currency,
		"breakdown": fmt.Sprintf("(quantity: %d × %.2f = %.2f + tax %d%% → %.2f)",
			quantity, unitPrice, q.subtotal, int(taxRate*100), q.tax),
	}, nil
}

type priceQuote struct {
	subtotal float64
	tax      float64
	total    float64
}

// quote rounds to cents after every step.
func quote(quantity int, unitPrice float64) priceQuote {
	subtotal := round2(float64(quantity) * unitPrice)
	tax := round2(subtotal * taxRate)
	return priceQuote{
		subtotal: subtotal,
		tax:      tax,
		total:    round2(subtotal + tax),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
