package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	contractx "github.com/tanpawarit/Chative-Support-Mini-Agent/agent/contract"
)

// OrderFile reads a JSON array of orders from disk on every lookup.
type OrderFile struct {
	path string
}

var _ OrderSource = (*OrderFile)(nil)

func NewOrderFile(path string) *OrderFile {
	return &OrderFile{path: strings.TrimSpace(path)}
}

type orderRecord struct {
	OrderID flexibleID `json:"order_id"`
	Status  string     `json:"status"`
	ETA     *string    `json:"eta"`
}

// flexibleID accepts both "1234567" and 1234567.
type flexibleID string

func (f *flexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("order_id must be a string or number: %w", err)
	}
	*f = flexibleID(n.String())
	return nil
}

func (o *OrderFile) FindOrder(ctx context.Context, orderID string) (contractx.Order, error) {
	raw, err := os.ReadFile(o.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return contractx.Order{}, fmt.Errorf("%w: %s", contractx.ErrResourceMissing, o.path)
		}
		return contractx.Order{}, fmt.Errorf("read orders %s: %w", o.path, err)
	}

	var records []orderRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return contractx.Order{}, fmt.Errorf("decode orders %s: %w", o.path, err)
	}

	want := normalizeOrderID(orderID)
	for _, r := range records {
		if normalizeOrderID(string(r.OrderID)) != want {
			continue
		}
		return contractx.Order{
			OrderID: string(r.OrderID),
			Status:  r.Status,
			ETA:     r.ETA,
		}, nil
	}
	return contractx.Order{}, ErrOrderNotFound
}
