package source

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	contractx "github.com/tanpawarit/Chative-Support-Mini-Agent/agent/contract"
)

type OrderTableConfig struct {
	DSN string `envconfig:"DSN" split_words:"true"`
}

// OrderTable looks orders up in a Postgres "orders" table. It only reads.
type OrderTable struct {
	db *bun.DB
}

var _ OrderSource = (*OrderTable)(nil)

type orderRow struct {
	bun.BaseModel `bun:"table:orders,alias:o"`

	OrderID string         `bun:"order_id,pk"`
	Status  string         `bun:"status"`
	ETA     sql.NullString `bun:"eta"`
}

func NewOrderTable(cfg OrderTableConfig) (*OrderTable, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, fmt.Errorf("%w: orders database dsn is required", contractx.ErrValidation)
	}
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return NewOrderTableWithDB(bun.NewDB(sqldb, pgdialect.New())), nil
}

func NewOrderTableWithDB(db *bun.DB) *OrderTable {
	return &OrderTable{db: db}
}

func (t *OrderTable) FindOrder(ctx context.Context, orderID string) (contractx.Order, error) {
	var row orderRow
	err := t.lookupQuery(&row, orderID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return contractx.Order{}, ErrOrderNotFound
	}
	if err != nil {
		return contractx.Order{}, fmt.Errorf("query orders: %w", err)
	}

	order := contractx.Order{
		OrderID: row.OrderID,
		Status:  row.Status,
	}
	if row.ETA.Valid {
		eta := row.ETA.String
		order.ETA = &eta
	}
	return order, nil
}

func (t *OrderTable) lookupQuery(row *orderRow, orderID string) *bun.SelectQuery {
	return t.db.NewSelect().
		Model(row).
		Column("order_id", "status", "eta").
		Where("order_id = ?", normalizeOrderID(orderID)).
		Limit(1)
}

func (t *OrderTable) Close() error {
	return t.db.Close()
}
