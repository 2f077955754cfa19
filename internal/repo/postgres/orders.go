package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/chamalog/chamalog/internal/domain/order"
	"github.com/chamalog/chamalog/internal/observability"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
)

var orderColumns = []string{
	"id",
	"code",
	"sender",
	"recipient",
	"address",
	"weight",
	"dimensions",
	"declared_value",
	"origin_store_id",
	"status",
	"owner_id",
	"courier_id",
	"created_at",
}

var orderColumnsSQL = strings.Join(orderColumns, ", ")

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

type OrdersRepo struct {
	base
}

func NewOrdersRepo(db DB, prom *observability.Prom) *OrdersRepo {
	return &OrdersRepo{base{db: db, prom: prom}}
}

func scanOrder(row pgx.Row, o *order.Order) error {
	return row.Scan(
		&o.ID,
		&o.Code,
		&o.Sender,
		&o.Recipient,
		&o.Address,
		&o.Weight,
		&o.Dimensions,
		&o.Value,
		&o.OriginID,
		&o.Status,
		&o.OwnerID,
		&o.CourierID,
		&o.CreatedAt,
	)
}

// Create inserts o and fills in id, status and creation time.
func (r *OrdersRepo) Create(ctx context.Context, o *order.Order) error {
	err := r.observe("orders.create", func() error {
		return r.db.QueryRow(ctx,
			`INSERT INTO orders
			 (code, sender, recipient, address, weight, dimensions, declared_value, origin_store_id, owner_id, courier_id)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			 RETURNING id, status, created_at`,
			o.Code, o.Sender, o.Recipient, o.Address, o.Weight, o.Dimensions, o.Value, o.OriginID, o.OwnerID, o.CourierID,
		).Scan(&o.ID, &o.Status, &o.CreatedAt)
	})

	switch {
	case err == nil:
		return nil
	case IsUniqueViolation(err):
		return order.ErrDuplicateCode
	case IsForeignKeyViolation(err):
		if strings.Contains(constraintName(err), "courier") {
			return order.ErrUnknownUser
		}
		return order.ErrUnknownStore
	default:
		return err
	}
}

func (r *OrdersRepo) GetByID(ctx context.Context, id int64) (order.Order, error) {
	return r.getOne(ctx, "orders.get_by_id", `SELECT `+orderColumnsSQL+` FROM orders WHERE id = $1`, id)
}

func (r *OrdersRepo) GetByCode(ctx context.Context, code string) (order.Order, error) {
	return r.getOne(ctx, "orders.get_by_code", `SELECT `+orderColumnsSQL+` FROM orders WHERE code = $1`, code)
}

func (r *OrdersRepo) getOne(ctx context.Context, op, query string, args ...any) (order.Order, error) {
	var o order.Order

	err := r.observe(op, func() error {
		return scanOrder(r.db.QueryRow(ctx, query, args...), &o)
	})

	if errors.Is(err, pgx.ErrNoRows) {
		return order.Order{}, order.ErrNotFound
	}

	return o, err
}

// List returns orders newest first. With f.Limit > 0 the caller gets at most
// Limit rows starting strictly after the (AfterCreatedAt, AfterID) position.
func (r *OrdersRepo) List(ctx context.Context, f order.ListFilter) ([]order.Order, error) {
	sb := psql.Select(orderColumns...).From("orders")

	if f.OwnerID != nil {
		sb = sb.Where(squirrel.Eq{"owner_id": *f.OwnerID})
	}

	if f.CourierID != nil {
		sb = sb.Where(squirrel.Eq{"courier_id": *f.CourierID})
	}

	if f.Status != nil {
		sb = sb.Where(squirrel.Eq{"status": *f.Status})
	}

	if f.AfterCreatedAt != nil {
		sb = sb.Where(squirrel.Expr("(created_at, id) < (?, ?)", *f.AfterCreatedAt, f.AfterID))
	}

	sb = sb.OrderBy("created_at DESC", "id DESC")

	if f.Limit > 0 {
		sb = sb.Limit(uint64(f.Limit))
	}

	query, args, err := sb.ToSql()

	if err != nil {
		return nil, err
	}

	out := make([]order.Order, 0)

	err = r.observe("orders.list", func() error {
		return pgxscan.Select(ctx, r.db, &out, query, args...)
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}

// UpdateStatus writes status unconditionally; concurrent writers race and
// the last one wins.
func (r *OrdersRepo) UpdateStatus(ctx context.Context, id int64, status order.Status) (order.Order, error) {
	return r.getOne(ctx, "orders.update_status",
		`UPDATE orders SET status = $2 WHERE id = $1 RETURNING `+orderColumnsSQL, id, status)
}

// ConfirmTransport marks the order in transit and assigns courierID unless a
// courier is already set.
func (r *OrdersRepo) ConfirmTransport(ctx context.Context, id, courierID int64) (order.Order, error) {
	return r.getOne(ctx, "orders.confirm_transport",
		`UPDATE orders
		 SET status = $2, courier_id = COALESCE(courier_id, $3)
		 WHERE id = $1
		 RETURNING `+orderColumnsSQL, id, order.StatusInTransit, courierID)
}

// Delete removes the order and returns the deleted row.
func (r *OrdersRepo) Delete(ctx context.Context, id int64) (order.Order, error) {
	return r.getOne(ctx, "orders.delete", `DELETE FROM orders WHERE id = $1 RETURNING `+orderColumnsSQL, id)
}

// Stats counts in one statement so the three numbers come from the same snapshot.
func (r *OrdersRepo) Stats(ctx context.Context) (order.Stats, error) {
	var s order.Stats

	err := r.observe("orders.stats", func() error {
		return r.db.QueryRow(ctx,
			`SELECT
			   COUNT(*),
			   COUNT(*) FILTER (WHERE status = $1),
			   COUNT(*) FILTER (WHERE status = $2)
			 FROM orders`,
			order.StatusInTransit, order.StatusDelivered,
		).Scan(&s.Total, &s.InTransit, &s.Delivered)
	})

	return s, err
}

// LabelView loads an order together with its origin store.
func (r *OrdersRepo) LabelView(ctx context.Context, id int64) (order.LabelView, error) {
	var v order.LabelView

	err := r.observe("orders.label_view", func() error {
		return pgxscan.Get(ctx, r.db, &v,
			`SELECT o.id, o.code, o.sender, o.recipient, o.address, o.weight, o.dimensions,
			        o.declared_value, o.origin_store_id, o.status, o.owner_id, o.courier_id, o.created_at,
			        s.name AS store_name, s.address AS store_address
			 FROM orders o
			 JOIN stores s ON s.id = o.origin_store_id
			 WHERE o.id = $1`, id)
	})

	if errors.Is(err, pgx.ErrNoRows) {
		return order.LabelView{}, order.ErrNotFound
	}

	return v, err
}
