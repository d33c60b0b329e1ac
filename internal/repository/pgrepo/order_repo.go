package pgrepo

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/fsdevblog/seamless-karma/internal/domain"
	"github.com/fsdevblog/seamless-karma/internal/repository/repoargs"
	"github.com/fsdevblog/seamless-karma/pkg/currency"
	"github.com/fsdevblog/seamless-karma/pkg/uow"
)

type OrderRepository struct {
	db uow.DBTX
}

func NewOrderRepository(db uow.DBTX) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderColumns = `id, created_at, updated_at, seamless_id, for_date, placed_at, vendor_id, ordered_by_id`

func (r *OrderRepository) Create(ctx context.Context, args repoargs.CreateOrder) (*domain.Order, error) {
	const q = `INSERT INTO orders (seamless_id, for_date, placed_at, vendor_id, ordered_by_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + orderColumns

	order, err := scanOrder(r.db.QueryRow(ctx, q,
		args.SeamlessID, args.ForDate, args.PlacedAt, args.VendorID, args.OrderedByID))
	if err != nil {
		return nil, convertErr(err, "creating order")
	}
	return order, nil
}

// BatchCreateContributions вставляет взносы заказа одним батчем. Ошибки отдаются
// поэлементно через fn: дубликат пары (user_id, order_id) придет как
// domain.ErrDuplicateKey, ссылка на несуществующего юзера - как
// domain.ErrForeignKeyViolation.
func (r *OrderRepository) BatchCreateContributions(
	ctx context.Context,
	orderID int64,
	contributions []repoargs.ContributionCreate,
	fn repoargs.BatchExecQueryRow,
) {
	const q = `INSERT INTO order_contributions (user_id, order_id, amount) VALUES ($1, $2, $3)`

	batch := new(pgx.Batch)
	for _, c := range contributions {
		batch.Queue(q, c.UserID, orderID, c.Amount.Decimal())
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	for i := range contributions {
		_, err := results.Exec()
		fn(i, convertErr(err, "creating order contribution"))
	}
}

// DeleteContributions удаляет все взносы заказа. Используется при полной замене
// состава взносов на обновлении заказа.
func (r *OrderRepository) DeleteContributions(ctx context.Context, orderID int64) error {
	const q = `DELETE FROM order_contributions WHERE order_id = $1`
	if _, err := r.db.Exec(ctx, q, orderID); err != nil {
		return convertErr(err, "deleting contributions of order %d", orderID)
	}
	return nil
}

// FindByID возвращает заказ с загруженными взносами.
func (r *OrderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	order, err := scanOrder(r.db.QueryRow(ctx, q, id))
	if err != nil {
		return nil, convertErr(err, "finding order by id %d", id)
	}

	contributions, contribErr := r.loadContributions(ctx, []int64{order.ID})
	if contribErr != nil {
		return nil, contribErr
	}
	order.Contributions = contributions[order.ID]
	return order, nil
}

func (r *OrderRepository) All(ctx context.Context) ([]domain.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders ORDER BY id`
	return r.queryOrdersWithContributions(ctx, q)
}

// GetParticipated заказы, в которых юзер участвует: собственные (включая те, куда
// он не вносил) и чужие с его взносом. Это полный набор, на котором объектная форма
// движка считает karma и unallocated.
func (r *OrderRepository) GetParticipated(ctx context.Context, userID int64) ([]domain.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders o
		WHERE o.ordered_by_id = $1
			OR EXISTS (
				SELECT 1 FROM order_contributions oc
				WHERE oc.order_id = o.id AND oc.user_id = $1)
		ORDER BY o.for_date DESC, o.id`
	return r.queryOrdersWithContributions(ctx, q, userID)
}

// GetByOrganization заказы, размещенные юзерами организации, опционально за одну дату.
func (r *OrderRepository) GetByOrganization(
	ctx context.Context,
	args repoargs.OrdersByOrganization,
) ([]domain.Order, error) {
	const q = `SELECT o.id, o.created_at, o.updated_at, o.seamless_id, o.for_date, o.placed_at,
			o.vendor_id, o.ordered_by_id
		FROM orders o
		JOIN users u ON u.id = o.ordered_by_id
		WHERE u.organization_id = $1
			AND ($2::date IS NULL OR o.for_date = $2)
		ORDER BY o.for_date DESC, o.id`
	return r.queryOrdersWithContributions(ctx, q, args.OrganizationID, args.Date)
}

func (r *OrderRepository) Update(ctx context.Context, id int64, args repoargs.UpdateOrder) (*domain.Order, error) {
	const q = `UPDATE orders SET
			seamless_id = COALESCE($2, seamless_id),
			for_date = COALESCE($3, for_date),
			placed_at = COALESCE($4, placed_at),
			vendor_id = COALESCE($5, vendor_id),
			updated_at = now()
		WHERE id = $1
		RETURNING ` + orderColumns

	order, err := scanOrder(r.db.QueryRow(ctx, q, id, args.SeamlessID, args.ForDate, args.PlacedAt, args.VendorID))
	if err != nil {
		return nil, convertErr(err, "updating order %d", id)
	}
	return order, nil
}

// Delete удаляет заказ. Взносы уходят вместе с ним каскадом по внешнему ключу,
// сирот не остается.
func (r *OrderRepository) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM orders WHERE id = $1`
	tag, err := r.db.Exec(ctx, q, id)
	if err != nil {
		return convertErr(err, "deleting order %d", id)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(errNoRowsAffected, "deleting order %d", id)
	}
	return nil
}

func (r *OrderRepository) queryOrdersWithContributions(
	ctx context.Context,
	q string,
	queryArgs ...any,
) ([]domain.Order, error) {
	rows, err := r.db.Query(ctx, q, queryArgs...)
	if err != nil {
		return nil, convertErr(err, "listing orders")
	}
	defer rows.Close()

	var orders []domain.Order
	var ids []int64
	for rows.Next() {
		order, scanErr := scanOrder(rows)
		if scanErr != nil {
			return nil, convertErr(scanErr, "listing orders")
		}
		orders = append(orders, *order)
		ids = append(ids, order.ID)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "listing orders")
	}

	if len(orders) == 0 {
		return orders, nil
	}

	contributions, contribErr := r.loadContributions(ctx, ids)
	if contribErr != nil {
		return nil, contribErr
	}
	for i := range orders {
		orders[i].Contributions = contributions[orders[i].ID]
	}
	return orders, nil
}

// loadContributions загружает взносы для набора заказов одним запросом,
// сгруппированные по order_id.
func (r *OrderRepository) loadContributions(
	ctx context.Context,
	orderIDs []int64,
) (map[int64][]domain.OrderContribution, error) {
	const q = `SELECT user_id, order_id, created_at, updated_at, amount
		FROM order_contributions
		WHERE order_id = ANY($1)
		ORDER BY order_id, user_id`

	rows, err := r.db.Query(ctx, q, orderIDs)
	if err != nil {
		return nil, convertErr(err, "loading order contributions")
	}
	defer rows.Close()

	result := make(map[int64][]domain.OrderContribution, len(orderIDs))
	for rows.Next() {
		var c domain.OrderContribution
		var amount decimal.Decimal
		if scanErr := rows.Scan(&c.UserID, &c.OrderID, &c.CreatedAt, &c.UpdatedAt, &amount); scanErr != nil {
			return nil, convertErr(scanErr, "loading order contributions")
		}
		c.Amount = currency.New(amount)
		result[c.OrderID] = append(result[c.OrderID], c)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "loading order contributions")
	}
	return result, nil
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var order domain.Order
	var forDate time.Time
	err := row.Scan(
		&order.ID, &order.CreatedAt, &order.UpdatedAt,
		&order.SeamlessID, &forDate, &order.PlacedAt,
		&order.VendorID, &order.OrderedByID,
	)
	if err != nil {
		return nil, err
	}
	order.ForDate = forDate
	return &order, nil
}
