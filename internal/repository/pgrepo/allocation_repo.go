package pgrepo

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fsdevblog/seamless-karma/internal/domain"
	"github.com/fsdevblog/seamless-karma/internal/repository/repoargs"
	"github.com/fsdevblog/seamless-karma/pkg/currency"
	"github.com/fsdevblog/seamless-karma/pkg/uow"
)

// AllocationRepository запросная форма движка karma/allocation: те же агрегаты,
// что объектная форма в domain, но вычисленные базой без загрузки строк в память.
// Формы обязаны совпадать с точностью до двух знаков. Все суммы обернуты в
// COALESCE, поэтому ни один запрос не возвращает NULL: пустые данные дают 0.00.
type AllocationRepository struct {
	db uow.DBTX
}

func NewAllocationRepository(db uow.DBTX) *AllocationRepository {
	return &AllocationRepository{db: db}
}

// karmaExpr скалярное выражение кармы юзера u: сумма его взносов в чужие заказы
// минус сумма чужих взносов в его заказы. Знак закреплен по объектной форме
// domain (*UserOrders).Karma.
const karmaExpr = `
	COALESCE((
		SELECT SUM(oc.amount) FROM order_contributions oc
		JOIN orders o ON o.id = oc.order_id
		WHERE oc.user_id = u.id AND o.ordered_by_id <> u.id), 0.00)
	- COALESCE((
		SELECT SUM(oc.amount) FROM order_contributions oc
		JOIN orders o ON o.id = oc.order_id
		WHERE o.ordered_by_id = u.id AND oc.user_id <> u.id), 0.00)`

// unallocatedExpr остаток лимита юзера u на дату $2: allocation минус его взносы
// во все заказы этой даты.
const unallocatedExpr = `
	u.allocation - COALESCE((
		SELECT SUM(oc.amount) FROM order_contributions oc
		JOIN orders o ON o.id = oc.order_id
		WHERE oc.user_id = u.id AND o.for_date = $2), 0.00)`

// participatedExpr участие юзера u в каком-либо заказе даты $2: как внесший взнос
// или как владелец заказа.
const participatedExpr = `
	EXISTS (
		SELECT 1 FROM order_contributions oc
		JOIN orders o ON o.id = oc.order_id
		WHERE oc.user_id = u.id AND o.for_date = $2)
	OR EXISTS (
		SELECT 1 FROM orders o
		WHERE o.ordered_by_id = u.id AND o.for_date = $2)`

// UserKarma карма одного юзера, посчитанная базой.
func (r *AllocationRepository) UserKarma(ctx context.Context, userID int64) (currency.Amount, error) {
	const q = `SELECT ` + karmaExpr + ` FROM users u WHERE u.id = $1`

	var karma decimal.Decimal
	if err := r.db.QueryRow(ctx, q, userID).Scan(&karma); err != nil {
		return currency.Zero(), convertErr(err, "computing karma for user %d", userID)
	}
	return currency.New(karma), nil
}

// UsersKarma карма набора юзеров одним запросом. В мапе есть ключ для каждого
// найденного юзера, включая юзеров без взносов (у тех 0.00).
func (r *AllocationRepository) UsersKarma(
	ctx context.Context,
	userIDs []int64,
) (map[int64]currency.Amount, error) {
	const q = `SELECT u.id, (` + karmaExpr + `) AS karma FROM users u WHERE u.id = ANY($1)`

	rows, err := r.db.Query(ctx, q, userIDs)
	if err != nil {
		return nil, convertErr(err, "computing karma for %d users", len(userIDs))
	}
	defer rows.Close()

	karmas := make(map[int64]currency.Amount, len(userIDs))
	for rows.Next() {
		var id int64
		var karma decimal.Decimal
		if scanErr := rows.Scan(&id, &karma); scanErr != nil {
			return nil, convertErr(scanErr, "computing karma for %d users", len(userIDs))
		}
		karmas[id] = currency.New(karma)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "computing karma for %d users", len(userIDs))
	}
	return karmas, nil
}

// UserUnallocated остаток лимита юзера на дату, посчитанный базой.
func (r *AllocationRepository) UserUnallocated(
	ctx context.Context,
	userID int64,
	date time.Time,
) (currency.Amount, error) {
	const q = `SELECT ` + unallocatedExpr + ` FROM users u WHERE u.id = $1`

	var unallocated decimal.Decimal
	if err := r.db.QueryRow(ctx, q, userID, date).Scan(&unallocated); err != nil {
		return currency.Zero(), convertErr(err, "computing unallocated for user %d", userID)
	}
	return currency.New(unallocated), nil
}

// UnallocatedReport строки отчета по организации за дату: сортировка по остатку
// лимита по убыванию, при равенстве - по карме по возрастанию (щедрые и богатые
// в начале списка). Хвостовой тай-брейк по id делает порядок детерминированным.
func (r *AllocationRepository) UnallocatedReport(
	ctx context.Context,
	args repoargs.UnallocatedReportQuery,
) ([]domain.UnallocatedReportEntry, error) {
	const q = `SELECT u.id, u.first_name, u.last_name,
			(` + unallocatedExpr + `) AS unallocated,
			(` + karmaExpr + `) AS karma
		FROM users u
		WHERE u.organization_id = $1
			AND ($3 OR ` + participatedExpr + `)
		ORDER BY unallocated DESC, karma ASC, u.id ASC`

	rows, err := r.db.Query(ctx, q, args.OrganizationID, args.Date, args.IncludeNonparticipants)
	if err != nil {
		return nil, convertErr(err, "building unallocated report for organization %d", args.OrganizationID)
	}
	defer rows.Close()

	var entries []domain.UnallocatedReportEntry
	for rows.Next() {
		var entry domain.UnallocatedReportEntry
		var unallocated, karma decimal.Decimal
		scanErr := rows.Scan(&entry.UserID, &entry.FirstName, &entry.LastName, &unallocated, &karma)
		if scanErr != nil {
			return nil, convertErr(scanErr, "building unallocated report for organization %d", args.OrganizationID)
		}
		entry.Unallocated = currency.New(unallocated)
		entry.Karma = currency.New(karma)
		entries = append(entries, entry)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "building unallocated report for organization %d", args.OrganizationID)
	}
	return entries, nil
}
