package pgrepo

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/fsdevblog/seamless-karma/internal/domain"
	"github.com/fsdevblog/seamless-karma/internal/repository/repoargs"
	"github.com/fsdevblog/seamless-karma/pkg/currency"
	"github.com/fsdevblog/seamless-karma/pkg/uow"
)

type UserRepository struct {
	db uow.DBTX
}

func NewUserRepository(db uow.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, created_at, updated_at, seamless_id, username, first_name, last_name, allocation, organization_id`

// Create создает юзера. При конфликте юзернейма возвращает ошибку domain.ErrDuplicateKey,
// при ссылке на несуществующую организацию - domain.ErrForeignKeyViolation.
func (r *UserRepository) Create(ctx context.Context, args repoargs.CreateUser) (*domain.User, error) {
	const q = `INSERT INTO users (seamless_id, username, first_name, last_name, allocation, organization_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRow(ctx, q,
		args.SeamlessID, args.Username, args.FirstName, args.LastName,
		args.Allocation.Decimal(), args.OrganizationID))
	if err != nil {
		return nil, convertErr(err, "creating user %s", args.Username)
	}
	return user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(r.db.QueryRow(ctx, q, id))
	if err != nil {
		return nil, convertErr(err, "finding user by id %d", id)
	}
	return user, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	user, err := scanUser(r.db.QueryRow(ctx, q, username))
	if err != nil {
		return nil, convertErr(err, "finding user by username %s", username)
	}
	return user, nil
}

func (r *UserRepository) All(ctx context.Context) ([]domain.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users ORDER BY id`
	return r.queryUsers(ctx, q)
}

func (r *UserRepository) GetByOrganization(ctx context.Context, organizationID int64) ([]domain.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE organization_id = $1 ORDER BY id`
	return r.queryUsers(ctx, q, organizationID)
}

func (r *UserRepository) Update(ctx context.Context, id int64, args repoargs.UpdateUser) (*domain.User, error) {
	const q = `UPDATE users SET
			seamless_id = COALESCE($2, seamless_id),
			username = COALESCE($3, username),
			first_name = COALESCE($4, first_name),
			last_name = COALESCE($5, last_name),
			allocation = COALESCE($6, allocation),
			updated_at = now()
		WHERE id = $1
		RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRow(ctx, q,
		id, args.SeamlessID, args.Username, args.FirstName, args.LastName,
		currency.ToNullDecimal(args.Allocation)))
	if err != nil {
		return nil, convertErr(err, "updating user %d", id)
	}
	return user, nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM users WHERE id = $1`
	tag, err := r.db.Exec(ctx, q, id)
	if err != nil {
		return convertErr(err, "deleting user %d", id)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(errNoRowsAffected, "deleting user %d", id)
	}
	return nil
}

func (r *UserRepository) queryUsers(ctx context.Context, q string, queryArgs ...any) ([]domain.User, error) {
	rows, err := r.db.Query(ctx, q, queryArgs...)
	if err != nil {
		return nil, convertErr(err, "listing users")
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, scanErr := scanUser(rows)
		if scanErr != nil {
			return nil, convertErr(scanErr, "listing users")
		}
		users = append(users, *user)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "listing users")
	}
	return users, nil
}

func scanUser(row rowScanner) (*domain.User, error) {
	var user domain.User
	var allocation decimal.Decimal
	err := row.Scan(
		&user.ID, &user.CreatedAt, &user.UpdatedAt,
		&user.SeamlessID, &user.Username, &user.FirstName, &user.LastName,
		&allocation, &user.OrganizationID,
	)
	if err != nil {
		return nil, err
	}
	user.Allocation = currency.New(allocation)
	return &user, nil
}
