package pgrepo

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/fsdevblog/seamless-karma/internal/domain"
	"github.com/fsdevblog/seamless-karma/internal/repository/repoargs"
	"github.com/fsdevblog/seamless-karma/pkg/currency"
	"github.com/fsdevblog/seamless-karma/pkg/uow"
)

type OrganizationRepository struct {
	db uow.DBTX
}

func NewOrganizationRepository(db uow.DBTX) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

const organizationColumns = `id, created_at, updated_at, seamless_id, name, default_allocation`

// Create создает организацию. При конфликте имени возвращает ошибку domain.ErrDuplicateKey,
// во всех других случаях - domain.ErrUnknown.
func (r *OrganizationRepository) Create(
	ctx context.Context,
	args repoargs.CreateOrganization,
) (*domain.Organization, error) {
	const q = `INSERT INTO organizations (seamless_id, name, default_allocation)
		VALUES ($1, $2, $3)
		RETURNING ` + organizationColumns

	org, err := scanOrganization(r.db.QueryRow(ctx, q,
		args.SeamlessID, args.Name, currency.ToNullDecimal(args.DefaultAllocation)))
	if err != nil {
		return nil, convertErr(err, "creating organization %s", args.Name)
	}
	return org, nil
}

func (r *OrganizationRepository) FindByID(ctx context.Context, id int64) (*domain.Organization, error) {
	const q = `SELECT ` + organizationColumns + ` FROM organizations WHERE id = $1`
	org, err := scanOrganization(r.db.QueryRow(ctx, q, id))
	if err != nil {
		return nil, convertErr(err, "finding organization by id %d", id)
	}
	return org, nil
}

func (r *OrganizationRepository) FindByName(ctx context.Context, name string) (*domain.Organization, error) {
	const q = `SELECT ` + organizationColumns + ` FROM organizations WHERE name = $1`
	org, err := scanOrganization(r.db.QueryRow(ctx, q, name))
	if err != nil {
		return nil, convertErr(err, "finding organization by name %s", name)
	}
	return org, nil
}

func (r *OrganizationRepository) All(ctx context.Context) ([]domain.Organization, error) {
	const q = `SELECT ` + organizationColumns + ` FROM organizations ORDER BY id`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, convertErr(err, "listing organizations")
	}
	defer rows.Close()

	var orgs []domain.Organization
	for rows.Next() {
		org, scanErr := scanOrganization(rows)
		if scanErr != nil {
			return nil, convertErr(scanErr, "listing organizations")
		}
		orgs = append(orgs, *org)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "listing organizations")
	}
	return orgs, nil
}

// Update обновляет только не-nil поля.
func (r *OrganizationRepository) Update(
	ctx context.Context,
	id int64,
	args repoargs.UpdateOrganization,
) (*domain.Organization, error) {
	const q = `UPDATE organizations SET
			seamless_id = COALESCE($2, seamless_id),
			name = COALESCE($3, name),
			default_allocation = COALESCE($4, default_allocation),
			updated_at = now()
		WHERE id = $1
		RETURNING ` + organizationColumns

	org, err := scanOrganization(r.db.QueryRow(ctx, q,
		id, args.SeamlessID, args.Name, currency.ToNullDecimal(args.DefaultAllocation)))
	if err != nil {
		return nil, convertErr(err, "updating organization %d", id)
	}
	return org, nil
}

// Delete удаляет организацию. Организация с юзерами защищена внешним ключом:
// вернется domain.ErrForeignKeyViolation.
func (r *OrganizationRepository) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM organizations WHERE id = $1`
	tag, err := r.db.Exec(ctx, q, id)
	if err != nil {
		return convertErr(err, "deleting organization %d", id)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(errNoRowsAffected, "deleting organization %d", id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrganization(row rowScanner) (*domain.Organization, error) {
	var org domain.Organization
	var defaultAllocation decimal.NullDecimal
	err := row.Scan(
		&org.ID, &org.CreatedAt, &org.UpdatedAt,
		&org.SeamlessID, &org.Name, &defaultAllocation,
	)
	if err != nil {
		return nil, err
	}
	org.DefaultAllocation = currency.FromNullDecimal(defaultAllocation)
	return &org, nil
}
