package pgrepo

import (
	"context"

	"github.com/fsdevblog/seamless-karma/internal/domain"
	"github.com/fsdevblog/seamless-karma/internal/repository/repoargs"
	"github.com/fsdevblog/seamless-karma/pkg/uow"
)

type VendorRepository struct {
	db uow.DBTX
}

func NewVendorRepository(db uow.DBTX) *VendorRepository {
	return &VendorRepository{db: db}
}

const vendorColumns = `id, created_at, updated_at, seamless_id, name, latitude, longitude`

func (r *VendorRepository) Create(ctx context.Context, args repoargs.CreateVendor) (*domain.Vendor, error) {
	const q = `INSERT INTO vendors (seamless_id, name, latitude, longitude)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + vendorColumns

	vendor, err := scanVendor(r.db.QueryRow(ctx, q, args.SeamlessID, args.Name, args.Latitude, args.Longitude))
	if err != nil {
		return nil, convertErr(err, "creating vendor %s", args.Name)
	}
	return vendor, nil
}

func (r *VendorRepository) FindByID(ctx context.Context, id int64) (*domain.Vendor, error) {
	const q = `SELECT ` + vendorColumns + ` FROM vendors WHERE id = $1`
	vendor, err := scanVendor(r.db.QueryRow(ctx, q, id))
	if err != nil {
		return nil, convertErr(err, "finding vendor by id %d", id)
	}
	return vendor, nil
}

func (r *VendorRepository) All(ctx context.Context) ([]domain.Vendor, error) {
	const q = `SELECT ` + vendorColumns + ` FROM vendors ORDER BY id`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, convertErr(err, "listing vendors")
	}
	defer rows.Close()

	var vendors []domain.Vendor
	for rows.Next() {
		vendor, scanErr := scanVendor(rows)
		if scanErr != nil {
			return nil, convertErr(scanErr, "listing vendors")
		}
		vendors = append(vendors, *vendor)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "listing vendors")
	}
	return vendors, nil
}

func (r *VendorRepository) Update(
	ctx context.Context,
	id int64,
	args repoargs.UpdateVendor,
) (*domain.Vendor, error) {
	const q = `UPDATE vendors SET
			seamless_id = COALESCE($2, seamless_id),
			name = COALESCE($3, name),
			latitude = COALESCE($4, latitude),
			longitude = COALESCE($5, longitude),
			updated_at = now()
		WHERE id = $1
		RETURNING ` + vendorColumns

	vendor, err := scanVendor(r.db.QueryRow(ctx, q, id, args.SeamlessID, args.Name, args.Latitude, args.Longitude))
	if err != nil {
		return nil, convertErr(err, "updating vendor %d", id)
	}
	return vendor, nil
}

func (r *VendorRepository) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM vendors WHERE id = $1`
	tag, err := r.db.Exec(ctx, q, id)
	if err != nil {
		return convertErr(err, "deleting vendor %d", id)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(errNoRowsAffected, "deleting vendor %d", id)
	}
	return nil
}

func scanVendor(row rowScanner) (*domain.Vendor, error) {
	var vendor domain.Vendor
	err := row.Scan(
		&vendor.ID, &vendor.CreatedAt, &vendor.UpdatedAt,
		&vendor.SeamlessID, &vendor.Name, &vendor.Latitude, &vendor.Longitude,
	)
	if err != nil {
		return nil, err
	}
	return &vendor, nil
}
