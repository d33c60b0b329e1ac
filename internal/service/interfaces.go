package service

import (
	"context"
	"time"

	"github.com/fsdevblog/seamless-karma/internal/domain"
	"github.com/fsdevblog/seamless-karma/internal/repository/repoargs"
	"github.com/fsdevblog/seamless-karma/pkg/currency"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

type OrganizationRepository interface {
	Create(ctx context.Context, args repoargs.CreateOrganization) (*domain.Organization, error)
	FindByID(ctx context.Context, id int64) (*domain.Organization, error)
	FindByName(ctx context.Context, name string) (*domain.Organization, error)
	All(ctx context.Context) ([]domain.Organization, error)
	Update(ctx context.Context, id int64, args repoargs.UpdateOrganization) (*domain.Organization, error)
	Delete(ctx context.Context, id int64) error
}

type VendorRepository interface {
	Create(ctx context.Context, args repoargs.CreateVendor) (*domain.Vendor, error)
	FindByID(ctx context.Context, id int64) (*domain.Vendor, error)
	All(ctx context.Context) ([]domain.Vendor, error)
	Update(ctx context.Context, id int64, args repoargs.UpdateVendor) (*domain.Vendor, error)
	Delete(ctx context.Context, id int64) error
}

type UserRepository interface {
	Create(ctx context.Context, args repoargs.CreateUser) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	All(ctx context.Context) ([]domain.User, error)
	GetByOrganization(ctx context.Context, organizationID int64) ([]domain.User, error)
	Update(ctx context.Context, id int64, args repoargs.UpdateUser) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
}

type OrderRepository interface {
	Create(ctx context.Context, args repoargs.CreateOrder) (*domain.Order, error)
	BatchCreateContributions(
		ctx context.Context,
		orderID int64,
		contributions []repoargs.ContributionCreate,
		fn repoargs.BatchExecQueryRow,
	)
	DeleteContributions(ctx context.Context, orderID int64) error
	FindByID(ctx context.Context, id int64) (*domain.Order, error)
	All(ctx context.Context) ([]domain.Order, error)
	GetParticipated(ctx context.Context, userID int64) ([]domain.Order, error)
	GetByOrganization(ctx context.Context, args repoargs.OrdersByOrganization) ([]domain.Order, error)
	Update(ctx context.Context, id int64, args repoargs.UpdateOrder) (*domain.Order, error)
	Delete(ctx context.Context, id int64) error
}

type AllocationRepository interface {
	UserKarma(ctx context.Context, userID int64) (currency.Amount, error)
	UsersKarma(ctx context.Context, userIDs []int64) (map[int64]currency.Amount, error)
	UserUnallocated(ctx context.Context, userID int64, date time.Time) (currency.Amount, error)
	UnallocatedReport(
		ctx context.Context,
		args repoargs.UnallocatedReportQuery,
	) ([]domain.UnallocatedReportEntry, error)
}
