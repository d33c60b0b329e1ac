package api

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"github.com/fsdevblog/seamless-karma/internal/domain"
	"github.com/fsdevblog/seamless-karma/internal/repository/repoargs"
	"github.com/fsdevblog/seamless-karma/internal/service"
	"github.com/fsdevblog/seamless-karma/pkg/currency"
)

// OrganizationServicer интерфейс исключительно для моков.
type OrganizationServicer interface {
	Create(ctx context.Context, args repoargs.CreateOrganization) (*domain.Organization, error)
	GetByID(ctx context.Context, id int64) (*domain.Organization, error)
	GetByName(ctx context.Context, name string) (*domain.Organization, error)
	List(ctx context.Context) ([]domain.Organization, error)
	Update(ctx context.Context, id int64, args repoargs.UpdateOrganization) (*domain.Organization, error)
	Delete(ctx context.Context, id int64) error
}

type VendorServicer interface {
	Create(ctx context.Context, args repoargs.CreateVendor) (*domain.Vendor, error)
	GetByID(ctx context.Context, id int64) (*domain.Vendor, error)
	List(ctx context.Context) ([]domain.Vendor, error)
	Update(ctx context.Context, id int64, args repoargs.UpdateVendor) (*domain.Vendor, error)
	Delete(ctx context.Context, id int64) error
}

type UserServicer interface {
	Create(ctx context.Context, args service.CreateUserArgs) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, id int64, args repoargs.UpdateUser) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
	Karma(ctx context.Context, userID int64) (currency.Amount, error)
	Karmas(ctx context.Context, userIDs []int64) (map[int64]currency.Amount, error)
}

type OrderServicer interface {
	Create(ctx context.Context, args service.CreateOrderArgs) (*domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	GetByUserID(ctx context.Context, userID int64) ([]domain.Order, error)
	GetByOrganization(ctx context.Context, organizationID int64, date *time.Time) ([]domain.Order, error)
	Update(ctx context.Context, id int64, args service.UpdateOrderArgs) (*domain.Order, error)
	Delete(ctx context.Context, id int64) error
}

type AllocationServicer interface {
	UnallocatedReport(
		ctx context.Context,
		organizationID int64,
		date time.Time,
		includeNonparticipants bool,
	) (*domain.UnallocatedReport, error)
}
