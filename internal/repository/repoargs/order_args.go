package repoargs

import (
	"time"

	"github.com/fsdevblog/seamless-karma/pkg/currency"
)

type CreateOrder struct {
	SeamlessID  *int64
	ForDate     time.Time
	PlacedAt    time.Time
	VendorID    int64
	OrderedByID int64
}

type UpdateOrder struct {
	SeamlessID *int64
	ForDate    *time.Time
	PlacedAt   *time.Time
	VendorID   *int64
}

type ContributionCreate struct {
	UserID int64
	Amount currency.Amount
}

// OrdersByOrganization Date == nil возвращает заказы за все даты.
type OrdersByOrganization struct {
	OrganizationID int64
	Date           *time.Time
}
