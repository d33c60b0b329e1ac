package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fsdevblog/seamless-karma/pkg/currency"
)

type Organization struct {
	ID                int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
	SeamlessID        *int64
	Name              string
	DefaultAllocation *currency.Amount
}

type Vendor struct {
	ID         int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
	SeamlessID *int64
	Name       string
	Latitude   *decimal.Decimal
	Longitude  *decimal.Decimal
}

type User struct {
	ID             int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
	SeamlessID     *int64
	Username       string
	FirstName      string
	LastName       string
	Allocation     currency.Amount
	OrganizationID int64
}

// Order заказ еды. Contributions заполняется репозиторием при полной загрузке заказа;
// nil означает что связь не загружена (для агрегатов это эквивалентно пустому набору).
type Order struct {
	ID            int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
	SeamlessID    *int64
	ForDate       time.Time
	PlacedAt      time.Time
	VendorID      int64
	OrderedByID   int64
	Contributions []OrderContribution
}

// OrderContribution взнос юзера в заказ. Составной ключ (UserID, OrderID) -
// не более одной записи на пару юзер/заказ. Запись принадлежит ровно одному заказу
// и удаляется вместе с ним.
type OrderContribution struct {
	UserID    int64
	OrderID   int64
	CreatedAt time.Time
	UpdatedAt time.Time
	Amount    currency.Amount
}

// SameDate сравнивает календарные даты без учета времени и зоны.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
