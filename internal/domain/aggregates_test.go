package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fsdevblog/seamless-karma/pkg/currency"
)

var testDate = time.Date(2014, 4, 1, 0, 0, 0, 0, time.UTC)

func makeOrder(id, orderedBy int64, forDate time.Time, contributions map[int64]string) Order {
	o := Order{
		ID:          id,
		ForDate:     forDate,
		PlacedAt:    forDate.Add(-18 * time.Hour),
		VendorID:    1,
		OrderedByID: orderedBy,
	}
	for userID, amount := range contributions {
		o.Contributions = append(o.Contributions, OrderContribution{
			UserID:  userID,
			OrderID: id,
			Amount:  currency.MustFromString(amount),
		})
	}
	return o
}

func TestOrderTotalAmount(t *testing.T) {
	order := makeOrder(1, 4, testDate, map[int64]string{
		4: "10.00",
		8: "2.00",
		1: "1.30",
	})
	assert.Equal(t, "13.30", order.TotalAmount().String())
}

func TestOrderTotalAmount_Empty(t *testing.T) {
	order := makeOrder(1, 4, testDate, nil)
	assert.Equal(t, "0.00", order.TotalAmount().String())
	assert.Equal(t, "0.00", order.PersonalContribution().String())
	assert.Equal(t, "0.00", order.ExternalContribution().String())
}

func TestOrderContributionSplit(t *testing.T) {
	order := makeOrder(1, 4, testDate, map[int64]string{
		4: "10.00",
		8: "2.00",
		1: "1.30",
	})
	assert.Equal(t, "10.00", order.PersonalContribution().String())
	assert.Equal(t, "3.30", order.ExternalContribution().String())
	// personal + external == total
	sum := order.PersonalContribution().Add(order.ExternalContribution())
	assert.True(t, sum.Equal(order.TotalAmount()))
}

func TestOrderUserContribution_NoContribution(t *testing.T) {
	order := makeOrder(1, 4, testDate, map[int64]string{4: "8.49"})
	// юзер без взноса дает ровно 0.00, а не nil и не ошибку
	assert.Equal(t, "0.00", order.UserContribution(99).String())
	assert.Equal(t, "8.49", order.UserContribution(4).String())
}

func TestOrderIsExternalAndBeneficiary(t *testing.T) {
	order := makeOrder(1, 4, testDate, map[int64]string{4: "8.00", 8: "2.75"})

	require.Len(t, order.Contributions, 2)
	for _, c := range order.Contributions {
		if c.UserID == 4 {
			assert.False(t, order.IsExternal(c))
		} else {
			assert.True(t, order.IsExternal(c))
		}
	}
	assert.Equal(t, int64(4), order.BeneficiaryID())
}

func TestKarma_NoActivity(t *testing.T) {
	uo := UserOrders{User: User{ID: 1, Allocation: currency.MustFromString("10.00")}}
	assert.Equal(t, "0.00", uo.Karma().String())
}

func TestKarma_ZeroSumPair(t *testing.T) {
	// A вносит 10.00 в заказ B и ничего не получает обратно
	order := makeOrder(1, 2, testDate, map[int64]string{
		2: "5.00",
		1: "10.00",
	})

	a := UserOrders{User: User{ID: 1}, Orders: []Order{order}}
	b := UserOrders{User: User{ID: 2}, Orders: []Order{order}}

	assert.Equal(t, "10.00", a.Karma().String())
	assert.Equal(t, "-10.00", b.Karma().String())
}

func TestKarma_ReceivedOnOwnOrderWithoutOwnContribution(t *testing.T) {
	// юзер разместил заказ, но сам не вносил: все взносы чужие и идут ему в минус
	order := makeOrder(1, 7, testDate, map[int64]string{3: "4.50", 5: "1.25"})
	uo := UserOrders{User: User{ID: 7}, Orders: []Order{order}}
	assert.Equal(t, "-5.75", uo.Karma().String())
}

func TestKarma_MixedOrders(t *testing.T) {
	own := makeOrder(1, 1, testDate, map[int64]string{1: "6.00", 2: "4.00"})
	foreign := makeOrder(2, 2, testDate.AddDate(0, 0, 1), map[int64]string{2: "3.00", 1: "2.50"})

	uo := UserOrders{User: User{ID: 1}, Orders: []Order{own, foreign}}
	// отдал 2.50, получил 4.00
	assert.Equal(t, "-1.50", uo.Karma().String())
}

func TestContributedOrders(t *testing.T) {
	own := makeOrder(1, 1, testDate, map[int64]string{1: "6.00", 2: "4.00"})
	foreign := makeOrder(2, 2, testDate, map[int64]string{2: "3.00", 1: "2.50"})
	foreignNoContribution := makeOrder(3, 3, testDate, map[int64]string{3: "9.00"})

	uo := UserOrders{User: User{ID: 1}, Orders: []Order{own, foreign, foreignNoContribution}}
	contributed := uo.ContributedOrders()
	require.Len(t, contributed, 1)
	assert.Equal(t, int64(2), contributed[0].ID)
}

func TestUnallocated(t *testing.T) {
	user := User{ID: 1, Allocation: currency.MustFromString("11.50")}

	t.Run("no contributions on date", func(t *testing.T) {
		uo := UserOrders{User: user}
		assert.Equal(t, "11.50", uo.Unallocated(testDate).String())
	})

	t.Run("decreases by each contribution on date", func(t *testing.T) {
		own := makeOrder(1, 1, testDate, map[int64]string{1: "5.00"})
		foreign := makeOrder(2, 2, testDate, map[int64]string{2: "1.00", 1: "6.00"})
		otherDay := makeOrder(3, 1, testDate.AddDate(0, 0, 1), map[int64]string{1: "3.00"})

		uo := UserOrders{User: user, Orders: []Order{own, foreign, otherDay}}
		assert.Equal(t, "0.50", uo.Unallocated(testDate).String())
	})

	t.Run("can go negative", func(t *testing.T) {
		own := makeOrder(1, 1, testDate, map[int64]string{1: "15.00"})
		uo := UserOrders{User: user, Orders: []Order{own}}
		assert.Equal(t, "-3.50", uo.Unallocated(testDate).String())
	})
}

func TestParticipatedOn(t *testing.T) {
	user := User{ID: 1, Allocation: currency.MustFromString("10.00")}

	t.Run("no orders", func(t *testing.T) {
		uo := UserOrders{User: user}
		assert.False(t, uo.ParticipatedOn(testDate))
	})

	t.Run("as contributor", func(t *testing.T) {
		foreign := makeOrder(1, 2, testDate, map[int64]string{2: "4.00", 1: "2.00"})
		uo := UserOrders{User: user, Orders: []Order{foreign}}
		assert.True(t, uo.ParticipatedOn(testDate))
		assert.False(t, uo.ParticipatedOn(testDate.AddDate(0, 0, 1)))
	})

	t.Run("as orderer without own contribution", func(t *testing.T) {
		own := makeOrder(1, 1, testDate, map[int64]string{3: "4.00"})
		uo := UserOrders{User: user, Orders: []Order{own}}
		assert.True(t, uo.ParticipatedOn(testDate))
	})
}
