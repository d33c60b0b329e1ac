package domain

import (
	"time"

	"github.com/fsdevblog/seamless-karma/pkg/currency"
)

// Агрегаты над уже загруженными сущностями. Каждому методу здесь соответствует
// эквивалентный SQL-агрегат в репозитории allocation (pgrepo); обе формы обязаны
// давать одинаковый результат с точностью до двух знаков. Ни один агрегат не
// возвращает ошибку: отсутствие данных всегда схлопывается в 0.00.

// TotalAmount сумма всех взносов заказа. Пустой заказ дает 0.00.
func (o *Order) TotalAmount() currency.Amount {
	total := currency.Zero()
	for _, c := range o.Contributions {
		total = total.Add(c.Amount)
	}
	return total
}

// PersonalContribution часть суммы заказа, внесенная тем, кто его разместил.
func (o *Order) PersonalContribution() currency.Amount {
	return o.UserContribution(o.OrderedByID)
}

// ExternalContribution часть суммы заказа, внесенная всеми остальными.
// Инвариант: PersonalContribution + ExternalContribution == TotalAmount.
func (o *Order) ExternalContribution() currency.Amount {
	total := currency.Zero()
	for _, c := range o.Contributions {
		if o.IsExternal(c) {
			total = total.Add(c.Amount)
		}
	}
	return total
}

// UserContribution сумма взносов конкретного юзера в заказ. Юзер без взноса дает 0.00.
func (o *Order) UserContribution(userID int64) currency.Amount {
	total := currency.Zero()
	for _, c := range o.Contributions {
		if c.UserID == userID {
			total = total.Add(c.Amount)
		}
	}
	return total
}

// IsExternal вернет true если взнос сделан не владельцем заказа.
func (o *Order) IsExternal(c OrderContribution) bool {
	return c.UserID != o.OrderedByID
}

// BeneficiaryID юзер, в чью пользу идут взносы заказа, то есть его владелец.
func (o *Order) BeneficiaryID() int64 {
	return o.OrderedByID
}

// UserOrders юзер вместе со всеми заказами, в которых он участвует: собственными
// (включая те, куда он сам не внес ни копейки) и чужими, куда он внес взнос.
// На этом наборе считаются karma и unallocated в объектной форме.
type UserOrders struct {
	User   User
	Orders []Order
}

// Karma сколько юзер внес в чужие заказы минус сколько другие внесли в его заказы.
// Щедрый донор уходит в плюс, халявщик в минус. Юзер без заказов имеет карму 0.00.
func (uo *UserOrders) Karma() currency.Amount {
	given := currency.Zero()
	received := currency.Zero()
	for i := range uo.Orders {
		o := &uo.Orders[i]
		if o.OrderedByID == uo.User.ID {
			received = received.Add(o.ExternalContribution())
		} else {
			given = given.Add(o.UserContribution(uo.User.ID))
		}
	}
	return given.Sub(received)
}

// ContributedOrders заказы, в которые юзер внес взнос, но не размещал их сам.
func (uo *UserOrders) ContributedOrders() []Order {
	var orders []Order
	for i := range uo.Orders {
		o := &uo.Orders[i]
		if o.OrderedByID == uo.User.ID {
			continue
		}
		for _, c := range o.Contributions {
			if c.UserID == uo.User.ID {
				orders = append(orders, *o)
				break
			}
		}
	}
	return orders
}

// Unallocated остаток дневного лимита: allocation минус взносы юзера во все заказы
// на указанную дату. Может уйти в минус, это валидное состояние (перерасход),
// а не ошибка.
func (uo *UserOrders) Unallocated(date time.Time) currency.Amount {
	allocated := currency.Zero()
	for i := range uo.Orders {
		o := &uo.Orders[i]
		if !SameDate(o.ForDate, date) {
			continue
		}
		allocated = allocated.Add(o.UserContribution(uo.User.ID))
	}
	return uo.User.Allocation.Sub(allocated)
}

// ParticipatedOn вернет true если на указанную дату юзер уже участвует хоть в одном
// заказе, как владелец или как внесший взнос.
func (uo *UserOrders) ParticipatedOn(date time.Time) bool {
	for i := range uo.Orders {
		o := &uo.Orders[i]
		if !SameDate(o.ForDate, date) {
			continue
		}
		if o.OrderedByID == uo.User.ID {
			return true
		}
		for _, c := range o.Contributions {
			if c.UserID == uo.User.ID {
				return true
			}
		}
	}
	return false
}

// UnallocatedReportEntry строка отчета по нераспределенным деньгам организации.
type UnallocatedReportEntry struct {
	UserID      int64
	FirstName   string
	LastName    string
	Unallocated currency.Amount
	Karma       currency.Amount
}

// UnallocatedReport отчет по организации за дату: юзеры, отсортированные по остатку
// лимита (убывание) и карме (возрастание), плюс суммарный остаток по тому же
// отфильтрованному набору.
type UnallocatedReport struct {
	TotalUnallocated currency.Amount
	Entries          []UnallocatedReportEntry
}
