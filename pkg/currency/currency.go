package currency

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Scale количество знаков после запятой для денежных сумм.
const Scale = 2

// Amount денежная сумма. Внутри хранит точное десятичное значение без округления:
// квантование до Scale знаков происходит только на границах (сериализация, запись в хранилище),
// чтобы ошибка округления не накапливалась при суммировании.
type Amount struct {
	d decimal.Decimal
}

// Zero нулевая сумма ("0.00").
func Zero() Amount {
	return Amount{}
}

func New(d decimal.Decimal) Amount {
	return Amount{d: d}
}

// FromString парсит сумму из десятичной строки вида "13.30" или "-4.90".
func FromString(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("parsing currency amount %q: %s", s, err.Error())
	}
	return Amount{d: d}, nil
}

func MustFromString(s string) Amount {
	a, err := FromString(s)
	if err != nil {
		panic(err)
	}
	return a
}

// FromCents восстанавливает сумму из целочисленного представления в минимальных единицах.
// Используется для хранилищ без нативного decimal типа: там сумма лежит как целое число,
// умноженное на 10^Scale.
func FromCents(c int64) Amount {
	return Amount{d: decimal.New(c, -Scale)}
}

// Cents возвращает сумму в минимальных единицах, округляя до ближайшего целого.
// Обратная операция к FromCents.
func (a Amount) Cents() int64 {
	return a.d.Shift(Scale).Round(0).IntPart()
}

func (a Amount) Add(b Amount) Amount {
	return Amount{d: a.d.Add(b.d)}
}

func (a Amount) Sub(b Amount) Amount {
	return Amount{d: a.d.Sub(b.d)}
}

func (a Amount) Neg() Amount {
	return Amount{d: a.d.Neg()}
}

// Cmp сравнивает суммы: -1 если a < b, 0 если равны, 1 если a > b.
func (a Amount) Cmp(b Amount) int {
	return a.d.Cmp(b.d)
}

// Equal сравнивает значения, а не представления: "5.0" и "5.00" равны.
func (a Amount) Equal(b Amount) bool {
	return a.d.Equal(b.d)
}

func (a Amount) IsZero() bool {
	return a.d.IsZero()
}

func (a Amount) IsNegative() bool {
	return a.d.IsNegative()
}

// Decimal возвращает точное значение для передачи в хранилище с нативной поддержкой decimal.
func (a Amount) Decimal() decimal.Decimal {
	return a.d
}

// String форматирует сумму ровно с двумя знаками после запятой. Граница представления -
// единственное место где происходит квантование.
func (a Amount) String() string {
	return a.d.StringFixed(Scale)
}

// MarshalJSON сериализует сумму как десятичную строку ("13.30"). Числа с плавающей точкой
// на проводе не используются, иначе теряется точность.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}

// UnmarshalJSON принимает как строку "13.30", так и голый литерал 13.30.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	if s == "null" || s == "" {
		return nil
	}
	parsed, err := FromString(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// FromNullDecimal конвертирует nullable значение из хранилища. NULL проходит насквозь
// и не квантуется.
func FromNullDecimal(nd decimal.NullDecimal) *Amount {
	if !nd.Valid {
		return nil
	}
	a := New(nd.Decimal)
	return &a
}

// ToNullDecimal обратная конвертация для записи nullable колонок.
func ToNullDecimal(a *Amount) decimal.NullDecimal {
	if a == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: a.d, Valid: true}
}
