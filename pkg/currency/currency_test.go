package currency

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestString_AlwaysTwoPlaces(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"13.3", "13.30"},
		{"13.30", "13.30"},
		{"-4.9", "-4.90"},
		{"0", "0.00"},
		{"5", "5.00"},
		{"-0.005", "-0.01"},
	}
	for _, c := range cases {
		a, err := FromString(c.in)
		require.NoError(t, err)
		assert.Equal(t, c.want, a.String(), "in=%s", c.in)
	}
}

func TestFromString_Invalid(t *testing.T) {
	_, err := FromString("not a number")
	assert.Error(t, err)
}

func TestCents_RoundTrip(t *testing.T) {
	cases := []struct {
		in    string
		cents int64
	}{
		{"13.30", 1330},
		{"-4.90", -490},
		{"0.00", 0},
		{"0.01", 1},
		{"-0.01", -1},
		{"12345.67", 1234567},
	}
	for _, c := range cases {
		a := MustFromString(c.in)
		assert.Equal(t, c.cents, a.Cents(), "in=%s", c.in)
		assert.True(t, FromCents(c.cents).Equal(a), "in=%s", c.in)
		assert.Equal(t, c.in, FromCents(c.cents).String(), "in=%s", c.in)
	}
}

func TestCents_RoundsToNearest(t *testing.T) {
	// значение с тремя знаками округляется лишь на границе хранения
	a := New(decimal.RequireFromString("1.005"))
	assert.Equal(t, int64(101), a.Cents())
}

func TestArithmetic_NoIntermediateRounding(t *testing.T) {
	// 0.1 + 0.1 + 0.1 ровно 0.3, без битов двоичной арифметики
	sum := Zero()
	tenth := MustFromString("0.10")
	for i := 0; i < 3; i++ {
		sum = sum.Add(tenth)
	}
	assert.True(t, sum.Equal(MustFromString("0.30")))
	assert.Equal(t, "0.30", sum.String())
}

func TestSubAndNeg(t *testing.T) {
	a := MustFromString("10.00")
	b := MustFromString("13.30")
	assert.Equal(t, "-3.30", a.Sub(b).String())
	assert.Equal(t, "3.30", a.Sub(b).Neg().String())
	assert.True(t, a.Sub(b).IsNegative())
}

func TestMarshalJSON_DecimalString(t *testing.T) {
	b, err := json.Marshal(MustFromString("13.3"))
	require.NoError(t, err)
	assert.Equal(t, `"13.30"`, string(b))

	b, err = json.Marshal(Zero())
	require.NoError(t, err)
	assert.Equal(t, `"0.00"`, string(b))
}

func TestUnmarshalJSON(t *testing.T) {
	var a Amount
	require.NoError(t, json.Unmarshal([]byte(`"8.50"`), &a))
	assert.Equal(t, "8.50", a.String())

	// голый числовой литерал тоже принимается
	require.NoError(t, json.Unmarshal([]byte(`2.75`), &a))
	assert.Equal(t, "2.75", a.String())

	var b Amount
	require.Error(t, json.Unmarshal([]byte(`"abc"`), &b))
}

func TestNullPassthrough(t *testing.T) {
	assert.Nil(t, FromNullDecimal(decimal.NullDecimal{}))
	assert.False(t, ToNullDecimal(nil).Valid)

	a := MustFromString("25.00")
	nd := ToNullDecimal(&a)
	require.True(t, nd.Valid)
	restored := FromNullDecimal(nd)
	require.NotNil(t, restored)
	assert.True(t, restored.Equal(a))
}
