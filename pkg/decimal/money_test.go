package decimal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	m := NewMoney(12.345)
	assert.Equal(t, "12.35", m.String()) // rounded for display

	m2, err := NewMoneyFromString("123.45")
	require.NoError(t, err)
	assert.Equal(t, "123.45", m2.String())

	_, err = NewMoneyFromString("not-a-number")
	assert.Error(t, err)
}

func TestRounding(t *testing.T) {
	cases := []struct{ in, out string }{
		{"2.344", "2.34"},
		{"2.345", "2.35"},
		{"2.355", "2.36"},
		{"-2.345", "-2.35"},
	}
	for _, c := range cases {
		m, err := NewMoneyFromString(c.in)
		require.NoError(t, err)
		assert.Equal(t, c.out, m.Round().String(), "round(%s)", c.in)
	}
}

func TestMonthly(t *testing.T) {
	assert.Equal(t, "100.00", NewMoney(1200).Monthly().String())
	assert.Equal(t, "2083.33", NewMoney(25000).Monthly().String())
}

func TestArithmetic(t *testing.T) {
	a := NewMoney(100.10)
	b := NewMoney(0.20)
	assert.Equal(t, "100.30", a.Add(b).String())
	assert.Equal(t, "99.90", a.Sub(b).String())
	assert.True(t, Zero().IsZero())
}

func TestFormat(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{12.5, "$12.50"},
		{999.999, "$1,000.00"},
		{1234567.891, "$1,234,567.89"},
		{100000, "$100,000.00"},
		{-74000, "-$74,000.00"},
		{-0.001, "$0.00"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, NewMoney(c.in).Format(), "Format(%v)", c.in)
	}
}

func TestFormatRate(t *testing.T) {
	assert.Equal(t, "7.00%", FormatRate(0.07))
	assert.Equal(t, "2.50%", FormatRate(0.025))
	assert.Equal(t, "-1.00%", FormatRate(-0.01))
}
