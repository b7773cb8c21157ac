package budget

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var half = decimal.New(5, -1)

// FundingSplit allocates an amount between the provincial and city funds.
// The remainder is the applicant's self fund and is not derived here.
type FundingSplit struct {
	ProvincialRatio decimal.Decimal
	CityRatio       decimal.Decimal
}

// DefaultFundingSplit is the conventional 30% provincial / 70% city split.
var DefaultFundingSplit = FundingSplit{
	ProvincialRatio: decimal.New(3, -1),
	CityRatio:       decimal.New(7, -1),
}

// NewFundingSplit builds a split from configured ratios.
func NewFundingSplit(provincial, city float64) (FundingSplit, error) {
	p := decimal.NewFromFloat(provincial)
	c := decimal.NewFromFloat(city)
	one := decimal.NewFromInt(1)
	if p.IsNegative() || c.IsNegative() || p.Add(c).GreaterThan(one) {
		return FundingSplit{}, fmt.Errorf("%w: provincial=%s city=%s", ErrInvalidRatio, p, c)
	}
	return FundingSplit{ProvincialRatio: p, CityRatio: c}, nil
}

// Split returns the rounded provincial and city shares of amount.
func (s FundingSplit) Split(amount int64) (provincial, city int64) {
	a := decimal.NewFromInt(amount)
	return roundHalfUp(a.Mul(s.ProvincialRatio)), roundHalfUp(a.Mul(s.CityRatio))
}

// roundHalfUp rounds to the nearest integer with ties toward positive
// infinity: 2.5 -> 3, -2.5 -> -2.
func roundHalfUp(d decimal.Decimal) int64 {
	return d.Add(half).Floor().IntPart()
}
