package directory

import (
	"math"
	"strconv"
	"strings"

	"github.com/ashureev/apex-collect/internal/domain"
)

const (
	minCreditScore = 300.0
	maxCreditScore = 850.0
)

// missingTokens are the cell values a dataframe reader treats as NaN.
var missingTokens = map[string]struct{}{
	"":     {},
	"na":   {},
	"n/a":  {},
	"nan":  {},
	"null": {},
	"none": {},
	"<na>": {},
}

type row struct {
	index  map[string]int
	fields []string
}

func (r row) raw(col string) (string, bool) {
	i, ok := r.index[col]
	if !ok || i >= len(r.fields) {
		return "", false
	}
	v := strings.TrimSpace(r.fields[i])
	if _, missing := missingTokens[strings.ToLower(v)]; missing {
		return "", false
	}
	return v, true
}

// text returns the cell, or "Unknown" when it is missing.
func (r row) text(col string) string {
	if v, ok := r.raw(col); ok {
		return v
	}
	return domain.UnknownText
}

// number coerces the cell to a float, defaulting to 0 when missing or unparseable.
func (r row) number(col string) float64 {
	v, ok := parseNumber(r, col)
	if !ok {
		return 0
	}
	return v
}

// currency is number clamped to be non-negative.
func (r row) currency(col string) float64 {
	return math.Max(0, r.number(col))
}

func (r row) count(col string) int {
	return int(math.Max(0, math.Trunc(r.number(col))))
}

func parseNumber(r row, col string) (float64, bool) {
	v, ok := r.raw(col)
	if !ok {
		return 0, false
	}
	v = strings.NewReplacer(",", "", "$", "").Replace(v)
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// NormalizeCreditScore maps a raw score onto the natural [300, 850] scale.
// Scores recorded on the x10 scale (strictly between 1000 and 10000) are
// divided by 10 before clipping.
func NormalizeCreditScore(raw float64) float64 {
	if raw > 1000 && raw < 10000 {
		raw /= 10
	}
	return math.Min(maxCreditScore, math.Max(minCreditScore, raw))
}

func normalizeRow(r row, rowKey int) domain.Customer {
	c := domain.Customer{
		Row:                   rowKey,
		Name:                  r.text(ColName),
		PhoneNumber:           r.text(ColPhone),
		CurrentLoanAmount:     r.currency(ColCurrentLoanAmount),
		Term:                  r.text(ColTerm),
		AnnualIncome:          r.currency(ColAnnualIncome),
		MonthlyDebt:           r.currency(ColMonthlyDebt),
		YearsInCurrentJob:     r.text(ColYearsInCurrentJob),
		YearsCreditHistory:    math.Max(0, r.number(ColYearsCreditHistory)),
		MonthsSinceDelinquent: math.Max(0, r.number(ColMonthsSinceDelinquent)),
		OpenAccounts:          r.count(ColOpenAccounts),
		CreditProblems:        r.count(ColCreditProblems),
		Bankruptcies:          r.count(ColBankruptcies),
		TaxLiens:              r.count(ColTaxLiens),
		CurrentCreditBalance:  r.currency(ColCurrentCreditBalance),
		MaximumOpenCredit:     r.currency(ColMaximumOpenCredit),
		HomeOwnership:         r.text(ColHomeOwnership),
		Purpose:               r.text(ColPurpose),
	}

	if score, ok := parseNumber(r, ColCreditScore); ok {
		normalized := NormalizeCreditScore(score)
		c.CreditScore = &normalized
	}

	return c
}
