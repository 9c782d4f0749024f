// Package prompt renders customer records and the fixed agent instructions
// into the text sent to the language model.
package prompt

import (
	"strconv"
	"strings"

	"github.com/ashureev/apex-collect/internal/domain"
	"github.com/dustin/go-humanize"
)

// UnknownScore is rendered when the dataset carried no usable credit score.
const UnknownScore = "Unknown Score"

const (
	fileHeader = "--- START Customer Loan File Details for Current Call ---"
	fileFooter = "--- END Customer Loan File Details for Current Call ---"
)

// Currency renders an amount as $1,234.56, rounding the exact binary value
// to cents.
func Currency(amount float64) string {
	fixed := strconv.FormatFloat(amount, 'f', 2, 64)
	whole, cents, _ := strings.Cut(fixed, ".")
	sign := ""
	if strings.HasPrefix(whole, "-") {
		sign, whole = "-", whole[1:]
	}
	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return "$" + fixed
	}
	return "$" + sign + humanize.Comma(n) + "." + cents
}

func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func text(v string) string {
	if strings.TrimSpace(v) == "" {
		return domain.UnknownText
	}
	return v
}

// FormatCustomer renders one customer as the fixed-layout loan file block.
// Output depends only on the record, so equal records yield identical text.
func FormatCustomer(c domain.Customer) string {
	score := UnknownScore
	if c.HasCreditScore() {
		score = number(*c.CreditScore)
	}

	lines := []string{
		"",
		fileHeader,
		"Customer Name: " + text(c.Name),
		"Overdue Loan Amount: " + Currency(c.CurrentLoanAmount),
		"Original Loan Term: " + text(c.Term),
		"Stated Loan Purpose: " + text(c.Purpose),
		"Home Ownership: " + text(c.HomeOwnership),
		"Monthly Debt: " + Currency(c.MonthlyDebt),
		"Annual Income: " + Currency(c.AnnualIncome),
		"Years in Current Job: " + text(c.YearsInCurrentJob),
		"Credit Score: " + score,
		"Years of Credit History: " + number(c.YearsCreditHistory) + " years",
		"Months Since Last Delinquent: " + number(c.MonthsSinceDelinquent),
		"Number of Credit Problems: " + strconv.Itoa(c.CreditProblems),
		"Number of Bankruptcies: " + strconv.Itoa(c.Bankruptcies),
		"Number of Tax Liens: " + strconv.Itoa(c.TaxLiens),
		"Current Credit Balance: " + Currency(c.CurrentCreditBalance),
		"Maximum Open Credit Available: " + Currency(c.MaximumOpenCredit),
		fileFooter,
		"",
	}
	return strings.Join(lines, "\n")
}

// Preamble is the synthetic first user turn: the instructions followed by the
// freshly formatted customer file. It is rebuilt on every turn and never stored.
func Preamble(c domain.Customer) string {
	return SystemInstruction + "\n\n" + FormatCustomer(c)
}
