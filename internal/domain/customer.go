// Package domain contains core domain types for the loan-collection call simulator.
package domain

// UnknownText is the normalized value of a missing text attribute.
const UnknownText = "Unknown"

// Customer is one normalized row of the customer loan dataset.
type Customer struct {
	Row  int    `json:"row"`
	Name string `json:"name"`

	CurrentLoanAmount     float64  `json:"current_loan_amount"`
	Term                  string   `json:"term"`
	AnnualIncome          float64  `json:"annual_income"`
	MonthlyDebt           float64  `json:"monthly_debt"`
	YearsInCurrentJob     string   `json:"years_in_current_job"`
	CreditScore           *float64 `json:"credit_score,omitempty"` // nil when unknown
	YearsCreditHistory    float64  `json:"years_of_credit_history"`
	MonthsSinceDelinquent float64  `json:"months_since_last_delinquent"`
	OpenAccounts          int      `json:"open_accounts"`
	CreditProblems        int      `json:"credit_problems"`
	Bankruptcies          int      `json:"bankruptcies"`
	TaxLiens              int      `json:"tax_liens"`
	CurrentCreditBalance  float64  `json:"current_credit_balance"`
	MaximumOpenCredit     float64  `json:"maximum_open_credit"`
	HomeOwnership         string   `json:"home_ownership"`
	Purpose               string   `json:"purpose"`
	PhoneNumber           string   `json:"phone_number"`
}

// HasCreditScore reports whether the dataset carried a usable credit score.
func (c *Customer) HasCreditScore() bool {
	return c.CreditScore != nil
}
