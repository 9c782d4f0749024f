// Package directory holds the read-only customer loan table built at startup.
package directory

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/ashureev/apex-collect/internal/domain"
)

// ErrNotFound is returned when no record matches a lookup.
var ErrNotFound = errors.New("customer not found")

// Column headers of the cleaned dataset.
const (
	ColName                  = "Random_Name"
	ColPhone                 = "Random_Phone_Number"
	ColCurrentLoanAmount     = "Current Loan Amount"
	ColTerm                  = "Term"
	ColCreditScore           = "Credit Score"
	ColAnnualIncome          = "Annual Income"
	ColYearsInCurrentJob     = "Years in current job"
	ColHomeOwnership         = "Home Ownership"
	ColPurpose               = "Purpose"
	ColMonthlyDebt           = "Monthly Debt"
	ColYearsCreditHistory    = "Years of Credit History"
	ColMonthsSinceDelinquent = "Months since last delinquent"
	ColOpenAccounts          = "Number of Open Accounts"
	ColCreditProblems        = "Number of Credit Problems"
	ColCurrentCreditBalance  = "Current Credit Balance"
	ColMaximumOpenCredit     = "Maximum Open Credit"
	ColBankruptcies          = "Bankruptcies"
	ColTaxLiens              = "Tax Liens"
)

// Directory is an immutable, in-memory table of customers keyed by row
// position. It is safe for concurrent readers because nothing mutates it
// after Parse returns.
type Directory struct {
	customers []domain.Customer
}

// Load reads and normalizes the dataset at path.
func Load(path string) (*Directory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Warn("failed to close dataset file", "path", path, "error", closeErr)
		}
	}()

	dir, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", path, err)
	}
	return dir, nil
}

// Parse builds a Directory from CSV content with a header row.
func Parse(r io.Reader) (*Directory, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("dataset is empty")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	if _, ok := index[ColName]; !ok {
		return nil, fmt.Errorf("dataset is missing required column %q", ColName)
	}

	dir := &Directory{}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(dir.customers)+1, err)
		}
		dir.customers = append(dir.customers, normalizeRow(row{index: index, fields: record}, len(dir.customers)))
	}

	return dir, nil
}

// Len returns the number of customers.
func (d *Directory) Len() int {
	return len(d.customers)
}

// Get returns the customer stored at the given row key.
func (d *Directory) Get(rowKey int) (domain.Customer, bool) {
	if rowKey < 0 || rowKey >= len(d.customers) {
		return domain.Customer{}, false
	}
	return d.customers[rowKey], true
}

// Lookup returns the first customer whose name equals name, ignoring case and
// surrounding whitespace. Partial or fuzzy matches are never returned.
func (d *Directory) Lookup(name string) (domain.Customer, error) {
	want := strings.ToLower(strings.TrimSpace(name))
	if want == "" {
		return domain.Customer{}, ErrNotFound
	}
	for _, c := range d.customers {
		if strings.ToLower(strings.TrimSpace(c.Name)) == want {
			return c, nil
		}
	}
	return domain.Customer{}, ErrNotFound
}
