package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// AccountType classifies where money is held.
type AccountType string

const (
	BankAccount       AccountType = "bank"
	CashAccount       AccountType = "cash"
	CreditAccount     AccountType = "credit"
	InvestmentAccount AccountType = "investment"
	OtherAccount      AccountType = "other"
)

// IsValid reports whether t is one of the known account types.
func (t AccountType) IsValid() bool {
	switch t {
	case BankAccount, CashAccount, CreditAccount, InvestmentAccount, OtherAccount:
		return true
	}
	return false
}

// Account is a place money lives. ClosingBalance is the running balance, moved by
// every transaction booked against the account.
type Account struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	Type           AccountType     `json:"type"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
	Timestamps
}

// AccountPatch lists the fields of an account that may be changed after creation.
// The running balance is only moved through transactions.
type AccountPatch struct {
	Name           *string
	Type           *AccountType
	OpeningBalance *decimal.Decimal
}

// Validate checks the account's own invariants.
func (a Account) Validate() error {
	var problems []string
	if strings.TrimSpace(a.Name) == "" {
		problems = append(problems, "name is required")
	}
	if !a.Type.IsValid() {
		problems = append(problems, fmt.Sprintf("unknown account type %q", a.Type))
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid account: %s", strings.Join(problems, "; "))
	}
	return nil
}
