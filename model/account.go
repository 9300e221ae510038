package model

import (
	"time"
)

// Account categories. Stored verbatim; the engine attaches no behavioural
// difference beyond grouping.
const (
	CategoryChecking     = "Checking"
	CategorySavings      = "Savings"
	CategoryFixedDeposit = "FixedDeposit"
)

// Account is a customer account holding a balance in minor currency units.
// Balance is never negative after a committed operation; Version is the
// optimistic-concurrency token checked and incremented on every balance
// mutation.
type Account struct {
	ID        int64     `json:"-"`
	AccountID string    `json:"account_id"`
	OwnerID   string    `json:"owner_id"`
	Category  string    `json:"category"`
	Number    string    `json:"number"`
	Balance   int64     `json:"balance"`
	Version   int64     `json:"-"`
	OpenedAt  time.Time `json:"opened_at"`
}

// ValidCategory reports whether c is one of the supported account categories.
func ValidCategory(c string) bool {
	switch c {
	case CategoryChecking, CategorySavings, CategoryFixedDeposit:
		return true
	}
	return false
}

// CanDebit reports whether the account can cover a debit of amount minor units.
func (a *Account) CanDebit(amount int64) bool {
	return a.Balance >= amount
}
