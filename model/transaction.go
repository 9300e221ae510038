package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// Transaction directions.
const (
	DirectionDebit  = "Debit"
	DirectionCredit = "Credit"
)

// Transaction statuses.
const (
	StatusPending   = "Pending"
	StatusCompleted = "Completed"
	StatusFailed    = "Failed"
)

// Transaction is one leg of a completed transfer, owned by exactly one
// account. Ledger rows are append-only and immutable once Completed.
type Transaction struct {
	ID            int64     `json:"-"`
	TransactionID string    `json:"id"`
	AccountID     string    `json:"account_id"`
	Direction     string    `json:"direction"`
	Amount        int64     `json:"amount"`
	Status        string    `json:"status"`
	Description   string    `json:"description"`
	CreatedAt     time.Time `json:"created_at"`
}

func (t *Transaction) ToJSON() ([]byte, error) {
	return json.Marshal(t)
}

// DebitDescription is the default sender-leg description when the caller
// supplies none.
func DebitDescription(recipientNumber, method string) string {
	return fmt.Sprintf("Transfer to %s via %s", recipientNumber, method)
}

// CreditDescription is the default recipient-leg description when the caller
// supplies none.
func CreditDescription(senderNumber, method string) string {
	return fmt.Sprintf("Received from %s via %s", senderNumber, method)
}
