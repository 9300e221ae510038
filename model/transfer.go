package model

import "time"

// Settlement methods. Opaque tiers stored for audit; the engine applies no
// behavioural difference between them.
const (
	MethodNEFT = "NEFT"
	MethodRTGS = "RTGS"
	MethodIMPS = "IMPS"
)

// Transfer is the auditable unit correlating the two Transaction legs of one
// funds movement. Never mutated once Completed or Failed.
type Transfer struct {
	ID                     int64     `json:"-"`
	TransferID             string    `json:"id"`
	SenderAccountID        string    `json:"sender_account_id"`
	RecipientAccountNumber string    `json:"recipient_account_number"`
	RoutingCode            string    `json:"routing_code"`
	Amount                 int64     `json:"amount"`
	Method                 string    `json:"method"`
	Status                 string    `json:"status"`
	Reference              string    `json:"reference"`
	IdempotencyKey         string    `json:"-"`
	CreatedAt              time.Time `json:"created_at"`
}

// ValidMethod reports whether m is a supported settlement method.
func ValidMethod(m string) bool {
	switch m {
	case MethodNEFT, MethodRTGS, MethodIMPS:
		return true
	}
	return false
}

// TransferReceipt is what the engine hands back to the caller on success.
// Accounts are identified by number, not internal id, so a sender never
// learns another user's internal identifiers.
type TransferReceipt struct {
	Reference string `json:"reference"`
	From      string `json:"from"`
	To        string `json:"to"`
	Amount    int64  `json:"amount"`
	Method    string `json:"method"`
}
