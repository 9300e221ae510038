package model

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GenerateUUIDWithSuffix generates a UUID with a given module name as a prefix.
// This is useful for creating unique identifiers with context-specific prefixes,
// e.g. "acc_...", "txn_...", "trf_...".
func GenerateUUIDWithSuffix(module string) string {
	id := uuid.New()
	return fmt.Sprintf("%s_%s", module, id.String())
}

// referenceDigits is the length of the random numeric tail of a transfer reference.
const referenceDigits = 10

// GenerateReference produces a human-presentable transfer reference of the form
// FCB<yyyymmdd><10 random digits>. References are checked for uniqueness at the
// storage layer and regenerated on collision, so this function only has to make
// collisions rare, not impossible.
func GenerateReference(now time.Time) string {
	return fmt.Sprintf("FCB%s%s", now.UTC().Format("20060102"), randomDigits(referenceDigits))
}

// AccountNumberLength is the fixed length of customer-facing account numbers.
const AccountNumberLength = 10

// GenerateAccountNumber produces a fixed-length numeric account number with a
// non-zero leading digit. Uniqueness is enforced by the storage layer.
func GenerateAccountNumber() string {
	first, _ := rand.Int(rand.Reader, big.NewInt(9))
	return fmt.Sprintf("%d%s", first.Int64()+1, randomDigits(AccountNumberLength-1))
}

func randomDigits(n int) string {
	max := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
	v, _ := rand.Int(rand.Reader, max)
	return fmt.Sprintf("%0*d", n, v)
}

// IsValidAccountNumber reports whether s is a fixed-length numeric account number.
func IsValidAccountNumber(s string) bool {
	if len(s) != AccountNumberLength {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ParseAmount converts a decimal currency string (e.g. "150.25") to minor
// units (paise). It rejects zero, negative, non-finite and sub-paise values.
func ParseAmount(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	if !d.IsPositive() {
		return 0, fmt.Errorf("amount must be positive, got %q", s)
	}
	minor := d.Mul(decimal.NewFromInt(100))
	if !minor.IsInteger() {
		return 0, fmt.Errorf("amount %q has more than two decimal places", s)
	}
	if !minor.BigInt().IsInt64() {
		return 0, fmt.Errorf("amount %q is out of range", s)
	}
	return minor.IntPart(), nil
}

// FormatAmount renders minor units as a two-decimal currency string.
func FormatAmount(minor int64) string {
	return decimal.New(minor, -2).StringFixed(2)
}
