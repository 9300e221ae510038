package model

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"150.25", 15025, false},
		{"300", 30000, false},
		{"0.01", 1, false},
		{"0", 0, true},
		{"-5", 0, true},
		{"10.999", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseAmount(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "ParseAmount(%q)", tt.in)
			continue
		}
		assert.NoError(t, err, "ParseAmount(%q)", tt.in)
		assert.Equal(t, tt.want, got, "ParseAmount(%q)", tt.in)
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "150.25", FormatAmount(15025))
	assert.Equal(t, "0.01", FormatAmount(1))
	assert.Equal(t, "300.00", FormatAmount(30000))
}

func TestGenerateReference(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	ref := GenerateReference(now)
	assert.True(t, strings.HasPrefix(ref, "FCB20260314"), "reference %q", ref)
	assert.Len(t, ref, len("FCB20260314")+referenceDigits)

	// High-entropy tail: two consecutive references should differ.
	assert.NotEqual(t, ref, GenerateReference(now))
}

func TestGenerateAccountNumber(t *testing.T) {
	for i := 0; i < 100; i++ {
		n := GenerateAccountNumber()
		assert.True(t, IsValidAccountNumber(n), "number %q", n)
		assert.NotEqual(t, byte('0'), n[0], "number %q must not start with zero", n)
	}
}

func TestIsValidAccountNumber(t *testing.T) {
	assert.True(t, IsValidAccountNumber("1234567890"))
	assert.False(t, IsValidAccountNumber("123456789"))
	assert.False(t, IsValidAccountNumber("12345678901"))
	assert.False(t, IsValidAccountNumber("12345abc90"))
}

func TestGenerateUUIDWithSuffix(t *testing.T) {
	id := GenerateUUIDWithSuffix("trf")
	assert.True(t, strings.HasPrefix(id, "trf_"))
	assert.NotEqual(t, id, GenerateUUIDWithSuffix("trf"))
}

func TestDefaultDescriptions(t *testing.T) {
	assert.Equal(t, "Transfer to 9876543210 via IMPS", DebitDescription("9876543210", MethodIMPS))
	assert.Equal(t, "Received from 1234567890 via IMPS", CreditDescription("1234567890", MethodIMPS))
}

func TestValidCategoryAndMethod(t *testing.T) {
	assert.True(t, ValidCategory(CategorySavings))
	assert.False(t, ValidCategory("Current"))
	assert.True(t, ValidMethod(MethodRTGS))
	assert.False(t, ValidMethod("SWIFT"))
}
