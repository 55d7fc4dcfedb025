package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// --- SanitizeStruct tests ---

func TestSanitizeStruct_TrimsWhitespace(t *testing.T) {
	req := RegisterRequest{
		Email:    "  alice@example.com  ",
		Name:     " Alice Doe ",
		Password: "  pass1234  ",
	}
	SanitizeStruct(&req)

	assert.Equal(t, "alice@example.com", req.Email)
	assert.Equal(t, "Alice Doe", req.Name)
	assert.Equal(t, "pass1234", req.Password)
}

func TestSanitizeStruct_EscapesHTML(t *testing.T) {
	req := RegisterRequest{
		Email:    "bob@example.com",
		Name:     "Bob <script>alert('x')</script>",
		Password: "password123",
	}
	SanitizeStruct(&req)

	assert.Contains(t, req.Name, "&lt;script&gt;")
	assert.NotContains(t, req.Name, "<script>")
}

func TestSanitizeStruct_HandlesPointerString(t *testing.T) {
	country := "  Germany  "
	req := RegisterRequest{
		Email:    "bob@example.com",
		Name:     "Bob",
		Password: "password123",
		Country:  &country,
	}
	SanitizeStruct(&req)

	assert.Equal(t, "Germany", *req.Country)
}

func TestSanitizeStruct_NilPointerIsNoOp(t *testing.T) {
	req := RegisterRequest{
		Email:    "carol@example.com",
		Name:     "Carol",
		Password: "password123",
		Country:  nil,
	}
	SanitizeStruct(&req)
	assert.Nil(t, req.Country)
}

func TestSanitizeStruct_NonPointerIsNoOp(t *testing.T) {
	s := "hello"
	SanitizeStruct(s) // should not panic
}

func TestSanitizeStruct_NestedBankDetails(t *testing.T) {
	req := WithdrawalRequest{
		Amount: " 1000 ",
		Method: " bank_transfer ",
		BankDetails: &BankDetailsRequest{
			AccountName: "  Alice Doe  ",
			BankName:    " First Bank <b>ltd</b> ",
		},
	}
	SanitizeStruct(&req)

	assert.Equal(t, "1000", req.Amount)
	assert.Equal(t, "bank_transfer", req.Method)
	assert.Equal(t, "Alice Doe", req.BankDetails.AccountName)
	assert.Equal(t, "First Bank &lt;b&gt;ltd&lt;/b&gt;", req.BankDetails.BankName)
}

// --- Custom validator tests ---

func TestAmountValidator_Valid(t *testing.T) {
	cases := []string{
		"1000",
		"0.01",
		"5500000",
		"-250", // sign checks belong to the endpoint
		"1234.5678",
	}
	for _, tc := range cases {
		assert.True(t, decimalStringOK(tc), "expected valid: %s", tc)
	}
}

func TestAmountValidator_Invalid(t *testing.T) {
	cases := []string{
		"",
		"abc",
		"10,50",
		"1e--3",
		"1000 EUR",
	}
	for _, tc := range cases {
		assert.False(t, decimalStringOK(tc), "expected invalid: %s", tc)
	}
}
