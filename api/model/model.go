package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/firstchoicebank/corebank"
	"github.com/firstchoicebank/corebank/model"
)

// CreateTransfer is the transfer request DTO. The amount arrives as a decimal
// string (e.g. "1500.50") and is converted to minor units at the boundary.
// OwnerID is injected by the authentication layer, not read from the body.
type CreateTransfer struct {
	OwnerID         string `json:"-"`
	FromAccountID   string `json:"from_account_id"`
	ToAccountNumber string `json:"to_account_number"`
	Amount          string `json:"amount"`
	Method          string `json:"method"`
	RoutingCode     string `json:"routing_code"`
	Description     string `json:"description"`
	IdempotencyKey  string `json:"idempotency_key"`
}

func (t *CreateTransfer) ValidateCreateTransfer() error {
	return validation.ValidateStruct(t,
		validation.Field(&t.FromAccountID, validation.Required),
		validation.Field(&t.ToAccountNumber, validation.Required),
		validation.Field(&t.Amount, validation.Required),
		validation.Field(&t.Method, validation.Required, validation.In(model.MethodNEFT, model.MethodRTGS, model.MethodIMPS)),
		validation.Field(&t.RoutingCode, validation.Required),
	)
}

// ToTransferRequest converts the DTO into the engine contract.
func (t *CreateTransfer) ToTransferRequest() (*corebank.TransferRequest, error) {
	amount, err := model.ParseAmount(t.Amount)
	if err != nil {
		return nil, err
	}
	return &corebank.TransferRequest{
		OwnerID:         t.OwnerID,
		FromAccountID:   t.FromAccountID,
		ToAccountNumber: t.ToAccountNumber,
		Amount:          amount,
		Method:          t.Method,
		RoutingCode:     t.RoutingCode,
		Description:     t.Description,
		IdempotencyKey:  t.IdempotencyKey,
	}, nil
}

// CreateAccount is the account-opening DTO.
type CreateAccount struct {
	OwnerID  string `json:"-"`
	Category string `json:"category"`
}

func (a *CreateAccount) ValidateCreateAccount() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.Category, validation.Required, validation.In(model.CategoryChecking, model.CategorySavings, model.CategoryFixedDeposit)),
	)
}

// Signup is the user registration DTO.
type Signup struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Signup) ValidateSignup() error {
	return validation.ValidateStruct(s,
		validation.Field(&s.FullName, validation.Required),
		validation.Field(&s.Email, validation.Required, is.Email),
		validation.Field(&s.Password, validation.Required, validation.Length(8, 0)),
	)
}

// Login is the credential-check DTO.
type Login struct {
	AccountNumber string `json:"account_number"`
	Password      string `json:"password"`
}

func (l *Login) ValidateLogin() error {
	return validation.ValidateStruct(l,
		validation.Field(&l.AccountNumber, validation.Required, validation.Length(model.AccountNumberLength, model.AccountNumberLength), is.Digit),
		validation.Field(&l.Password, validation.Required),
	)
}
