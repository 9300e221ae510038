package corebank

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/firstchoicebank/corebank/internal/apierror"
	"github.com/firstchoicebank/corebank/model"
)

// accountNumberAttempts bounds regeneration when a generated account number
// collides with an existing one.
const accountNumberAttempts = 5

// CreateAccount opens a new account for an owner. The account number is
// generated and regenerated transparently on collision.
func (c *Corebank) CreateAccount(ctx context.Context, ownerID, category string) (*model.Account, error) {
	_, span := tracer.Start(ctx, "Creating account")
	defer span.End()

	if ownerID == "" {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, "Owner ID is required", nil)
	}
	if !model.ValidCategory(category) {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, "Unknown account category", nil)
	}

	if _, err := c.datasource.GetUserByID(ownerID); err != nil {
		return nil, err
	}

	var created model.Account
	var err error
	for attempt := 0; attempt < accountNumberAttempts; attempt++ {
		account := model.Account{
			OwnerID:  ownerID,
			Category: category,
			Number:   model.GenerateAccountNumber(),
		}
		created, err = c.datasource.CreateAccount(account)
		if err == nil {
			return &created, nil
		}
		if !apierror.Is(err, apierror.ErrConflict) {
			return nil, err
		}
		logrus.Infof("account number collision, regenerating (attempt %d)", attempt+1)
	}
	return nil, logAndRecordError(span, "could not allocate a unique account number: ", err)
}

// GetAccount retrieves a single account by its ID, scoped to its owner.
func (c *Corebank) GetAccount(ctx context.Context, ownerID, accountID string) (*model.Account, error) {
	account, err := c.datasource.GetAccountByID(accountID)
	if err != nil {
		return nil, err
	}
	if account.OwnerID != ownerID {
		return nil, apierror.NewAPIError(apierror.ErrNotFound, "Account not found", nil)
	}
	return account, nil
}

// GetUserAccounts lists every account the owner holds.
func (c *Corebank) GetUserAccounts(ctx context.Context, ownerID string) ([]model.Account, error) {
	return c.datasource.GetAccountsByOwner(ownerID)
}

// GroupUserAccountsByCategory lists the owner's accounts bucketed by category,
// the shape the account overview renders from.
func (c *Corebank) GroupUserAccountsByCategory(ctx context.Context, ownerID string) (map[string][]model.Account, error) {
	accounts, err := c.datasource.GetAccountsByOwner(ownerID)
	if err != nil {
		return nil, err
	}
	grouped := make(map[string][]model.Account)
	for _, account := range accounts {
		grouped[account.Category] = append(grouped[account.Category], account)
	}
	return grouped, nil
}
