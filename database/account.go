package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/firstchoicebank/corebank/internal/apierror"
	"github.com/firstchoicebank/corebank/model"
)

// CreateAccount inserts a new Account into the database.
// The account number must already be assigned by the caller; a clash with an
// existing number surfaces as a CONFLICT error so the caller can regenerate.
func (d Datasource) CreateAccount(account model.Account) (model.Account, error) {
	account.AccountID = model.GenerateUUIDWithSuffix("acc")
	account.OpenedAt = time.Now()

	_, err := d.Conn.Exec(`
		INSERT INTO accounts (account_id, owner_id, category, number, balance, version, opened_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, account.AccountID, account.OwnerID, account.Category, account.Number, account.Balance, account.Version, account.OpenedAt)

	if err != nil {
		pqErr, ok := err.(*pq.Error)
		if ok {
			switch pqErr.Code.Name() {
			case "unique_violation":
				return model.Account{}, apierror.NewAPIError(apierror.ErrConflict, fmt.Sprintf("Account number '%s' is already taken", account.Number), err)
			case "foreign_key_violation":
				return model.Account{}, apierror.NewAPIError(apierror.ErrInvalidInput, "Invalid owner ID", err)
			default:
				return model.Account{}, apierror.NewAPIError(apierror.ErrInternalServer, "Database error occurred", err)
			}
		}
		return model.Account{}, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to create account", err)
	}

	return account, nil
}

// GetAccountByID retrieves an account by its account ID.
func (d Datasource) GetAccountByID(id string) (*model.Account, error) {
	row := d.Conn.QueryRow(`
		SELECT account_id, owner_id, category, number, balance, version, opened_at
		FROM accounts
		WHERE account_id = $1
	`, id)

	account, err := scanAccountRow(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Account with ID '%s' not found", id), err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve account", err)
	}
	return account, nil
}

// GetAccountByNumber retrieves an account by its public account number.
func (d Datasource) GetAccountByNumber(number string) (*model.Account, error) {
	row := d.Conn.QueryRow(`
		SELECT account_id, owner_id, category, number, balance, version, opened_at
		FROM accounts
		WHERE number = $1
	`, number)

	account, err := scanAccountRow(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Account with number '%s' not found", number), err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve account", err)
	}
	return account, nil
}

// GetAccountsByOwner retrieves all accounts belonging to an owner,
// oldest first so statement groupings stay stable.
func (d Datasource) GetAccountsByOwner(ownerID string) ([]model.Account, error) {
	rows, err := d.Conn.Query(`
		SELECT account_id, owner_id, category, number, balance, version, opened_at
		FROM accounts
		WHERE owner_id = $1
		ORDER BY opened_at ASC, id ASC
	`, ownerID)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve accounts", err)
	}
	defer rows.Close()

	accounts := []model.Account{}
	for rows.Next() {
		account := model.Account{}
		err = rows.Scan(&account.AccountID, &account.OwnerID, &account.Category, &account.Number, &account.Balance, &account.Version, &account.OpenedAt)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan account data", err)
		}
		accounts = append(accounts, account)
	}
	if err = rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over accounts", err)
	}

	return accounts, nil
}

// ApplyBalanceDelta applies a signed balance change to one account as a single
// conditional UPDATE. The version check closes the check-then-act window and
// the balance guard keeps the result non-negative. Zero rows affected is
// resolved by re-reading the row: a moved version is a CONFLICT the caller may
// retry, a short balance is INSUFFICIENT_FUNDS.
func (d Datasource) ApplyBalanceDelta(ctx context.Context, accountID string, delta int64, expectedVersion int64) error {
	result, err := d.Conn.ExecContext(ctx, `
		UPDATE accounts
		SET balance = balance + $2, version = version + 1
		WHERE account_id = $1 AND version = $3 AND balance + $2 >= 0
	`, accountID, delta, expectedVersion)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to update balance", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return d.resolveBalanceUpdateFailure(ctx, d.Conn.QueryRowContext, accountID, delta, expectedVersion)
	}
	return nil
}

type rowQuerier func(ctx context.Context, query string, args ...interface{}) *sql.Row

// resolveBalanceUpdateFailure decides why a conditional balance UPDATE matched
// no rows by re-reading the account inside the same statement scope.
func (d Datasource) resolveBalanceUpdateFailure(ctx context.Context, queryRow rowQuerier, accountID string, delta int64, expectedVersion int64) error {
	var balance, version int64
	err := queryRow(ctx, `SELECT balance, version FROM accounts WHERE account_id = $1`, accountID).Scan(&balance, &version)
	if err != nil {
		if err == sql.ErrNoRows {
			return apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Account with ID '%s' not found", accountID), err)
		}
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to re-read account after balance update", err)
	}
	if version != expectedVersion {
		return apierror.NewAPIError(apierror.ErrConflict, fmt.Sprintf("Account '%s' was modified concurrently", accountID), nil)
	}
	if balance+delta < 0 {
		return apierror.NewAPIError(apierror.ErrInsufficientFunds, fmt.Sprintf("Account '%s' has insufficient funds", accountID), nil)
	}
	return apierror.NewAPIError(apierror.ErrInternalServer, fmt.Sprintf("Balance update for account '%s' matched no rows", accountID), nil)
}

func scanAccountRow(row *sql.Row) (*model.Account, error) {
	account := model.Account{}
	err := row.Scan(&account.AccountID, &account.OwnerID, &account.Category, &account.Number, &account.Balance, &account.Version, &account.OpenedAt)
	if err != nil {
		return nil, err
	}
	return &account, nil
}
