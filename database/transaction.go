package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/firstchoicebank/corebank/internal/apierror"
	"github.com/firstchoicebank/corebank/model"
)

// GetTransaction retrieves a single transaction log row by its ID.
func (d Datasource) GetTransaction(ctx context.Context, id string) (*model.Transaction, error) {
	row := d.Conn.QueryRowContext(ctx, `
		SELECT transaction_id, account_id, direction, amount, status, description, created_at
		FROM transactions
		WHERE transaction_id = $1
	`, id)

	txn := model.Transaction{}
	err := row.Scan(&txn.TransactionID, &txn.AccountID, &txn.Direction, &txn.Amount, &txn.Status, &txn.Description, &txn.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Transaction with ID '%s' not found", id), err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve transaction", err)
	}
	return &txn, nil
}

// GetTransactionsByOwner retrieves transactions across every account the owner
// holds, newest first.
func (d Datasource) GetTransactionsByOwner(ctx context.Context, ownerID string, limit, offset int) ([]model.Transaction, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT t.transaction_id, t.account_id, t.direction, t.amount, t.status, t.description, t.created_at
		FROM transactions t
		JOIN accounts a ON a.account_id = t.account_id
		WHERE a.owner_id = $1
		ORDER BY t.created_at DESC, t.id DESC
		LIMIT $2 OFFSET $3
	`, ownerID, limit, offset)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve transactions", err)
	}
	defer rows.Close()

	return scanTransactionRows(rows)
}

// GetTransactionsByAccount retrieves the statement for one account, newest first.
func (d Datasource) GetTransactionsByAccount(ctx context.Context, accountID string, limit, offset int) ([]model.Transaction, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT transaction_id, account_id, direction, amount, status, description, created_at
		FROM transactions
		WHERE account_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, accountID, limit, offset)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve transactions", err)
	}
	defer rows.Close()

	return scanTransactionRows(rows)
}

func scanTransactionRows(rows *sql.Rows) ([]model.Transaction, error) {
	transactions := []model.Transaction{}
	for rows.Next() {
		txn := model.Transaction{}
		err := rows.Scan(&txn.TransactionID, &txn.AccountID, &txn.Direction, &txn.Amount, &txn.Status, &txn.Description, &txn.CreatedAt)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan transaction data", err)
		}
		transactions = append(transactions, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over transactions", err)
	}
	return transactions, nil
}
