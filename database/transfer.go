package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"

	"github.com/firstchoicebank/corebank/internal/apierror"
	"github.com/firstchoicebank/corebank/model"
)

// ErrDuplicateReference and ErrDuplicateIdempotencyKey report which unique
// constraint rejected a transfer insert, so the caller can either regenerate
// the reference or replay the original receipt.
var (
	ErrDuplicateReference      = fmt.Errorf("transfer reference already exists")
	ErrDuplicateIdempotencyKey = fmt.Errorf("transfer idempotency key already exists")
)

// CommitTransfer persists one funds transfer as a single database transaction:
// the sender debit and recipient credit (both guarded by a version check and a
// non-negative balance condition), the two transaction log rows, and the
// transfer row itself. Either every row lands or none do.
//
// On success the in-memory sender and recipient are advanced to the committed
// balance and version.
func (d Datasource) CommitTransfer(ctx context.Context, trf *model.Transfer, debit, credit *model.Transaction, sender, recipient *model.Account) error {
	ctx, span := otel.Tracer("corebank.database").Start(ctx, "Committing transfer to db")
	defer span.End()

	tx, err := d.Conn.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelDefault})
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to begin transaction", err)
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	if err := applyBalanceDeltaTx(ctx, d, tx, sender.AccountID, -trf.Amount, sender.Version); err != nil {
		return err
	}
	if err := applyBalanceDeltaTx(ctx, d, tx, recipient.AccountID, trf.Amount, recipient.Version); err != nil {
		return err
	}

	if err := insertTransaction(ctx, tx, debit); err != nil {
		return err
	}
	if err := insertTransaction(ctx, tx, credit); err != nil {
		return err
	}
	if err := insertTransfer(ctx, tx, trf); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to commit transaction", err)
	}

	sender.Balance -= trf.Amount
	sender.Version++
	recipient.Balance += trf.Amount
	recipient.Version++
	return nil
}

// applyBalanceDeltaTx is ApplyBalanceDelta scoped to an open transaction.
func applyBalanceDeltaTx(ctx context.Context, d Datasource, tx *sql.Tx, accountID string, delta int64, expectedVersion int64) error {
	result, err := tx.ExecContext(ctx, `
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
		return d.resolveBalanceUpdateFailure(ctx, tx.QueryRowContext, accountID, delta, expectedVersion)
	}
	return nil
}

func insertTransaction(ctx context.Context, tx *sql.Tx, txn *model.Transaction) error {
	txn.TransactionID = model.GenerateUUIDWithSuffix("txn")
	txn.CreatedAt = time.Now()

	_, err := tx.ExecContext(ctx, `
		INSERT INTO transactions (transaction_id, account_id, direction, amount, status, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, txn.TransactionID, txn.AccountID, txn.Direction, txn.Amount, txn.Status, txn.Description, txn.CreatedAt)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to record transaction", err)
	}
	return nil
}

func insertTransfer(ctx context.Context, tx *sql.Tx, trf *model.Transfer) error {
	trf.TransferID = model.GenerateUUIDWithSuffix("trf")
	trf.CreatedAt = time.Now()

	idempotencyKey := sql.NullString{String: trf.IdempotencyKey, Valid: trf.IdempotencyKey != ""}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO transfers (transfer_id, sender_account_id, recipient_account_number, routing_code, amount, method, status, reference, idempotency_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, trf.TransferID, trf.SenderAccountID, trf.RecipientAccountNumber, trf.RoutingCode, trf.Amount, trf.Method, trf.Status, trf.Reference, idempotencyKey, trf.CreatedAt)
	if err != nil {
		pqErr, ok := err.(*pq.Error)
		if ok && pqErr.Code.Name() == "unique_violation" {
			if strings.Contains(pqErr.Constraint, "idempotency") {
				return ErrDuplicateIdempotencyKey
			}
			return ErrDuplicateReference
		}
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to record transfer", err)
	}
	return nil
}

// Transfer rows are append-only, so a cached copy can never go stale.
const transferCacheTTL = 24 * time.Hour

func transferRefCacheKey(reference string) string {
	return "corebank:transfer:ref:" + reference
}

// GetTransferByRef retrieves a transfer by its unique reference.
func (d Datasource) GetTransferByRef(ctx context.Context, reference string) (*model.Transfer, error) {
	if d.Cache != nil {
		cached := model.Transfer{}
		if err := d.Cache.Get(ctx, transferRefCacheKey(reference), &cached); err == nil && cached.Reference != "" {
			return &cached, nil
		}
	}

	row := d.Conn.QueryRowContext(ctx, `
		SELECT transfer_id, sender_account_id, recipient_account_number, routing_code, amount, method, status, reference, idempotency_key, created_at
		FROM transfers
		WHERE reference = $1
	`, reference)

	trf, err := scanTransferRow(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Transfer with reference '%s' not found", reference), err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve transfer", err)
	}

	if d.Cache != nil {
		if err := d.Cache.Set(ctx, transferRefCacheKey(reference), trf, transferCacheTTL); err != nil {
			logrus.Warnf("failed to cache transfer %s: %v", reference, err)
		}
	}
	return trf, nil
}

// GetTransferByIdempotencyKey retrieves the transfer previously committed
// under an idempotency key, if any.
func (d Datasource) GetTransferByIdempotencyKey(ctx context.Context, key string) (*model.Transfer, error) {
	row := d.Conn.QueryRowContext(ctx, `
		SELECT transfer_id, sender_account_id, recipient_account_number, routing_code, amount, method, status, reference, idempotency_key, created_at
		FROM transfers
		WHERE idempotency_key = $1
	`, key)

	trf, err := scanTransferRow(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Transfer with idempotency key '%s' not found", key), err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve transfer", err)
	}
	return trf, nil
}

func scanTransferRow(row *sql.Row) (*model.Transfer, error) {
	trf := model.Transfer{}
	var idempotencyKey sql.NullString
	err := row.Scan(&trf.TransferID, &trf.SenderAccountID, &trf.RecipientAccountNumber, &trf.RoutingCode, &trf.Amount, &trf.Method, &trf.Status, &trf.Reference, &idempotencyKey, &trf.CreatedAt)
	if err != nil {
		return nil, err
	}
	trf.IdempotencyKey = idempotencyKey.String
	return &trf, nil
}
