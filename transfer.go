package corebank

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/firstchoicebank/corebank/config"
	"github.com/firstchoicebank/corebank/database"
	"github.com/firstchoicebank/corebank/internal/apierror"
	"github.com/firstchoicebank/corebank/internal/lock"
	"github.com/firstchoicebank/corebank/model"
)

var tracer = otel.Tracer("corebank.transfer")

// receiptCacheTTL bounds how long an idempotency receipt stays in the cache
// fast path; the transfers table remains the source of truth after expiry.
const receiptCacheTTL = 24 * time.Hour

// referenceAttempts bounds regeneration when a generated transfer reference
// collides with an existing one.
const referenceAttempts = 5

// TransferRequest is the engine-level transfer contract. OwnerID identifies
// the requesting user; the engine refuses to debit an account they do not own.
type TransferRequest struct {
	OwnerID         string
	FromAccountID   string
	ToAccountNumber string
	Amount          int64
	Method          string
	RoutingCode     string
	Description     string
	IdempotencyKey  string
}

func logAndRecordError(span trace.Span, msg string, err error) error {
	span.RecordError(err)
	logrus.Error(msg, err)
	return err
}

// Transfer moves funds between two accounts and records the movement as one
// debit and one credit transaction correlated by a transfer record. The whole
// mutation is committed atomically; on any error the system state is exactly
// as it was before the call.
func (c *Corebank) Transfer(ctx context.Context, req *TransferRequest) (*model.TransferReceipt, error) {
	ctx, span := tracer.Start(ctx, "Processing transfer")
	defer span.End()

	if err := validateTransferRequest(req); err != nil {
		return nil, err
	}

	if req.IdempotencyKey != "" {
		receipt, err := c.replayedReceipt(ctx, req)
		if err != nil {
			return nil, err
		}
		if receipt != nil {
			return receipt, nil
		}
	}

	conf, err := config.Fetch()
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to load configuration", err)
	}

	locker, err := c.acquireLock(ctx, conf, req.FromAccountID)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrConflict, "Sender account is busy, retry shortly", err)
	}
	defer func(locker *lock.Locker, ctx context.Context) {
		if err := locker.Unlock(ctx); err != nil {
			logrus.Error("lock release error", err)
		}
	}(locker, ctx)

	return c.transferWithRetries(ctx, span, conf, req)
}

func validateTransferRequest(req *TransferRequest) error {
	if req.OwnerID == "" || req.FromAccountID == "" {
		return apierror.NewAPIError(apierror.ErrInvalidInput, "Sender account is required", nil)
	}
	if req.ToAccountNumber == "" {
		return apierror.NewAPIError(apierror.ErrInvalidInput, "Recipient account number is required", nil)
	}
	if req.Amount <= 0 {
		return apierror.NewAPIError(apierror.ErrInvalidInput, "Amount must be a positive value", nil)
	}
	if !model.ValidMethod(req.Method) {
		return apierror.NewAPIError(apierror.ErrInvalidInput, fmt.Sprintf("Unknown transfer method '%s'", req.Method), nil)
	}
	if req.RoutingCode == "" {
		return apierror.NewAPIError(apierror.ErrInvalidInput, "Routing code is required", nil)
	}
	return nil
}

// replayedReceipt returns the original receipt for an idempotency key that the
// caller has already committed, or nil when the key is fresh. The key is
// scoped to the owner, and the stored transfer must match the request: a key
// held by another user or reused with different fields is rejected, never
// replayed.
func (c *Corebank) replayedReceipt(ctx context.Context, req *TransferRequest) (*model.TransferReceipt, error) {
	cached := model.TransferReceipt{}
	if err := c.cache().Get(ctx, receiptCacheKey(req.OwnerID, req.IdempotencyKey), &cached); err == nil &&
		cached.Reference != "" && replayMatchesRequest(&cached, req) {
		return &cached, nil
	}

	trf, err := c.datasource.GetTransferByIdempotencyKey(ctx, req.IdempotencyKey)
	if err != nil {
		if apierror.Is(err, apierror.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	sender, err := c.datasource.GetAccountByID(trf.SenderAccountID)
	if err != nil {
		return nil, err
	}
	if sender.OwnerID != req.OwnerID {
		// A foreign key is indistinguishable from one already taken.
		return nil, apierror.NewAPIError(apierror.ErrConflict, "Idempotency key is already in use", nil)
	}
	if trf.SenderAccountID != req.FromAccountID || trf.RecipientAccountNumber != req.ToAccountNumber ||
		trf.Amount != req.Amount || trf.Method != req.Method {
		return nil, apierror.NewAPIError(apierror.ErrConflict, "Idempotency key was already used with different transfer details", nil)
	}

	return &model.TransferReceipt{
		Reference: trf.Reference,
		From:      sender.Number,
		To:        trf.RecipientAccountNumber,
		Amount:    trf.Amount,
		Method:    trf.Method,
	}, nil
}

// replayMatchesRequest checks the cached receipt against the request fields
// the receipt carries. The sender account is covered by the owner-scoped
// cache key.
func replayMatchesRequest(receipt *model.TransferReceipt, req *TransferRequest) bool {
	return receipt.To == req.ToAccountNumber && receipt.Amount == req.Amount && receipt.Method == req.Method
}

func (c *Corebank) acquireLock(ctx context.Context, conf *config.Configuration, accountID string) (*lock.Locker, error) {
	locker := lock.NewLocker(c.redis, accountID, model.GenerateUUIDWithSuffix("loc"))
	if err := locker.WaitLock(ctx, conf.LockTimeout(), conf.LockWait()); err != nil {
		return nil, err
	}
	return locker, nil
}

// transferWithRetries runs the precondition ladder and the atomic commit,
// retrying lost optimistic-concurrency races with exponential backoff. Every
// retry refetches both balances so the conditional update is checked against
// fresh versions.
func (c *Corebank) transferWithRetries(ctx context.Context, span trace.Span, conf *config.Configuration, req *TransferRequest) (*model.TransferReceipt, error) {
	var receipt *model.TransferReceipt
	operation := func() error {
		var err error
		receipt, err = c.attemptTransfer(ctx, req)
		if err != nil {
			if apierror.Is(err, apierror.ErrConflict) {
				return err
			}
			return backoff.Permanent(err)
		}
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(conf.Transfer.MaxConflictRetries)), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		var permanent *backoff.PermanentError
		if errors.As(err, &permanent) {
			err = permanent.Err
		}
		return nil, logAndRecordError(span, "transfer failed: ", err)
	}
	return receipt, nil
}

// attemptTransfer performs one pass of the precondition ladder followed by the
// atomic commit. A CONFLICT return means the caller may retry with fresh state.
func (c *Corebank) attemptTransfer(ctx context.Context, req *TransferRequest) (*model.TransferReceipt, error) {
	sender, err := c.datasource.GetAccountByID(req.FromAccountID)
	if err != nil {
		if apierror.Is(err, apierror.ErrNotFound) {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, "Sender account not found", err)
		}
		return nil, err
	}
	if sender.OwnerID != req.OwnerID {
		// Not the caller's account; indistinguishable from absent.
		return nil, apierror.NewAPIError(apierror.ErrNotFound, "Sender account not found", nil)
	}

	if sender.Number == req.ToAccountNumber {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, "Cannot transfer to the same account", nil)
	}

	recipient, err := c.datasource.GetAccountByNumber(req.ToAccountNumber)
	if err != nil {
		if apierror.Is(err, apierror.ErrNotFound) {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, "Recipient account not found", err)
		}
		return nil, err
	}

	if !sender.CanDebit(req.Amount) {
		return nil, apierror.NewAPIError(apierror.ErrInsufficientFunds,
			fmt.Sprintf("Insufficient funds: balance %s, requested %s", model.FormatAmount(sender.Balance), model.FormatAmount(req.Amount)), nil)
	}

	trf, debit, credit := buildTransferRecords(req, sender, recipient)

	for attempt := 0; attempt < referenceAttempts; attempt++ {
		err = c.datasource.CommitTransfer(ctx, trf, debit, credit, sender, recipient)
		if !errors.Is(err, database.ErrDuplicateReference) {
			break
		}
		// Reference collision, regenerate and retry transparently.
		trf.Reference = model.GenerateReference(time.Now())
	}
	if err != nil {
		if errors.Is(err, database.ErrDuplicateReference) {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Could not allocate a unique transfer reference", err)
		}
		if errors.Is(err, database.ErrDuplicateIdempotencyKey) {
			receipt, replayErr := c.replayedReceipt(ctx, req)
			if replayErr != nil {
				return nil, replayErr
			}
			if receipt == nil {
				return nil, apierror.NewAPIError(apierror.ErrConflict, "Idempotency key is already in use", err)
			}
			return receipt, nil
		}
		return nil, err
	}

	receipt := &model.TransferReceipt{
		Reference: trf.Reference,
		From:      sender.Number,
		To:        recipient.Number,
		Amount:    trf.Amount,
		Method:    trf.Method,
	}
	if req.IdempotencyKey != "" {
		if err := c.cache().Set(ctx, receiptCacheKey(req.OwnerID, req.IdempotencyKey), receipt, receiptCacheTTL); err != nil {
			logrus.Warnf("failed to cache transfer receipt: %v", err)
		}
	}
	return receipt, nil
}

func buildTransferRecords(req *TransferRequest, sender, recipient *model.Account) (*model.Transfer, *model.Transaction, *model.Transaction) {
	trf := &model.Transfer{
		SenderAccountID:        sender.AccountID,
		RecipientAccountNumber: recipient.Number,
		RoutingCode:            req.RoutingCode,
		Amount:                 req.Amount,
		Method:                 req.Method,
		Status:                 model.StatusCompleted,
		Reference:              model.GenerateReference(time.Now()),
		IdempotencyKey:         req.IdempotencyKey,
	}

	debitDescription := req.Description
	if debitDescription == "" {
		debitDescription = model.DebitDescription(recipient.Number, req.Method)
	}
	debit := &model.Transaction{
		AccountID:   sender.AccountID,
		Direction:   model.DirectionDebit,
		Amount:      req.Amount,
		Status:      model.StatusCompleted,
		Description: debitDescription,
	}
	credit := &model.Transaction{
		AccountID:   recipient.AccountID,
		Direction:   model.DirectionCredit,
		Amount:      req.Amount,
		Status:      model.StatusCompleted,
		Description: model.CreditDescription(sender.Number, req.Method),
	}
	return trf, debit, credit
}

// GetUserTransactions aggregates the transactions of every account the user
// owns, newest first.
func (c *Corebank) GetUserTransactions(ctx context.Context, ownerID string, limit, offset int) ([]model.Transaction, error) {
	if limit <= 0 {
		limit = 50
	}
	return c.datasource.GetTransactionsByOwner(ctx, ownerID, limit, offset)
}

// GetAccountTransactions lists the statement of one account, newest first.
func (c *Corebank) GetAccountTransactions(ctx context.Context, accountID string, limit, offset int) ([]model.Transaction, error) {
	if limit <= 0 {
		limit = 50
	}
	return c.datasource.GetTransactionsByAccount(ctx, accountID, limit, offset)
}

// GetTransaction looks up a single ledger entry by its ID.
func (c *Corebank) GetTransaction(ctx context.Context, id string) (*model.Transaction, error) {
	return c.datasource.GetTransaction(ctx, id)
}

// GetTransferByRef looks up a committed transfer by its reference.
func (c *Corebank) GetTransferByRef(ctx context.Context, reference string) (*model.Transfer, error) {
	return c.datasource.GetTransferByRef(ctx, reference)
}

func receiptCacheKey(ownerID, idempotencyKey string) string {
	return "corebank:transfer:idem:" + ownerID + ":" + idempotencyKey
}
