package database

import (
	"context"

	"github.com/firstchoicebank/corebank/model"
)

// IDataSource defines the interface for data source operations, grouping related functionalities.
type IDataSource interface {
	account
	transfer
	transaction
	user
}

// account defines methods for handling accounts and their balances.
type account interface {
	CreateAccount(account model.Account) (model.Account, error)
	GetAccountByID(id string) (*model.Account, error)
	GetAccountByNumber(number string) (*model.Account, error)
	GetAccountsByOwner(ownerID string) ([]model.Account, error)
	ApplyBalanceDelta(ctx context.Context, accountID string, delta int64, expectedVersion int64) error
}

// transfer defines methods for committing and reading transfers.
type transfer interface {
	CommitTransfer(ctx context.Context, trf *model.Transfer, debit, credit *model.Transaction, sender, recipient *model.Account) error
	GetTransferByRef(ctx context.Context, reference string) (*model.Transfer, error)
	GetTransferByIdempotencyKey(ctx context.Context, key string) (*model.Transfer, error)
}

// transaction defines read methods over the append-only transaction log.
type transaction interface {
	GetTransaction(ctx context.Context, id string) (*model.Transaction, error)
	GetTransactionsByOwner(ctx context.Context, ownerID string, limit, offset int) ([]model.Transaction, error)
	GetTransactionsByAccount(ctx context.Context, accountID string, limit, offset int) ([]model.Transaction, error)
}

// user defines methods for handling users and their login lock state.
type user interface {
	CreateUser(user model.User) (model.User, error)
	GetUserByAccountNumber(number string) (*model.User, error)
	GetUserByID(id string) (*model.User, error)
	UpdateUserLockState(user *model.User) error
}
