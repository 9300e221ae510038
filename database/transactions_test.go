package database

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/firstchoicebank/corebank/internal/apierror"
	"github.com/firstchoicebank/corebank/model"
)

func TestGetTransactionsByOwner_NewestFirst(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	now := time.Now()
	rows := sqlmock.NewRows([]string{"transaction_id", "account_id", "direction", "amount", "status", "description", "created_at"}).
		AddRow("txn_2", "acc_1", model.DirectionCredit, int64(5000), model.StatusCompleted, "Received from 5160837294 via IMPS", now).
		AddRow("txn_1", "acc_1", model.DirectionDebit, int64(2500), model.StatusCompleted, "Transfer to 5160837294 via NEFT", now.Add(-time.Hour))

	mock.ExpectQuery("SELECT .* FROM transactions t JOIN accounts a").
		WithArgs("usr_1", 50, 0).
		WillReturnRows(rows)

	transactions, err := ds.GetTransactionsByOwner(context.Background(), "usr_1", 50, 0)
	assert.NoError(t, err)
	assert.Len(t, transactions, 2)
	assert.Equal(t, "txn_2", transactions[0].TransactionID)
	assert.True(t, transactions[0].CreatedAt.After(transactions[1].CreatedAt))
}

func TestGetTransactionsByAccount_Empty(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectQuery("SELECT .* FROM transactions").
		WithArgs("acc_1", 50, 0).
		WillReturnRows(sqlmock.NewRows([]string{"transaction_id", "account_id", "direction", "amount", "status", "description", "created_at"}))

	transactions, err := ds.GetTransactionsByAccount(context.Background(), "acc_1", 50, 0)
	assert.NoError(t, err)
	assert.Empty(t, transactions)
}

func TestGetTransaction_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectQuery("SELECT .* FROM transactions WHERE transaction_id =").
		WithArgs("txn_gone").
		WillReturnRows(sqlmock.NewRows([]string{"transaction_id", "account_id", "direction", "amount", "status", "description", "created_at"}))

	_, err = ds.GetTransaction(context.Background(), "txn_gone")
	assert.Error(t, err)
	assert.True(t, apierror.Is(err, apierror.ErrNotFound))
}
