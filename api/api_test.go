package api

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/firstchoicebank/corebank"
	"github.com/firstchoicebank/corebank/config"
	"github.com/firstchoicebank/corebank/database"
	"github.com/firstchoicebank/corebank/model"
)

type TestRequest struct {
	Payload  io.Reader
	Router   *gin.Engine
	Response interface{}
	Method   string
	Route    string
	Header   map[string]string
}

func SetUpTestRequest(s TestRequest) (*httptest.ResponseRecorder, error) {
	req := httptest.NewRequest(s.Method, s.Route, s.Payload)
	for key, value := range s.Header {
		req.Header.Set(key, value)
	}
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	s.Router.ServeHTTP(resp, req)

	err := json.NewDecoder(resp.Body).Decode(&s.Response)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// setupRouter builds the full HTTP surface against a stubbed datasource and
// an in-process redis, so handler tests exercise real routing, validation
// and engine logic without external infrastructure.
func setupRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()

	mr := miniredis.RunT(t)
	cnf := &config.Configuration{}
	cnf.Redis.Dns = mr.Addr()
	config.MockConfig(cnf)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	engine, err := corebank.NewCorebank(&database.Datasource{Conn: db})
	require.NoError(t, err)

	return NewAPI(engine).Router(), mock
}

func accountRows(account *model.Account) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"account_id", "owner_id", "category", "number", "balance", "version", "opened_at"}).
		AddRow(account.AccountID, account.OwnerID, account.Category, account.Number, account.Balance, account.Version, time.Now())
}

func userRows(user *model.User) *sqlmock.Rows {
	var lockedUntil interface{}
	if user.LockedUntil != nil {
		lockedUntil = *user.LockedUntil
	}
	return sqlmock.NewRows([]string{"user_id", "account_number", "full_name", "email", "password_hash", "failed_login_attempts", "locked_until", "created_at"}).
		AddRow(user.UserID, user.AccountNumber, user.FullName, user.Email, user.PasswordHash, user.FailedLoginAttempts, lockedUntil, time.Now())
}

func expectCommit(mock sqlmock.Sqlmock, sender, recipient *model.Account, amount int64) {
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE accounts").
		WithArgs(sender.AccountID, -amount, sender.Version).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE accounts").
		WithArgs(recipient.AccountID, amount, recipient.Version).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO transactions").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO transactions").WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectExec("INSERT INTO transfers").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
}
