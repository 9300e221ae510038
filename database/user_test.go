package database

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/firstchoicebank/corebank/internal/apierror"
	"github.com/firstchoicebank/corebank/model"
)

func TestCreateUser_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	user := model.User{
		AccountNumber: "8429175306",
		FullName:      gofakeit.Name(),
		Email:         gofakeit.Email(),
		PasswordHash:  "$2a$10$abcdefghijklmnopqrstuv",
	}

	mock.ExpectExec("INSERT INTO users").
		WithArgs(sqlmock.AnyArg(), user.AccountNumber, user.FullName, user.Email, user.PasswordHash, 0, nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	created, err := ds.CreateUser(user)
	assert.NoError(t, err)
	assert.Contains(t, created.UserID, "usr_")
	assert.WithinDuration(t, time.Now(), created.CreatedAt, time.Second)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(&pq.Error{Code: "23505", Message: "unique_violation"})

	_, err = ds.CreateUser(model.User{Email: "taken@example.com"})
	assert.Error(t, err)
	assert.True(t, apierror.Is(err, apierror.ErrConflict))
}

func TestGetUserByAccountNumber(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	lockedUntil := time.Now().Add(10 * time.Minute)
	rows := sqlmock.NewRows([]string{"user_id", "account_number", "full_name", "email", "password_hash", "failed_login_attempts", "locked_until", "created_at"}).
		AddRow("usr_1", "8429175306", "Asha Rao", "asha@example.com", "hash", 3, lockedUntil, time.Now())

	mock.ExpectQuery("SELECT .* FROM users WHERE account_number =").
		WithArgs("8429175306").
		WillReturnRows(rows)

	user, err := ds.GetUserByAccountNumber("8429175306")
	assert.NoError(t, err)
	assert.Equal(t, "usr_1", user.UserID)
	assert.Equal(t, 3, user.FailedLoginAttempts)
	assert.NotNil(t, user.LockedUntil)
	assert.WithinDuration(t, lockedUntil, *user.LockedUntil, time.Second)
}

func TestGetUserByAccountNumber_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectQuery("SELECT .* FROM users WHERE account_number =").
		WithArgs("0000000000").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "account_number", "full_name", "email", "password_hash", "failed_login_attempts", "locked_until", "created_at"}))

	_, err = ds.GetUserByAccountNumber("0000000000")
	assert.Error(t, err)
	assert.True(t, apierror.Is(err, apierror.ErrNotFound))
}

func TestUpdateUserLockState(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	lockedUntil := time.Now().Add(15 * time.Minute)
	user := &model.User{UserID: "usr_1", FailedLoginAttempts: 3, LockedUntil: &lockedUntil}

	mock.ExpectExec("UPDATE users").
		WithArgs(user.UserID, user.FailedLoginAttempts, user.LockedUntil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, ds.UpdateUserLockState(user))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateUserLockState_UserMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectExec("UPDATE users").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = ds.UpdateUserLockState(&model.User{UserID: "usr_gone"})
	assert.Error(t, err)
	assert.True(t, apierror.Is(err, apierror.ErrNotFound))
}
