package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/firstchoicebank/corebank/internal/apierror"
	"github.com/firstchoicebank/corebank/model"
)

// CreateUser inserts a new User. The login account number and email are
// unique; a clash surfaces as a CONFLICT error.
func (d Datasource) CreateUser(user model.User) (model.User, error) {
	user.UserID = model.GenerateUUIDWithSuffix("usr")
	user.CreatedAt = time.Now()

	_, err := d.Conn.Exec(`
		INSERT INTO users (user_id, account_number, full_name, email, password_hash, failed_login_attempts, locked_until, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, user.UserID, user.AccountNumber, user.FullName, user.Email, user.PasswordHash, user.FailedLoginAttempts, user.LockedUntil, user.CreatedAt)

	if err != nil {
		pqErr, ok := err.(*pq.Error)
		if ok && pqErr.Code.Name() == "unique_violation" {
			return model.User{}, apierror.NewAPIError(apierror.ErrConflict, "A user with this account number or email already exists", err)
		}
		return model.User{}, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to create user", err)
	}

	return user, nil
}

// GetUserByAccountNumber retrieves a user by their login account number.
func (d Datasource) GetUserByAccountNumber(number string) (*model.User, error) {
	row := d.Conn.QueryRow(`
		SELECT user_id, account_number, full_name, email, password_hash, failed_login_attempts, locked_until, created_at
		FROM users
		WHERE account_number = $1
	`, number)

	user, err := scanUserRow(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("User with account number '%s' not found", number), err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve user", err)
	}
	return user, nil
}

// GetUserByID retrieves a user by their user ID.
func (d Datasource) GetUserByID(id string) (*model.User, error) {
	row := d.Conn.QueryRow(`
		SELECT user_id, account_number, full_name, email, password_hash, failed_login_attempts, locked_until, created_at
		FROM users
		WHERE user_id = $1
	`, id)

	user, err := scanUserRow(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("User with ID '%s' not found", id), err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve user", err)
	}
	return user, nil
}

// UpdateUserLockState persists the failed-attempt counter and lockout window
// after a login attempt.
func (d Datasource) UpdateUserLockState(user *model.User) error {
	result, err := d.Conn.Exec(`
		UPDATE users
		SET failed_login_attempts = $2, locked_until = $3
		WHERE user_id = $1
	`, user.UserID, user.FailedLoginAttempts, user.LockedUntil)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to update user lock state", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("User with ID '%s' not found", user.UserID), nil)
	}
	return nil
}

func scanUserRow(row *sql.Row) (*model.User, error) {
	user := model.User{}
	var lockedUntil sql.NullTime
	err := row.Scan(&user.UserID, &user.AccountNumber, &user.FullName, &user.Email, &user.PasswordHash, &user.FailedLoginAttempts, &lockedUntil, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	if lockedUntil.Valid {
		t := lockedUntil.Time
		user.LockedUntil = &t
	}
	return &user, nil
}
