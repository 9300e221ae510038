package corebank

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/firstchoicebank/corebank/config"
	"github.com/firstchoicebank/corebank/internal/apierror"
	"github.com/firstchoicebank/corebank/model"
)

// SignupRequest carries the fields needed to register a user. The login
// account number is generated, not chosen.
type SignupRequest struct {
	FullName string
	Email    string
	Password string
}

// Signup registers a user with a bcrypt password hash and a generated
// 10-digit login account number.
func (c *Corebank) Signup(ctx context.Context, req *SignupRequest) (*model.User, error) {
	_, span := tracer.Start(ctx, "Registering user")
	defer span.End()

	if req.FullName == "" || req.Email == "" {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, "Full name and email are required", nil)
	}
	if len(req.Password) < 8 {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, "Password must be at least 8 characters", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to hash password", err)
	}

	var created model.User
	for attempt := 0; attempt < accountNumberAttempts; attempt++ {
		user := model.User{
			AccountNumber: model.GenerateAccountNumber(),
			FullName:      req.FullName,
			Email:         req.Email,
			PasswordHash:  string(hash),
		}
		created, err = c.datasource.CreateUser(user)
		if err == nil {
			return &created, nil
		}
		if !apierror.Is(err, apierror.ErrConflict) {
			return nil, err
		}
	}
	return nil, logAndRecordError(span, "could not register user: ", err)
}

// CheckLoginAllowed reports whether an account may attempt a login right now.
// A locked account is rejected regardless of credential correctness.
func (c *Corebank) CheckLoginAllowed(accountNumber string) error {
	user, err := c.datasource.GetUserByAccountNumber(accountNumber)
	if err != nil {
		return err
	}
	if locked, remaining := user.Locked(time.Now()); locked {
		return lockedError(remaining)
	}
	return nil
}

// RegisterLoginAttempt applies one credential-check outcome to the account
// lock state machine and persists the result. It returns an error when the
// attempt leaves the account locked.
func (c *Corebank) RegisterLoginAttempt(accountNumber string, success bool) error {
	user, err := c.datasource.GetUserByAccountNumber(accountNumber)
	if err != nil {
		return err
	}
	return c.applyLoginAttempt(user, success)
}

func (c *Corebank) applyLoginAttempt(user *model.User, success bool) error {
	conf, err := config.Fetch()
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to load configuration", err)
	}

	now := time.Now()
	if success {
		if locked, remaining := user.Locked(now); locked {
			return lockedError(remaining)
		}
		user.RecordSuccessfulLogin()
		return c.datasource.UpdateUserLockState(user)
	}

	locked, remaining := user.RecordFailedLogin(now, conf.AccountLock.MaxFailedAttempts, conf.LockoutDuration())
	if err := c.datasource.UpdateUserLockState(user); err != nil {
		return err
	}
	if locked {
		return lockedError(remaining)
	}
	return apierror.NewAPIError(apierror.ErrInvalidInput, "Invalid account number or password", nil)
}

// Login verifies credentials behind the account lock guard. Three failed
// attempts lock the account for the configured window; attempts during the
// window are rejected even with correct credentials.
func (c *Corebank) Login(ctx context.Context, accountNumber, password string) (*model.User, error) {
	_, span := tracer.Start(ctx, "Authenticating user")
	defer span.End()

	user, err := c.datasource.GetUserByAccountNumber(accountNumber)
	if err != nil {
		if apierror.Is(err, apierror.ErrNotFound) {
			return nil, apierror.NewAPIError(apierror.ErrInvalidInput, "Invalid account number or password", err)
		}
		return nil, err
	}

	if locked, remaining := user.Locked(time.Now()); locked {
		return nil, lockedError(remaining)
	}

	match := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
	if err := c.applyLoginAttempt(user, match); err != nil {
		return nil, err
	}
	return user, nil
}

func lockedError(remaining time.Duration) error {
	return apierror.NewAPIError(apierror.ErrConflict,
		fmt.Sprintf("Account locked due to repeated failed logins, try again in %s", remaining.Round(time.Second)), nil)
}
