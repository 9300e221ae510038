package model

import (
	"time"
)

// Account lock guard defaults. Overridable through config.
const (
	DefaultMaxFailedLogins = 3
	DefaultLockoutDuration = 15 * time.Minute
)

// User is an account holder. The failed-attempt counter and lock expiry
// together form the two-state lock guard consulted by the authentication
// layer before issuing a session. The transfer engine never reads or
// mutates these fields.
type User struct {
	ID                  int64      `json:"-"`
	UserID              string     `json:"user_id"`
	AccountNumber       string     `json:"account_number"`
	FullName            string     `json:"full_name"`
	Email               string     `json:"email"`
	PasswordHash        string     `json:"-"`
	FailedLoginAttempts int        `json:"-"`
	LockedUntil         *time.Time `json:"-"`
	CreatedAt           time.Time  `json:"created_at"`
}

// Locked reports whether the guard is in the Locked state at now, and if so
// how long remains until the lock expires.
func (u *User) Locked(now time.Time) (bool, time.Duration) {
	if u.LockedUntil == nil || !now.Before(*u.LockedUntil) {
		return false, 0
	}
	return true, u.LockedUntil.Sub(now)
}

// RecordFailedLogin applies one failed credential check to the guard.
//
// An expired lock is cleared first and the failure counted as the first of a
// fresh window. While a lock is active the counter is untouched and the
// remaining lock time is reported. Returns the post-transition state.
func (u *User) RecordFailedLogin(now time.Time, maxAttempts int, lockout time.Duration) (locked bool, remaining time.Duration) {
	if locked, remaining = u.Locked(now); locked {
		return locked, remaining
	}
	if u.LockedUntil != nil {
		// Lock expired: back to Unlocked with a clean slate before counting.
		u.LockedUntil = nil
		u.FailedLoginAttempts = 0
	}
	u.FailedLoginAttempts++
	if u.FailedLoginAttempts >= maxAttempts {
		until := now.Add(lockout)
		u.LockedUntil = &until
		return true, lockout
	}
	return false, 0
}

// RecordSuccessfulLogin resets the guard to Unlocked with a zero failure
// counter. Callers must reject the attempt with Locked before verifying
// credentials; a correct password does not bypass an active lock.
func (u *User) RecordSuccessfulLogin() {
	u.FailedLoginAttempts = 0
	u.LockedUntil = nil
}
