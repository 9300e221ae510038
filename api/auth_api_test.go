package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	model2 "github.com/firstchoicebank/corebank/api/model"
	"github.com/firstchoicebank/corebank/internal/request"
	"github.com/firstchoicebank/corebank/model"
)

func TestSignupAPI(t *testing.T) {
	router, mock := setupRouter(t)

	mock.ExpectExec("INSERT INTO users").
		WillReturnResult(sqlmock.NewResult(1, 1))

	payload := model2.Signup{FullName: "Asha Rao", Email: "asha@example.com", Password: "correct horse"}
	body, err := request.ToJsonReq(&payload)
	require.NoError(t, err)

	var user model.User
	resp, err := SetUpTestRequest(TestRequest{
		Payload:  body,
		Response: &user,
		Method:   "POST",
		Route:    "/signup",
		Router:   router,
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, resp.Code)
	assert.Regexp(t, `^usr_`, user.UserID)
	assert.Regexp(t, `^\d{10}$`, user.AccountNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSignupAPI_Validation(t *testing.T) {
	router, _ := setupRouter(t)

	tests := []struct {
		name    string
		payload model2.Signup
	}{
		{"missing name", model2.Signup{Email: "asha@example.com", Password: "correct horse"}},
		{"bad email", model2.Signup{FullName: "Asha Rao", Email: "not-an-email", Password: "correct horse"}},
		{"short password", model2.Signup{FullName: "Asha Rao", Email: "asha@example.com", Password: "short"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := request.ToJsonReq(&tt.payload)
			require.NoError(t, err)

			var response map[string]interface{}
			resp, err := SetUpTestRequest(TestRequest{
				Payload:  body,
				Response: &response,
				Method:   "POST",
				Route:    "/signup",
				Router:   router,
			})
			require.NoError(t, err)
			assert.Equal(t, http.StatusBadRequest, resp.Code)
		})
	}
}

func loginUser(t *testing.T, password string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &model.User{UserID: "usr_1", AccountNumber: "8429175306", FullName: "Asha Rao", Email: "asha@example.com", PasswordHash: string(hash)}
}

func TestLoginAPI_Success(t *testing.T) {
	router, mock := setupRouter(t)

	user := loginUser(t, "correct horse")
	mock.ExpectQuery("SELECT .* FROM users WHERE account_number =").
		WithArgs(user.AccountNumber).
		WillReturnRows(userRows(user))
	mock.ExpectExec("UPDATE users").
		WithArgs(user.UserID, 0, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	payload := model2.Login{AccountNumber: user.AccountNumber, Password: "correct horse"}
	body, err := request.ToJsonReq(&payload)
	require.NoError(t, err)

	var got model.User
	resp, err := SetUpTestRequest(TestRequest{
		Payload:  body,
		Response: &got,
		Method:   "POST",
		Route:    "/login",
		Router:   router,
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, user.UserID, got.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginAPI_WrongPassword(t *testing.T) {
	router, mock := setupRouter(t)

	user := loginUser(t, "correct horse")
	mock.ExpectQuery("SELECT .* FROM users WHERE account_number =").
		WithArgs(user.AccountNumber).
		WillReturnRows(userRows(user))
	mock.ExpectExec("UPDATE users").
		WithArgs(user.UserID, 1, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	payload := model2.Login{AccountNumber: user.AccountNumber, Password: "wrong horse!"}
	body, err := request.ToJsonReq(&payload)
	require.NoError(t, err)

	var response map[string]interface{}
	resp, err := SetUpTestRequest(TestRequest{
		Payload:  body,
		Response: &response,
		Method:   "POST",
		Route:    "/login",
		Router:   router,
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "INVALID_INPUT", response["code"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginAPI_LockedAccount(t *testing.T) {
	router, mock := setupRouter(t)

	user := loginUser(t, "correct horse")
	user.FailedLoginAttempts = 3
	until := time.Now().Add(10 * time.Minute)
	user.LockedUntil = &until

	mock.ExpectQuery("SELECT .* FROM users WHERE account_number =").
		WithArgs(user.AccountNumber).
		WillReturnRows(userRows(user))

	payload := model2.Login{AccountNumber: user.AccountNumber, Password: "correct horse"}
	body, err := request.ToJsonReq(&payload)
	require.NoError(t, err)

	var response map[string]interface{}
	resp, err := SetUpTestRequest(TestRequest{
		Payload:  body,
		Response: &response,
		Method:   "POST",
		Route:    "/login",
		Router:   router,
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusConflict, resp.Code)
	assert.Equal(t, "CONFLICT", response["code"])
	assert.NoError(t, mock.ExpectationsWereMet())
}
