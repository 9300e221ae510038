package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func (a Api) GetUserTransactions(c *gin.Context) {
	limit, offset := pagination(c)

	transactions, err := a.corebank.GetUserTransactions(c.Request.Context(), c.Param("user_id"), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, transactions)
}

func (a Api) GetAccountTransactions(c *gin.Context) {
	ctx := c.Request.Context()
	limit, offset := pagination(c)

	// Ownership check before reading the statement.
	account, err := a.corebank.GetAccount(ctx, c.Param("user_id"), c.Param("account_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	transactions, err := a.corebank.GetAccountTransactions(ctx, account.AccountID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, transactions)
}

func (a Api) GetTransaction(c *gin.Context) {
	transaction, err := a.corebank.GetTransaction(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, transaction)
}

func pagination(c *gin.Context) (int, int) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		limit = 50
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}
