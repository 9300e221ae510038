package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	model2 "github.com/firstchoicebank/corebank/api/model"
)

func (a Api) CreateAccount(c *gin.Context) {
	var req model2.CreateAccount
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.OwnerID = c.Param("user_id")
	if err := req.ValidateCreateAccount(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account, err := a.corebank.CreateAccount(c.Request.Context(), req.OwnerID, req.Category)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, account)
}

func (a Api) GetUserAccounts(c *gin.Context) {
	ownerID := c.Param("user_id")

	if c.Query("grouped") == "true" {
		grouped, err := a.corebank.GroupUserAccountsByCategory(c.Request.Context(), ownerID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, grouped)
		return
	}

	accounts, err := a.corebank.GetUserAccounts(c.Request.Context(), ownerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, accounts)
}

func (a Api) GetAccount(c *gin.Context) {
	account, err := a.corebank.GetAccount(c.Request.Context(), c.Param("user_id"), c.Param("account_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, account)
}
