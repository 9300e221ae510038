package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/firstchoicebank/corebank"
	model2 "github.com/firstchoicebank/corebank/api/model"
)

func (a Api) Signup(c *gin.Context) {
	var req model2.Signup
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.ValidateSignup(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := a.corebank.Signup(c.Request.Context(), &corebank.SignupRequest{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

func (a Api) Login(c *gin.Context) {
	var req model2.Login
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.ValidateLogin(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := a.corebank.Login(c.Request.Context(), req.AccountNumber, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
