package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	model2 "github.com/firstchoicebank/corebank/api/model"
	"github.com/firstchoicebank/corebank/internal/apierror"
)

func (a Api) CreateTransfer(c *gin.Context) {
	var req model2.CreateTransfer
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.OwnerID = c.Param("user_id")
	if err := req.ValidateCreateTransfer(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	transferReq, err := req.ToTransferRequest()
	if err != nil {
		respondError(c, apierror.NewAPIError(apierror.ErrInvalidInput, err.Error(), err))
		return
	}

	receipt, err := a.corebank.Transfer(c.Request.Context(), transferReq)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, receipt)
}

func (a Api) GetTransfer(c *gin.Context) {
	transfer, err := a.corebank.GetTransferByRef(c.Request.Context(), c.Param("reference"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, transfer)
}
