package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/firstchoicebank/corebank"
	"github.com/firstchoicebank/corebank/api/middleware"
	"github.com/firstchoicebank/corebank/config"
	"github.com/firstchoicebank/corebank/internal/apierror"
)

type Api struct {
	corebank *corebank.Corebank
	router   *gin.Engine
}

func (a Api) Router() *gin.Engine {
	router := a.router

	router.POST("/signup", a.Signup)
	router.POST("/login", a.Login)

	router.POST("/users/:user_id/accounts", a.CreateAccount)
	router.GET("/users/:user_id/accounts", a.GetUserAccounts)
	router.GET("/users/:user_id/accounts/:account_id", a.GetAccount)
	router.GET("/users/:user_id/accounts/:account_id/transactions", a.GetAccountTransactions)

	router.POST("/users/:user_id/transfers", a.CreateTransfer)
	router.GET("/users/:user_id/transactions", a.GetUserTransactions)

	router.GET("/transfers/:reference", a.GetTransfer)
	router.GET("/transactions/:id", a.GetTransaction)

	return a.router
}

func NewAPI(b *corebank.Corebank) *Api {
	gin.SetMode(gin.ReleaseMode)
	conf, err := config.Fetch()
	if err != nil {
		return nil
	}
	r := gin.Default()
	r.Use(otelgin.Middleware("corebank-api"))
	r.Use(middleware.RateLimitMiddleware(conf))
	if conf.Server.Secure {
		r.Use(middleware.SecretKeyAuthMiddleware())
	}

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, "server running...")
	})

	return &Api{corebank: b, router: r}
}

// respondError maps engine errors onto HTTP statuses, keeping the typed code
// and message visible to the caller.
func respondError(c *gin.Context, err error) {
	var apiErr apierror.APIError
	status := apierror.MapErrorToHTTPStatus(err)
	if errors.As(err, &apiErr) {
		c.JSON(status, gin.H{"error": apiErr.Message, "code": apiErr.Code})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
