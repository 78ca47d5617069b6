package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/romaxnova/dvf-api/internal/apierror"
	"github.com/romaxnova/dvf-api/internal/repository"

	"github.com/gin-gonic/gin"
)

// Health returns a JSON health check response.
// Checks store connectivity; never exposes credentials or internals.
func Health(repo repository.DVFRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		storeStatus := "connected"
		if repo.Ping(ctx) != nil {
			storeStatus = "error"
		}

		body := gin.H{
			"ok":      storeStatus == "connected",
			"store":   storeStatus,
			"backend": repo.Backend(),
		}
		if storeStatus != "connected" {
			body["error"] = apierror.MsgServiceUnavailable
			c.JSON(http.StatusServiceUnavailable, body)
			return
		}
		c.JSON(http.StatusOK, body)
	}
}
