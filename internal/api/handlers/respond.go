package handlers

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jafarshop/paymentrelay/internal/api/middleware"
	"github.com/jafarshop/paymentrelay/pkg/errors"
)

const jsonContentType = "application/json; charset=utf-8"

// respondError writes the JSON error body for err. summary describes the
// failed operation and is used unless the error carries its own.
func respondError(c *gin.Context, logger *zap.Logger, summary string, err error) {
	status := errors.HTTPStatus(err)

	var (
		cfgErr      *errors.ErrConfiguration
		inputErr    *errors.ErrInvalidInput
		upstreamErr *errors.ErrUpstream
	)
	switch {
	case stderrors.As(err, &inputErr):
		c.JSON(status, gin.H{"error": inputErr.Summary, "message": inputErr.Message})
	case stderrors.As(err, &cfgErr):
		logger.Error("Required setting missing",
			zap.String("setting", cfgErr.Setting),
			zap.String("path", c.FullPath()),
			zap.String("request_id", middleware.GetRequestID(c)),
		)
		c.JSON(status, gin.H{"error": cfgErr.Error()})
	case stderrors.As(err, &upstreamErr) && upstreamErr.StatusCode != 0:
		c.JSON(status, gin.H{"error": summary, "message": upstreamErr.Body})
	default:
		c.JSON(status, gin.H{"error": summary, "message": err.Error()})
	}
}

// bindError reports a body that could not be decoded at all
func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid request body",
		"message": err.Error(),
	})
}
