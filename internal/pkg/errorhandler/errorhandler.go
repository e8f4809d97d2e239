package errorhandler

import (
	"context"
	"net/http"

	"github.com/socialboost/boost-api/internal/pkg/logger"
	"github.com/socialboost/boost-api/internal/pkg/response"
)

// Internal logs err against the request logger and sends a generic 500.
func Internal(ctx context.Context, w http.ResponseWriter, err error, msg string) {
	logger.FromContext(ctx).Error().Err(err).Msg(msg)
	response.InternalError(w)
}

// HandleError logs the failure and sends the given status, code and message.
func HandleError(ctx context.Context, w http.ResponseWriter, status int, code, message string, err error) {
	event := logger.FromContext(ctx).Error().
		Str("error_code", code).
		Int("status_code", status)
	if err != nil {
		event = event.Err(err)
	}
	event.Msg(message)

	response.Error(w, status, code, message)
}
