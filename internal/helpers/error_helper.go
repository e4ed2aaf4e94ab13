package helpers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AleGonz2812/eventos-api/internal/apperrors"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func RespondWithError(c *gin.Context, statusCode int, customMessage string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: customMessage,
	})
}

// RespondWithAppError maps the purchase engine's error taxonomy to HTTP.
func RespondWithAppError(c *gin.Context, err error) {
	var (
		validation  *apperrors.ValidationError
		notFound    *apperrors.NotFoundError
		declined    *apperrors.PaymentDeclinedError
		persistence *apperrors.PersistenceError
		encoding    *apperrors.EncodingError
	)
	switch {
	case errors.As(err, &validation):
		RespondWithError(c, http.StatusBadRequest, validation.Message)
	case errors.As(err, &notFound):
		RespondWithError(c, http.StatusNotFound, notFound.Error())
	case errors.As(err, &declined):
		RespondWithError(c, http.StatusPaymentRequired, declined.Message)
	case errors.As(err, &encoding):
		RespondWithError(c, http.StatusInternalServerError, "Could not generate the ticket QR codes. The purchase was not completed.")
	case errors.As(err, &persistence):
		// The transaction rolled back, so retrying is safe, but
		// availability may have changed in the meantime.
		RespondWithError(c, http.StatusInternalServerError, "The purchase could not be saved. Please check availability and try again.")
	default:
		RespondWithError(c, http.StatusInternalServerError, "Something went wrong. Please try again.")
	}
}
