package apperr

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

func GlobalErrorHandler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var ve *ValidationError
		if errors.As(err, &ve) {
			_ = c.JSON(http.StatusBadRequest, map[string]string{"error": ve.Message, "title": "validation error"})
			return
		}

		if errors.Is(err, ErrExpiredCursor) {
			_ = c.JSON(http.StatusGone, map[string]string{"error": err.Error(), "title": "expired cursor"})
			return
		}

		if errors.Is(err, ErrInvalidCursor) {
			_ = c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error(), "title": "invalid cursor"})
			return
		}

		var ce *SchemaConflictError
		if errors.As(err, &ce) {
			slog.Error("Entity schema conflict", "field", ce.Field, "first", ce.First, "second", ce.Second)
			_ = c.JSON(http.StatusInternalServerError, map[string]string{"error": "ambiguous entity schema"})
			return
		}

		var de *DataIntegrityError
		if errors.As(err, &de) {
			slog.Error("Search index data integrity error", "error", err)
			_ = c.JSON(http.StatusInternalServerError, map[string]string{"error": "corrupted search document"})
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			msg := fmt.Sprintf("%v", he.Message)
			_ = c.JSON(he.Code, map[string]string{"error": msg})
			return
		}

		slog.Error("Unhandled error", "error", err)
		_ = c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}
