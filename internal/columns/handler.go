package columns

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	v1 "github.com/lodestar-lab/temporal-engine/internal/api/v1"
	"github.com/lodestar-lab/temporal-engine/internal/core/dtype"
	httperr "github.com/lodestar-lab/temporal-engine/internal/core/errors"
	"github.com/lodestar-lab/temporal-engine/internal/core/parsing"
	"github.com/lodestar-lab/temporal-engine/internal/core/storage"
	"github.com/lodestar-lab/temporal-engine/internal/core/timezone"
)

const (
	msgReadBodyFailed = "Failed to read request body"
	msgInvalidJSON    = "Invalid JSON body"
	msgPersistFailed  = "Failed to persist column"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// columnError carries the structured HTTP error shape from a helper back
// to the orchestrator. Helpers return this instead of writing to
// gin.Context directly, keeping them decoupled from HTTP.
type columnError struct {
	statusCode int
	errorType  string
	message    string
	details    interface{}
}

func (e *columnError) Error() string {
	return e.message
}

func writeError(c *gin.Context, err *columnError) {
	c.JSON(err.statusCode, httperr.ErrorResponse{
		ErrorType: err.errorType,
		Message:   err.message,
		Details:   err.details,
	})
}

// UploadHandler handles HTTP POST requests for column uploads.
func (s *Service) UploadHandler(c *gin.Context) {
	req, payloadSize, cerr := s.parseRequest(c)
	if cerr != nil {
		writeError(c, cerr)
		return
	}

	column, cerr := s.buildColumn(req)
	if cerr != nil {
		writeError(c, cerr)
		return
	}

	slog.Info("Received column upload",
		"column_id", column.ID,
		"name", column.Name,
		"dtype", column.Dtype,
		"length", len(column.Values),
		"parse_failures", column.ParseFailures,
		"payload_size", payloadSize)

	if err := s.store.SaveColumn(c.Request.Context(), column); err != nil {
		slog.Error("Failed to persist column", "column_id", column.ID, "error", err)
		writeError(c, &columnError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    msgPersistFailed,
		})
		return
	}

	c.JSON(http.StatusCreated, column)
}

// parseRequest reads the raw request body and binds it into an
// UploadColumnRequest. Returns the request and the raw payload size
// (used for structured logging upstream).
func (s *Service) parseRequest(c *gin.Context) (*v1.UploadColumnRequest, int, *columnError) {
	// Bound the body read so oversized payloads fail fast
	maxBytes := int64(s.maxBodySizeBytes)
	limitedBody := io.LimitReader(c.Request.Body, maxBytes+1) // +1 to detect oversized requests

	bodyBytes, err := io.ReadAll(limitedBody)
	if err != nil {
		slog.Error("Failed to read request body", "error", err)
		return nil, 0, &columnError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    msgReadBodyFailed,
		}
	}

	if int64(len(bodyBytes)) > maxBytes {
		slog.Warn("Request body exceeds maximum size", "size", len(bodyBytes), "max", maxBytes)
		return nil, len(bodyBytes), &columnError{
			statusCode: http.StatusRequestEntityTooLarge,
			errorType:  httperr.HttpInvalidJsonError,
			message:    "Request body exceeds maximum allowed size",
			details: map[string]interface{}{
				"max_size_mb": maxBytes / (1024 * 1024),
			},
		}
	}

	c.Request.Body = io.NopCloser(bytes.NewReader(bodyBytes))

	var req v1.UploadColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("Invalid JSON body received", "error", err, "payload_size", len(bodyBytes))
		return nil, len(bodyBytes), &columnError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpInvalidJsonError,
			message:    msgInvalidJSON,
		}
	}

	if err := req.Validate(); err != nil {
		slog.Warn("Upload validation failed", "error", err)
		return nil, len(bodyBytes), &columnError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpValidationError,
			message:    err.Error(),
		}
	}

	return &req, len(bodyBytes), nil
}

// buildColumn parses the request's raw strings into a physical column.
func (s *Service) buildColumn(req *v1.UploadColumnRequest) (*v1.Column, *columnError) {
	target, err := dtype.Parse(req.Dtype)
	if err != nil {
		return nil, &columnError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpInvalidDtypeError,
			message:    err.Error(),
		}
	}

	amb := s.defaultAmbiguous
	if req.Ambiguous != "" {
		amb, err = timezone.ParseAmbiguousPolicy(req.Ambiguous)
		if err != nil {
			return nil, &columnError{
				statusCode: http.StatusBadRequest,
				errorType:  httperr.HttpValidationError,
				message:    err.Error(),
			}
		}
	}
	non := s.defaultNonexistent
	if req.Nonexistent != "" {
		non, err = timezone.ParseNonexistentPolicy(req.Nonexistent)
		if err != nil {
			return nil, &columnError{
				statusCode: http.StatusBadRequest,
				errorType:  httperr.HttpValidationError,
				message:    err.Error(),
			}
		}
	}

	result, err := parsing.ParseArray(req.Values, target, parsing.Options{
		Format:      req.Format,
		SampleSize:  s.sampleSize,
		Guesser:     s.guesser,
		Ambiguous:   amb,
		Nonexistent: non,
	})
	if err != nil {
		return nil, &columnError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpValidationError,
			message:    err.Error(),
		}
	}

	return &v1.Column{
		ID:            uuid.NewString(),
		Name:          req.Name,
		Dtype:         target.String(),
		Values:        result.Series.Values,
		Validity:      result.Series.Validity,
		ParseFailures: result.Failures,
		CreatedAt:     time.Now().UTC(),
	}, nil
}

// GetHandler handles GET /v1/columns/:id.
func (s *Service) GetHandler(c *gin.Context) {
	id := c.Param("id")

	column, err := s.store.GetColumn(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(c, &columnError{
				statusCode: http.StatusNotFound,
				errorType:  httperr.HttpColumnNotFoundError,
				message:    "Column not found",
			})
			return
		}
		slog.Error("Failed to load column", "column_id", id, "error", err)
		writeError(c, &columnError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    "Failed to load column",
		})
		return
	}

	c.JSON(http.StatusOK, column)
}

// ListHandler handles GET /v1/columns with limit/offset pagination.
func (s *Service) ListHandler(c *gin.Context) {
	limit := intQuery(c, "limit", defaultListLimit)
	if limit <= 0 || limit > maxListLimit {
		limit = defaultListLimit
	}
	offset := intQuery(c, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	columns, err := s.store.ListColumns(c.Request.Context(), limit, offset)
	if err != nil {
		slog.Error("Failed to list columns", "error", err)
		writeError(c, &columnError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    "Failed to list columns",
		})
		return
	}
	if columns == nil {
		columns = []*v1.Column{}
	}

	c.JSON(http.StatusOK, gin.H{
		"columns": columns,
		"limit":   limit,
		"offset":  offset,
	})
}

// DeleteHandler handles DELETE /v1/columns/:id.
func (s *Service) DeleteHandler(c *gin.Context) {
	id := c.Param("id")

	if err := s.store.DeleteColumn(c.Request.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(c, &columnError{
				statusCode: http.StatusNotFound,
				errorType:  httperr.HttpColumnNotFoundError,
				message:    "Column not found",
			})
			return
		}
		slog.Error("Failed to delete column", "column_id", id, "error", err)
		writeError(c, &columnError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    "Failed to delete column",
		})
		return
	}

	c.Status(http.StatusNoContent)
}

func intQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
