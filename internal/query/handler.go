package query

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	v1 "github.com/lodestar-lab/temporal-engine/internal/api/v1"
	httperr "github.com/lodestar-lab/temporal-engine/internal/core/errors"
	"github.com/lodestar-lab/temporal-engine/internal/core/storage"
	"github.com/lodestar-lab/temporal-engine/internal/core/timezone"
)

// HandleShift handles POST /v1/columns/:id/shift.
func (s *Service) HandleShift(c *gin.Context) {
	var req v1.ShiftRequest
	if !bindBody(c, &req, req.Validate) {
		return
	}

	resp, err := s.Shift(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeQueryError(c, "shift", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleLocalize handles POST /v1/columns/:id/localize.
func (s *Service) HandleLocalize(c *gin.Context) {
	var req v1.LocalizeRequest
	if !bindBody(c, &req, req.Validate) {
		return
	}

	resp, err := s.Localize(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeQueryError(c, "localize", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleCast handles POST /v1/columns/:id/cast.
func (s *Service) HandleCast(c *gin.Context) {
	var req v1.CastRequest
	if !bindBody(c, &req, req.Validate) {
		return
	}

	resp, err := s.Cast(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeQueryError(c, "cast", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleTruncate handles POST /v1/columns/:id/truncate.
func (s *Service) HandleTruncate(c *gin.Context) {
	var req v1.TruncateRequest
	if !bindBody(c, &req, req.Validate) {
		return
	}

	resp, err := s.Truncate(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeQueryError(c, "truncate", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleWindows handles POST /v1/columns/:id/windows.
func (s *Service) HandleWindows(c *gin.Context) {
	var req v1.WindowRequest
	if !bindBody(c, &req, req.Validate) {
		return
	}

	windows, err := s.Windows(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeQueryError(c, "windows", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"windows": windows})
}

// bindBody binds and validates a JSON request body, writing the error
// response itself. Returns false when the handler should stop.
func bindBody(c *gin.Context, req interface{}, validate func() error) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidJsonError,
			Message:   "Invalid JSON body",
			Details:   err.Error(),
		})
		return false
	}
	if err := validate(); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpValidationError,
			Message:   err.Error(),
		})
		return false
	}
	return true
}

// writeQueryError maps service errors onto the HTTP error shape.
func writeQueryError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, httperr.ErrorResponse{
			ErrorType: httperr.HttpColumnNotFoundError,
			Message:   "Column not found",
		})
	case errors.Is(err, timezone.ErrAmbiguousTime):
		c.JSON(http.StatusUnprocessableEntity, httperr.ErrorResponse{
			ErrorType: httperr.HttpAmbiguousTimeError,
			Message:   err.Error(),
		})
	case errors.Is(err, timezone.ErrNonexistentTime):
		c.JSON(http.StatusUnprocessableEntity, httperr.ErrorResponse{
			ErrorType: httperr.HttpNonexistentTimeError,
			Message:   err.Error(),
		})
	case errors.Is(err, ErrInvalidQuery):
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpValidationError,
			Message:   err.Error(),
		})
	default:
		slog.Error("Query operation failed", "op", op, "error", err)
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpInternalError,
			Message:   "Operation failed",
		})
	}
}
