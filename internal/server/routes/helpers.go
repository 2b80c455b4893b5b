package routes

import (
	"context"
	"errors"
	"net/http"

	"github.com/OFFIS-RIT/letternet/internal/records"
	"github.com/OFFIS-RIT/letternet/internal/server/middleware"
	"github.com/OFFIS-RIT/letternet/pkg/analysis"
	"github.com/OFFIS-RIT/letternet/pkg/common"
	"github.com/OFFIS-RIT/letternet/pkg/logger"

	"github.com/labstack/echo/v4"
)

type errorResponse struct {
	Error string `json:"error"`
}

func app(c echo.Context) *middleware.App {
	return c.(*middleware.AppContext).App
}

// recordSet returns the current record set or writes 503 when none is
// loaded yet.
func recordSet(c echo.Context) (*common.RecordSet, error) {
	set, err := app(c).Records.Current()
	if errors.Is(err, records.ErrNotLoaded) {
		return nil, c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "Records not loaded"})
	}
	return set, err
}

// analysisError maps pipeline errors onto HTTP responses.
func analysisError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, analysis.ErrUnknownView):
		return c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, analysis.ErrInvalidConfiguration):
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "Request cancelled"})
	}
	logger.Error("[Server] Analysis failed", "path", c.Path(), "err", err)
	return c.JSON(http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
}
