package routes

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/OFFIS-RIT/letternet/pkg/analysis"
	"github.com/OFFIS-RIT/letternet/pkg/views"

	"github.com/labstack/echo/v4"
)

type viewResponse struct {
	*analysis.Result
	Empty  bool `json:"empty"`
	Cached bool `json:"cached,omitempty"`
}

// ComputeViewHandler computes one view. The body is an analysis
// configuration; omitted fields keep their defaults.
func ComputeViewHandler(c echo.Context) error {
	type viewData struct {
		View string `param:"view" validate:"required"`
	}

	binder := &echo.DefaultBinder{}
	data := new(viewData)
	if err := binder.BindPathParams(c, data); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid request params"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid request params"})
	}

	cfg := analysis.DefaultConfig()
	if err := binder.BindBody(c, &cfg); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid configuration body"})
	}

	set, err := recordSet(c)
	if set == nil {
		return err
	}

	req := analysis.Request{View: views.Name(data.View), Config: cfg}
	res, hit, err := app(c).Cache.Run(c.Request().Context(), set, req)
	if err != nil {
		return analysisError(c, err)
	}
	return c.JSON(http.StatusOK, viewResponse{Result: res, Empty: res.Empty(), Cached: hit})
}

// ComputeViewsHandler computes several views in parallel. The whole batch
// is rejected when any request is invalid.
func ComputeViewsHandler(c echo.Context) error {
	type viewRequest struct {
		View   string          `json:"view" validate:"required"`
		Config json.RawMessage `json:"config"`
	}

	type viewsData struct {
		Requests []viewRequest `json:"requests" validate:"required,min=1,dive"`
	}

	type viewsResponse struct {
		Results []viewResponse `json:"results"`
	}

	data := new(viewsData)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid request params"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid request params"})
	}

	reqs := make([]analysis.Request, len(data.Requests))
	for i, r := range data.Requests {
		cfg := analysis.DefaultConfig()
		if len(r.Config) > 0 {
			if err := json.Unmarshal(r.Config, &cfg); err != nil {
				return c.JSON(http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("request %d: invalid configuration", i)})
			}
		}
		reqs[i] = analysis.Request{View: views.Name(r.View), Config: cfg}
	}

	set, err := recordSet(c)
	if set == nil {
		return err
	}

	a := app(c)
	results, err := a.Cache.RunAll(c.Request().Context(), set, reqs, a.ParallelViews)
	if err != nil {
		return analysisError(c, err)
	}

	res := viewsResponse{Results: make([]viewResponse, len(results))}
	for i, r := range results {
		res.Results[i] = viewResponse{Result: r, Empty: r.Empty()}
	}
	return c.JSON(http.StatusOK, res)
}
