package routes

import (
	"net/http"

	"github.com/OFFIS-RIT/letternet/pkg/analysis"
	"github.com/OFFIS-RIT/letternet/pkg/dates"
	"github.com/OFFIS-RIT/letternet/pkg/views"

	"github.com/labstack/echo/v4"
)

// GetTimelineHandler returns letter counts, network evolution and the most
// active pairs over the whole corpus.
func GetTimelineHandler(c echo.Context) error {
	type timelineData struct {
		GroupBy string `query:"group_by" validate:"omitempty,oneof=day month year"`
		Top     int    `query:"top" validate:"min=0"`
	}

	type timelineResponse struct {
		Version string `json:"version"`
		analysis.TimelineReport
		Senders []views.SenderActivity `json:"senders"`
	}

	data := &timelineData{Top: analysis.DefaultConfig().TopPairs}
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid request params"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid request params"})
	}
	granularity, err := dates.ParseGranularity(data.GroupBy)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	set, err := recordSet(c)
	if set == nil {
		return err
	}

	tl := views.BuildTimeline(set.Records(), dates.Normalizer{})
	return c.JSON(http.StatusOK, timelineResponse{
		Version:        set.Version(),
		TimelineReport: analysis.NewTimelineReport(tl, granularity, data.Top),
		Senders:        tl.SenderActivity(granularity),
	})
}
