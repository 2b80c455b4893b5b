package routes

import (
	"net/http"

	"github.com/OFFIS-RIT/letternet/internal/queue"
	"github.com/OFFIS-RIT/letternet/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ReloadRecordsHandler reloads the record source and announces the new
// set to the other replicas.
func ReloadRecordsHandler(c echo.Context) error {
	type reloadResponse struct {
		Message   string `json:"message"`
		Version   string `json:"version,omitempty"`
		Records   int    `json:"records,omitempty"`
		Published bool   `json:"published"`
	}

	ctx := c.Request().Context()
	a := app(c)

	set, err := a.Records.Reload(ctx)
	a.Metrics.ObserveReload(set, err)
	if err != nil {
		logger.Error("[Server] Reload failed", "source", a.Records.Source(), "err", err)
		return c.JSON(http.StatusBadGateway, reloadResponse{Message: "Failed to reload records"})
	}

	res := reloadResponse{Message: "Records reloaded", Version: set.Version(), Records: set.Len()}
	if a.Queue != nil {
		err := queue.PublishRecordsUpdated(ctx, a.Queue, queue.RecordsUpdatedMsg{
			Message: "Records reloaded",
			Origin:  a.InstanceID,
			Source:  set.Source(),
			Version: set.Version(),
			Records: set.Len(),
		})
		if err != nil {
			logger.Error("[Server] Failed to publish reload", "err", err)
		} else {
			res.Published = true
		}
	}

	return c.JSON(http.StatusOK, res)
}
