package routes

import (
	"net/http"
	"time"

	"github.com/OFFIS-RIT/letternet/pkg/common"

	"github.com/labstack/echo/v4"
)

// GetRecordsHandler describes the current record set.
func GetRecordsHandler(c echo.Context) error {
	type recordsResponse struct {
		Version    string            `json:"version"`
		Source     string            `json:"source"`
		LoadedAt   time.Time         `json:"loaded_at"`
		Statistics common.Statistics `json:"statistics"`
	}

	set, err := recordSet(c)
	if set == nil {
		return err
	}

	return c.JSON(http.StatusOK, recordsResponse{
		Version:    set.Version(),
		Source:     set.Source(),
		LoadedAt:   set.LoadedAt(),
		Statistics: set.Statistics(),
	})
}

// GetRecordHandler returns one record by shelfmark.
func GetRecordHandler(c echo.Context) error {
	type recordData struct {
		Shelfmark string `param:"shelfmark" validate:"required"`
	}

	data := new(recordData)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid request params"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid request params"})
	}

	set, err := recordSet(c)
	if set == nil {
		return err
	}

	record, ok := set.ByShelfmark(data.Shelfmark)
	if !ok {
		return c.JSON(http.StatusNotFound, errorResponse{Error: "Record not found"})
	}
	return c.JSON(http.StatusOK, record)
}

// GetCorrespondenceHandler lists the letters from sender to addressee. When
// no addressee is given it lists the sender's addressees instead.
func GetCorrespondenceHandler(c echo.Context) error {
	type correspondenceData struct {
		Sender    string `query:"sender" validate:"required"`
		Addressee string `query:"addressee"`
	}

	type correspondenceResponse struct {
		Sender     string          `json:"sender"`
		Addressee  string          `json:"addressee,omitempty"`
		Addressees []string        `json:"addressees,omitempty"`
		Letters    []common.Record `json:"letters,omitempty"`
	}

	data := new(correspondenceData)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid request params"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid request params"})
	}

	set, err := recordSet(c)
	if set == nil {
		return err
	}

	res := correspondenceResponse{Sender: data.Sender, Addressee: data.Addressee}
	if data.Addressee == "" {
		res.Addressees = set.AddresseesOf(data.Sender)
	} else {
		res.Letters = set.Correspondence(data.Sender, data.Addressee)
	}
	return c.JSON(http.StatusOK, res)
}
