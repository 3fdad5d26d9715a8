package routes

import (
	"net/http"

	"vanshavali/pkg/ingest"
	"vanshavali/pkg/prompt"

	"github.com/labstack/echo/v4"
)

// PreviewHandler parses the input without resolving relationships, so a
// client can show the normalized records before committing to a run.
func PreviewHandler(c echo.Context) error {
	type previewBody struct {
		Sheet   string `form:"sheet" json:"sheet"`
		CSVData string `form:"csv_data" json:"csv_data"`
	}

	type previewResponse struct {
		Message string          `json:"message"`
		Header  []string        `json:"header,omitempty"`
		Records []ingest.Record `json:"records,omitempty"`
		CSV     string          `json:"csv,omitempty"`
	}

	data := new(previewBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, previewResponse{
			Message: "Invalid request body",
		})
	}

	records, err := sourceRecords(c, data.CSVData, data.Sheet)
	if err != nil {
		return c.JSON(http.StatusBadRequest, previewResponse{
			Message: "Could not read records from input",
		})
	}

	return c.JSON(http.StatusOK, previewResponse{
		Message: "Parsed records successfully",
		Header:  ingest.Header,
		Records: records,
		CSV:     prompt.RenderCSV(records),
	})
}
