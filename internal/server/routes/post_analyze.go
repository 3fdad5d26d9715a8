package routes

import (
	"errors"
	"net/http"

	"vanshavali/internal/server/middleware"
	"vanshavali/pkg/analyze"
	"vanshavali/pkg/ingest"
	"vanshavali/pkg/logger"

	"github.com/labstack/echo/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// AnalyzeHandler runs one analysis cycle over records supplied either as
// an uploaded file (multipart/form-data) or inline text.
func AnalyzeHandler(c echo.Context) error {
	type analyzeBody struct {
		Mode        string   `form:"mode" json:"mode" validate:"omitempty,oneof=local model"`
		Model       string   `form:"model" json:"model"`
		Temperature *float64 `form:"temperature" json:"temperature" validate:"omitempty,min=0,max=1"`
		MaxTokens   int      `form:"max_tokens" json:"max_tokens" validate:"omitempty,min=500,max=4000"`
		Sheet       string   `form:"sheet" json:"sheet"`
		CSVData     string   `form:"csv_data" json:"csv_data"`
	}

	type analyzeResponse struct {
		Message string          `json:"message"`
		RunID   string          `json:"run_id,omitempty"`
		Result  *analyze.Result `json:"result,omitempty"`
	}

	data := new(analyzeBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, analyzeResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, analyzeResponse{
			Message: "Invalid request body",
		})
	}

	records, err := sourceRecords(c, data.CSVData, data.Sheet)
	if err != nil {
		return c.JSON(http.StatusBadRequest, analyzeResponse{
			Message: "Could not read records from input",
		})
	}

	runID, err := gonanoid.New()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, analyzeResponse{
			Message: "Internal server error",
		})
	}

	ctx := c.Request().Context()
	analyzer := c.(*middleware.AppContext).App.Analyzer

	result, err := analyzer.Run(ctx, records, analyze.RunOptions{
		Mode:        analyze.Mode(data.Mode),
		Model:       data.Model,
		Temperature: data.Temperature,
		MaxTokens:   data.MaxTokens,
	})
	if err != nil {
		switch {
		case errors.Is(err, ingest.ErrEmptyInput):
			return c.JSON(http.StatusBadRequest, analyzeResponse{
				Message: "No records in input",
			})
		case errors.Is(err, analyze.ErrExternalService):
			logger.Error("Analysis failed against completion service", "run_id", runID, "err", err)
			return c.JSON(http.StatusBadGateway, analyzeResponse{
				Message: "Completion service unavailable or returned unusable output",
				RunID:   runID,
			})
		default:
			logger.Error("Analysis failed", "run_id", runID, "err", err)
			return c.JSON(http.StatusInternalServerError, analyzeResponse{
				Message: "Internal server error",
				RunID:   runID,
			})
		}
	}

	logger.Info("Analysis complete",
		"run_id", runID,
		"mode", data.Mode,
		"records", len(records),
		"rows", len(result.Rows),
	)

	return c.JSON(http.StatusOK, analyzeResponse{
		Message: "Analysis completed successfully",
		RunID:   runID,
		Result:  result,
	})
}
