package routes

import (
	"net/http"

	"vanshavali/pkg/export"
	"vanshavali/pkg/logger"

	"github.com/labstack/echo/v4"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler renders a previously produced relationship table as a
// downloadable CSV or xlsx file.
func ExportHandler(c echo.Context) error {
	type exportBody struct {
		Format string     `json:"format" validate:"required,oneof=csv xlsx"`
		Sheet  string     `json:"sheet"`
		Rows   [][]string `json:"rows" validate:"required,min=1"`
	}

	type exportResponse struct {
		Message string `json:"message"`
	}

	data := new(exportBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, exportResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, exportResponse{
			Message: "Invalid request body",
		})
	}

	switch data.Format {
	case "xlsx":
		content, err := export.Excel(data.Rows, data.Sheet)
		if err != nil {
			logger.Error("Failed to render xlsx export", "err", err)
			return c.JSON(http.StatusInternalServerError, exportResponse{
				Message: "Internal server error",
			})
		}
		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="relationships.xlsx"`)
		return c.Blob(http.StatusOK, xlsxMIME, content)
	default:
		content, err := export.CSV(data.Rows)
		if err != nil {
			logger.Error("Failed to render csv export", "err", err)
			return c.JSON(http.StatusInternalServerError, exportResponse{
				Message: "Internal server error",
			})
		}
		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="relationships.csv"`)
		return c.Blob(http.StatusOK, "text/csv; charset=utf-8", content)
	}
}
