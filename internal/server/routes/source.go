package routes

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"vanshavali/internal/server/middleware"
	"vanshavali/pkg/ingest"
	"vanshavali/pkg/loader"
	"vanshavali/pkg/logger"

	"github.com/labstack/echo/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// sourceRecords resolves the records for a request: an uploaded "file"
// form part when present (CSV or xlsx by extension), otherwise the
// inline text field. The upload is staged to a temp file so the loader
// chain handles it like any on-disk source.
func sourceRecords(c echo.Context, inline string, sheet string) ([]ingest.Record, error) {
	upload, err := c.FormFile("file")
	if err != nil {
		// no file part, fall back to inline text
		return ingest.Ingest(inline)
	}

	src, err := upload.Open()
	if err != nil {
		return nil, fmt.Errorf("could not open upload: %w", err)
	}
	defer src.Close()

	ext := strings.ToLower(filepath.Ext(upload.Filename))
	tmp, err := os.CreateTemp("", "records-*"+ext)
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		return nil, err
	}

	id, err := gonanoid.New()
	if err != nil {
		return nil, err
	}

	app := c.(*middleware.AppContext).App
	ctx := c.Request().Context()

	switch ext {
	case ".xlsx", ".xlsm":
		file := loader.NewExcelSourceFile(loader.NewSourceFileParams{
			ID:       id,
			FilePath: tmp.Name(),
			Sheet:    sheet,
			Loader:   app.ExcelLoader,
		})
		defer app.FileLoader.Evict(file)

		// decoded sheet rows map positionally onto the schema; the
		// decoder drops trailing empty cells, so narrow rows are padded
		rows, err := app.ExcelLoader.GetSheetRows(ctx, file)
		if err != nil {
			logger.Error("Failed to load uploaded workbook", "name", upload.Filename, "err", err)
			return nil, err
		}
		return ingest.IngestRowsPadded(rows)
	default:
		file := loader.NewCSVSourceFile(loader.NewSourceFileParams{
			ID:       id,
			FilePath: tmp.Name(),
			Loader:   app.CSVLoader,
		})
		defer func() {
			app.CSVLoader.Evict(file)
			app.FileLoader.Evict(file)
		}()

		content, err := file.GetText(ctx)
		if err != nil {
			logger.Error("Failed to load uploaded file", "name", upload.Filename, "err", err)
			return nil, err
		}
		return ingest.Ingest(string(content))
	}
}
