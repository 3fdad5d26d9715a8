package middleware

import (
	"vanshavali/pkg/ai"
	"vanshavali/pkg/analyze"
	loadercsv "vanshavali/pkg/loader/csv"
	"vanshavali/pkg/loader/excel"
	loaderio "vanshavali/pkg/loader/io"

	"github.com/labstack/echo/v4"
)

// App bundles the long-lived dependencies handlers need: the analyzer,
// the completion client behind it, and the file loader chain for
// uploaded record tables.
type App struct {
	Analyzer *analyze.Analyzer
	AiClient ai.CompletionClient

	FileLoader  *loaderio.IOSourceFileLoader
	CSVLoader   *loadercsv.CSVSourceLoader
	ExcelLoader *excel.ExcelSourceLoader
}

type AppContext struct {
	echo.Context
	App *App
}

// AppContextMiddleware wraps every request context with the shared App.
func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cc := &AppContext{c, app}
			return next(cc)
		}
	}
}
