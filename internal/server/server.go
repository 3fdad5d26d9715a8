package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mid "vanshavali/internal/server/middleware"
	"vanshavali/internal/util"
	"vanshavali/pkg/ai"
	oai "vanshavali/pkg/ai/ollama"
	gai "vanshavali/pkg/ai/openai"
	"vanshavali/pkg/analyze"
	loadercsv "vanshavali/pkg/loader/csv"
	"vanshavali/pkg/loader/excel"
	loaderio "vanshavali/pkg/loader/io"
	"vanshavali/pkg/logger"
	"vanshavali/pkg/prompt"

	"github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validator.Struct(i); err != nil {
		return err
	}
	return nil
}

func newCompletionClient() ai.CompletionClient {
	adapter := util.GetEnv("AI_ADAPTER")

	switch adapter {
	case "ollama":
		client, err := oai.NewCompletionOllamaClient(oai.NewCompletionOllamaClientParams{
			Model:   util.GetEnv("AI_CHAT_MODEL"),
			BaseURL: util.GetEnv("AI_CHAT_URL"),
			APIKey:  util.GetEnv("AI_CHAT_KEY"),

			MaxConcurrentRequests: int64(util.GetEnvNumeric("AI_PARALLEL_REQ", 1)),
		})
		if err != nil {
			logger.Fatal("Failed to create Ollama client", "err", err)
		}
		return client
	case "":
		if util.GetEnv("AI_CHAT_KEY") == "" {
			// local-only deployment, model mode will be rejected
			return nil
		}
		fallthrough
	default:
		return gai.NewCompletionOpenAIClient(gai.NewCompletionOpenAIClientParams{
			Model:   util.GetEnv("AI_CHAT_MODEL"),
			BaseURL: util.GetEnv("AI_CHAT_URL"),
			APIKey:  util.GetEnv("AI_CHAT_KEY"),
		})
	}
}

func loadExamples() []prompt.Example {
	path := util.GetEnv("EXAMPLES_PATH")
	if path == "" {
		return nil
	}
	examples, err := prompt.LoadExamples(path)
	if err != nil {
		logger.Warn("Failed to load examples file, using built-in", "path", path, "err", err)
		return nil
	}
	return examples
}

func Init() {
	e := echo.New()
	e.Validator = &CustomValidator{validator: validator.New()}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	aiClient := newCompletionClient()
	analyzer := analyze.NewAnalyzer(analyze.NewAnalyzerParams{
		Client:   aiClient,
		Examples: loadExamples(),
		MaxTries: int(util.GetEnvNumeric("AI_MAX_TRIES", 2)),
	})

	fileLoader := loaderio.NewIOSourceFileLoader()
	app := &mid.App{
		Analyzer: analyzer,
		AiClient: aiClient,

		FileLoader:  fileLoader,
		CSVLoader:   loadercsv.NewCSVSourceLoader(fileLoader),
		ExcelLoader: excel.NewExcelSourceLoader(fileLoader),
	}

	e.Use(mid.AppContextMiddleware(app))
	e.Use(middleware.CORS())
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("16M"))

	RegisterRoutes(e)

	go func() {
		port := util.GetEnvString("PORT", "8080")
		logger.Info("Starting server", "port", port)
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed shutting down server", "err", err)
		}
	}()

	<-ctx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown server", "err", err)
	}
}
