package main

import (
	"vanshavali/internal/server"
	"vanshavali/internal/util"
	"vanshavali/pkg/logger"
	"vanshavali/pkg/logger/console"
)

func main() {
	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	server.Init()
}
