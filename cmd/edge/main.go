package main

import (
	"os"

	"artnuggets/internal/edge"
	"artnuggets/internal/logger"

	"github.com/joho/godotenv"
)

func main() {
	// .env опционален: в контейнере переменные приходят из окружения
	_ = godotenv.Load()

	env := os.Getenv("EDGE_ENV")
	if env == "" {
		env = "development"
	}
	logger.Init(env)

	edge.Run()
}
