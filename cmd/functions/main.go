// Command functions serves only the /functions/v1 endpoints.
package main

import (
	"github.com/joho/godotenv"

	"pareto_backend/internal/app"
)

func main() {
	_ = godotenv.Load()
	app.RunFunctions()
}
