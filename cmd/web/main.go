// @title           Pareto Fellowship API
// @version         1.0
// @description     Applications, admin review and the fellow portal.
// @contact.name    Pareto Fellowship
// @contact.email   team@paretofellowship.org
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"github.com/joho/godotenv"

	"pareto_backend/internal/app"
)

func main() {
	_ = godotenv.Load()
	app.Run()
}
