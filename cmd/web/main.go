// @title           Art Nuggets API
// @version         1.0
// @description     REST API платформы Art Nuggets: курсы для творческих профессионалов и AI-анализ контрактов (документация Swagger).
// @contact.name    Art Nuggets
// @contact.email   support@artnuggets.com
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:8000
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import "artnuggets/internal/app"

func main() {
	app.Run()
}
