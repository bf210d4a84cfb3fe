package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"carcatalog/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app. Handlers
// stay free of business logic; they translate between HTTP and the catalog
// and auth services.
func RegisterRoutes(app *fiber.App, db *sql.DB, catalogSvc service.CatalogService, authSvc service.AuthService) {
	// Serve OpenAPI spec and Swagger UI
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>Car Catalog API</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	app.Get("/cars", ListCars(catalogSvc))
	app.Post("/cars", CreateCar(catalogSvc))
	app.Get("/cars/:id", GetCar(catalogSvc))
	app.Put("/cars/:id", UpdateCar(catalogSvc))
	app.Delete("/cars/:id", DeleteCar(catalogSvc))
	app.Post("/cars/:id/image", UploadCarImage(catalogSvc))
	app.Get("/cars/:id/image", CarImageURL(catalogSvc))

	app.Get("/stats", GetStats(catalogSvc))

	app.Post("/auth/login", Login(authSvc))
	app.Post("/auth/logout", Logout(authSvc))
	app.Get("/session", Session(authSvc))
}
