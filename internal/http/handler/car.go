package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"carcatalog/internal/model"
	"carcatalog/internal/service"
)

// carListResponse wraps list results for the presentation layer.
type carListResponse struct {
	Data  []model.Car `json:"data"`
	Total int         `json:"total"`
}

// ListCars handles GET /cars. Optional query parameters collapse the three
// read paths into one endpoint: ?filter= narrows by category (optionally
// combined with ?search=), ?search= alone free-text matches, and neither
// returns the full active catalog.
func ListCars(svc service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		search := c.Query("search")
		filter := c.Query("filter")

		var (
			cars []model.Car
			err  error
		)
		switch {
		case filter != "":
			cars, err = svc.FilterCars(c.UserContext(), filter, search)
		case search != "":
			cars, err = svc.SearchCars(c.UserContext(), search)
		default:
			cars, err = svc.GetAllCars(c.UserContext())
		}
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(carListResponse{Data: cars, Total: len(cars)})
	}
}

// GetCar handles GET /cars/:id.
func GetCar(svc service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		car, err := svc.GetCarByID(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(car)
	}
}

// CreateCar handles POST /cars (administrator only).
func CreateCar(svc service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var car model.Car
		if err := c.BodyParser(&car); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse car payload")
		}
		id, err := svc.AddCar(c.UserContext(), &car)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
	}
}

// UpdateCar handles PUT /cars/:id (administrator only).
func UpdateCar(svc service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var car model.Car
		if err := c.BodyParser(&car); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse car payload")
		}
		car.ID = id

		rows, err := svc.UpdateCar(c.UserContext(), &car)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"rows_affected": rows})
	}
}

// DeleteCar handles DELETE /cars/:id (administrator only, soft delete).
func DeleteCar(svc service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if _, err := svc.DeleteCar(c.UserContext(), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// UploadCarImage handles POST /cars/:id/image (administrator only,
// multipart/form-data, field name: image).
func UploadCarImage(svc service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		fh, err := c.FormFile("image")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "IMAGE_REQUIRED", "image file is required")
		}
		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "IMAGE_OPEN_ERROR", "cannot open uploaded image")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		car, err := svc.UploadImage(c.UserContext(), id, f, fh.Filename, ct, fh.Size)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(car)
	}
}

// CarImageURL handles GET /cars/:id/image and returns a presigned download
// URL for the listing image.
func CarImageURL(svc service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		url, err := svc.ImageURL(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"url": url})
	}
}

// GetStats handles GET /stats.
func GetStats(svc service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stats, err := svc.Stats(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(stats)
	}
}

func parseID(c *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("id"), 10, 64)
}
