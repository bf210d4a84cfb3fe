package model

import (
	"fmt"
	"strings"
	"time"
)

// Car represents one listing in the catalog.
// This is a pure domain model with no database-specific dependencies or tags;
// it is shared across the repository, service, and HTTP layers.
type Car struct {
	ID    int64   `json:"id"`
	Make  string  `json:"make"`
	Model string  `json:"model"`
	Year  int     `json:"year"`
	Price float64 `json:"price"`
	Color string  `json:"color"`

	// Optional free-form attributes; empty string means not provided.
	ImageName    string `json:"image_name,omitempty"`
	Description  string `json:"description,omitempty"`
	Mileage      string `json:"mileage,omitempty"`
	FuelType     string `json:"fuel_type,omitempty"`
	Transmission string `json:"transmission,omitempty"`

	CreatedDate time.Time  `json:"created_date"`
	UpdatedDate *time.Time `json:"updated_date,omitempty"`
	CreatedBy   string     `json:"created_by,omitempty"`

	// IsActive is false for soft-deleted listings. Inactive rows are
	// excluded from every read path.
	IsActive bool `json:"is_active"`
}

// DefaultImage is served when a listing has no image of its own.
const DefaultImage = "camera_placeholder.png"

// DisplayImage returns the listing's image key, falling back to the
// placeholder for listings without one.
func (c *Car) DisplayImage() string {
	if strings.TrimSpace(c.ImageName) == "" {
		return DefaultImage
	}
	return c.ImageName
}

// FullName renders the listing title, e.g. "Toyota Camry (2022)".
func (c *Car) FullName() string {
	return fmt.Sprintf("%s %s (%d)", c.Make, c.Model, c.Year)
}
