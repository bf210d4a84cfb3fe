// Package repository contains the data access layer for the catalog.
// Implementations live in subpackages (e.g. postgres); no business logic
// belongs here.
package repository

import (
	"context"

	"carcatalog/internal/model"
)

// FilterCategory is the closed set of named predicate buckets a listing
// query can be narrowed by. External text is parsed into a category at the
// boundary via ParseCategory; everything past that point dispatches on the
// variant, never on raw strings.
type FilterCategory int

const (
	// CategoryAll applies no narrowing.
	CategoryAll FilterCategory = iota
	// CategoryUnder30K matches listings priced below 30000.
	CategoryUnder30K
	// Category2022Plus matches model year 2022 or newer.
	Category2022Plus
	// CategoryLuxury matches BMW, Tesla, or anything priced above 40000.
	CategoryLuxury
	// CategoryElectric matches listings with an Electric fuel type.
	CategoryElectric
	// CategoryGasoline matches listings with a Gasoline fuel type.
	CategoryGasoline
)

// ParseCategory maps a filter label to its category. Unrecognized labels
// fall through to CategoryAll: typos coming from the UI must not block a
// query, they just return the unfiltered listing set.
func ParseCategory(label string) FilterCategory {
	switch label {
	case "Under $30K":
		return CategoryUnder30K
	case "2022+":
		return Category2022Plus
	case "Luxury":
		return CategoryLuxury
	case "Electric":
		return CategoryElectric
	case "Gasoline":
		return CategoryGasoline
	default:
		return CategoryAll
	}
}

// String returns the UI label for the category.
func (f FilterCategory) String() string {
	switch f {
	case CategoryUnder30K:
		return "Under $30K"
	case Category2022Plus:
		return "2022+"
	case CategoryLuxury:
		return "Luxury"
	case CategoryElectric:
		return "Electric"
	case CategoryGasoline:
		return "Gasoline"
	default:
		return "All"
	}
}

// CarRepository defines persistence operations over car listings.
// Every read excludes soft-deleted rows, and every list result is ordered
// by creation time descending. Storage failures surface as errors; callers
// can always tell "no rows matched" from "the query failed".
type CarRepository interface {
	// GetAll returns the active listings, newest first.
	GetAll(ctx context.Context) ([]model.Car, error)

	// GetByID returns a single active listing, or sql.ErrNoRows when the id
	// is absent or points at a soft-deleted row.
	GetByID(ctx context.Context, id int64) (*model.Car, error)

	// Insert stores a new listing. Any caller-supplied ID is ignored; the
	// assigned identifier is returned and also written back to car.ID,
	// alongside CreatedDate and IsActive.
	Insert(ctx context.Context, car *model.Car) (int64, error)

	// Update overwrites all mutable fields of the row matching car.ID,
	// stamping UpdatedDate. Returns the number of rows affected, 0 when the
	// identifier does not exist.
	Update(ctx context.Context, car *model.Car) (int64, error)

	// SoftDelete marks a listing inactive through the update path. Returns
	// 0 when the id is absent or the row is already inactive.
	SoftDelete(ctx context.Context, id int64) (int64, error)

	// Search returns active listings whose make, model, or year (as text)
	// case-insensitively contains text. Blank text is equivalent to GetAll.
	Search(ctx context.Context, text string) ([]model.Car, error)

	// Filter narrows active listings by the optional search text and then
	// by the category predicate.
	Filter(ctx context.Context, category FilterCategory, text string) ([]model.Car, error)

	// CountActive returns the number of active listings.
	CountActive(ctx context.Context) (int, error)

	// AveragePrice returns the mean price over active listings, exactly 0
	// when there are none.
	AveragePrice(ctx context.Context) (float64, error)

	// UniqueMakes returns the distinct makes among active listings in
	// ascending lexical order.
	UniqueMakes(ctx context.Context) ([]string, error)
}
