package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"carcatalog/internal/model"
	"carcatalog/internal/repository"
)

// CarPostgres is a PostgreSQL implementation of repository.CarRepository.
// It uses database/sql with parameterized queries and contains no business
// logic.
type CarPostgres struct {
	db *sql.DB
}

// NewCarPostgres creates a new CarPostgres repository.
func NewCarPostgres(db *sql.DB) *CarPostgres {
	return &CarPostgres{db: db}
}

var _ repository.CarRepository = (*CarPostgres)(nil)

const carColumns = `id, make, model, year, price, color, image_name, description, mileage, fuel_type, transmission, created_date, updated_date, created_by, is_active`

const baseSelect = `SELECT ` + carColumns + ` FROM cars`

// orderClause fixes the listing order for every multi-row read: newest
// first, id as the tiebreak for rows created in the same instant.
const orderClause = ` ORDER BY created_date DESC, id DESC`

const searchPredicate = `(LOWER(make) LIKE $%d OR LOWER(model) LIKE $%d OR year::TEXT LIKE $%d)`

// GetAll returns the active listings, newest first.
func (r *CarPostgres) GetAll(ctx context.Context) ([]model.Car, error) {
	return r.queryCars(ctx, baseSelect+` WHERE is_active`+orderClause)
}

// GetByID fetches a single active listing. A soft-deleted row with a
// matching id yields sql.ErrNoRows, same as an absent one.
func (r *CarPostgres) GetByID(ctx context.Context, id int64) (*model.Car, error) {
	const q = baseSelect + ` WHERE id = $1 AND is_active`
	var car model.Car
	if err := scanCar(r.db.QueryRowContext(ctx, q, id), &car); err != nil {
		return nil, err
	}
	return &car, nil
}

// Insert stores a new listing, stamping creation time and the active flag.
// Any caller-supplied id is discarded; the storage-assigned identifier is
// returned.
func (r *CarPostgres) Insert(ctx context.Context, car *model.Car) (int64, error) {
	const q = `
		INSERT INTO cars (make, model, year, price, color, image_name, description, mileage, fuel_type, transmission, created_date, created_by, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, TRUE)
		RETURNING id
	`
	car.ID = 0
	car.CreatedDate = time.Now().UTC()
	car.UpdatedDate = nil
	car.IsActive = true

	row := r.db.QueryRowContext(ctx, q,
		car.Make, car.Model, car.Year, car.Price, car.Color,
		nullString(car.ImageName), nullString(car.Description), nullString(car.Mileage),
		nullString(car.FuelType), nullString(car.Transmission),
		car.CreatedDate, nullString(car.CreatedBy),
	)
	if err := row.Scan(&car.ID); err != nil {
		return 0, err
	}
	return car.ID, nil
}

// Update overwrites all mutable fields of the row matching car.ID and
// stamps UpdatedDate. Identifier and creation time are never touched.
func (r *CarPostgres) Update(ctx context.Context, car *model.Car) (int64, error) {
	const q = `
		UPDATE cars
		SET make = $1, model = $2, year = $3, price = $4, color = $5,
		    image_name = $6, description = $7, mileage = $8, fuel_type = $9,
		    transmission = $10, created_by = $11, is_active = $12, updated_date = $13
		WHERE id = $14
	`
	now := time.Now().UTC()
	car.UpdatedDate = &now

	res, err := r.db.ExecContext(ctx, q,
		car.Make, car.Model, car.Year, car.Price, car.Color,
		nullString(car.ImageName), nullString(car.Description), nullString(car.Mileage),
		nullString(car.FuelType), nullString(car.Transmission),
		nullString(car.CreatedBy), car.IsActive, now, car.ID,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// SoftDelete loads the active listing and flips it inactive through the
// update path, so UpdatedDate is stamped exactly as for any other mutation.
// Absent or already-inactive ids report 0 affected rows without error.
func (r *CarPostgres) SoftDelete(ctx context.Context, id int64) (int64, error) {
	car, err := r.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, err
	}
	car.IsActive = false
	return r.Update(ctx, car)
}

// Search matches make, model, or year-as-text case-insensitively. Blank
// text degenerates to GetAll.
func (r *CarPostgres) Search(ctx context.Context, text string) ([]model.Car, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return r.GetAll(ctx)
	}
	q := baseSelect + ` WHERE is_active AND ` + fmt.Sprintf(searchPredicate, 1, 1, 1) + orderClause
	return r.queryCars(ctx, q, likePattern(text))
}

// Filter narrows the active set by optional search text, then by the
// category predicate. CategoryAll adds no narrowing.
func (r *CarPostgres) Filter(ctx context.Context, category repository.FilterCategory, text string) ([]model.Car, error) {
	conds := []string{"is_active"}
	var args []any

	if text = strings.TrimSpace(text); text != "" {
		args = append(args, likePattern(text))
		n := len(args)
		conds = append(conds, fmt.Sprintf(searchPredicate, n, n, n))
	}

	switch category {
	case repository.CategoryUnder30K:
		conds = append(conds, "price < 30000")
	case repository.Category2022Plus:
		conds = append(conds, "year >= 2022")
	case repository.CategoryLuxury:
		conds = append(conds, "(make = 'BMW' OR make = 'Tesla' OR price > 40000)")
	case repository.CategoryElectric:
		conds = append(conds, "fuel_type = 'Electric'")
	case repository.CategoryGasoline:
		conds = append(conds, "fuel_type = 'Gasoline'")
	}

	q := baseSelect + ` WHERE ` + strings.Join(conds, " AND ") + orderClause
	return r.queryCars(ctx, q, args...)
}

// CountActive returns the number of active listings.
func (r *CarPostgres) CountActive(ctx context.Context) (int, error) {
	const q = `SELECT COUNT(*) FROM cars WHERE is_active`
	var count int
	if err := r.db.QueryRowContext(ctx, q).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// AveragePrice returns the mean active-listing price. COALESCE pins the
// empty-catalog result to exactly 0 instead of NULL.
func (r *CarPostgres) AveragePrice(ctx context.Context) (float64, error) {
	const q = `SELECT COALESCE(AVG(price), 0) FROM cars WHERE is_active`
	var avg float64
	if err := r.db.QueryRowContext(ctx, q).Scan(&avg); err != nil {
		return 0, err
	}
	return avg, nil
}

// UniqueMakes returns the distinct makes among active listings, ascending.
func (r *CarPostgres) UniqueMakes(ctx context.Context) ([]string, error) {
	const q = `SELECT DISTINCT make FROM cars WHERE is_active ORDER BY make ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	makes := make([]string, 0)
	for rows.Next() {
		var m string
		if err := rows.Scan(&m); err != nil {
			return nil, err
		}
		makes = append(makes, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return makes, nil
}

func (r *CarPostgres) queryCars(ctx context.Context, q string, args ...any) ([]model.Car, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cars := make([]model.Car, 0)
	for rows.Next() {
		var car model.Car
		if err := scanCar(rows, &car); err != nil {
			return nil, err
		}
		cars = append(cars, car)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return cars, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCar(row rowScanner, car *model.Car) error {
	var (
		imageName, description, mileage sql.NullString
		fuelType, transmission          sql.NullString
		createdBy                       sql.NullString
		updatedDate                     sql.NullTime
	)
	if err := row.Scan(
		&car.ID, &car.Make, &car.Model, &car.Year, &car.Price, &car.Color,
		&imageName, &description, &mileage, &fuelType, &transmission,
		&car.CreatedDate, &updatedDate, &createdBy, &car.IsActive,
	); err != nil {
		return err
	}
	car.ImageName = imageName.String
	car.Description = description.String
	car.Mileage = mileage.String
	car.FuelType = fuelType.String
	car.Transmission = transmission.String
	car.CreatedBy = createdBy.String
	if updatedDate.Valid {
		t := updatedDate.Time
		car.UpdatedDate = &t
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// likeEscaper neutralizes LIKE wildcards so search text matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(text string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(text)) + "%"
}
