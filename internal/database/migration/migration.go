package migration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"carcatalog/internal/model"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_table_cars",
		SQL: `CREATE TABLE IF NOT EXISTS cars (
  id           BIGSERIAL        PRIMARY KEY,
  make         TEXT             NOT NULL,
  model        TEXT             NOT NULL,
  year         INTEGER          NOT NULL,
  price        NUMERIC(12,2)    NOT NULL CHECK (price >= 0),
  color        TEXT             NOT NULL,
  image_name   TEXT,
  description  TEXT,
  mileage      TEXT,
  fuel_type    TEXT,
  transmission TEXT,
  created_date TIMESTAMPTZ      NOT NULL DEFAULT now(),
  updated_date TIMESTAMPTZ,
  created_by   TEXT,
  is_active    BOOLEAN          NOT NULL DEFAULT TRUE
);`,
	},
	{
		Name: "create_index_cars_created_date",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_cars_created_date ON cars (created_date DESC);`,
	},
	{
		Name: "create_index_cars_make",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_cars_make ON cars (make);`,
	},
	{
		Name: "create_index_cars_is_active",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_cars_is_active ON cars (is_active);`,
	},
}

// seedCars is the baseline catalog inserted into an empty table, attributed
// to the "System" creator. The set spans distinct makes, fuel types, and
// price bands so search, filter, and statistics have data to chew on from
// the first start.
var seedCars = []model.Car{
	{
		Make: "Toyota", Model: "Camry", Year: 2022, Price: 25000, Color: "Silver",
		ImageName:   "car_camry.png",
		Description: "Reliable and fuel-efficient sedan perfect for daily commuting.",
		Mileage:     "15,000 miles", FuelType: "Gasoline", Transmission: "Automatic",
	},
	{
		Make: "Honda", Model: "Civic", Year: 2021, Price: 22000, Color: "Blue",
		ImageName:   "car_civic.png",
		Description: "Sporty and efficient compact car with excellent resale value.",
		Mileage:     "18,500 miles", FuelType: "Gasoline", Transmission: "CVT",
	},
	{
		Make: "Ford", Model: "F-150", Year: 2023, Price: 35000, Color: "Red",
		ImageName:   "car_f150.png",
		Description: "Powerful pickup truck perfect for work and recreation.",
		Mileage:     "8,000 miles", FuelType: "Gasoline", Transmission: "Automatic",
	},
	{
		Make: "BMW", Model: "X5", Year: 2022, Price: 55000, Color: "Black",
		ImageName:   "car_x5.png",
		Description: "Luxury SUV with premium features and excellent performance.",
		Mileage:     "12,000 miles", FuelType: "Gasoline", Transmission: "Automatic",
	},
	{
		Make: "Tesla", Model: "Model 3", Year: 2023, Price: 45000, Color: "White",
		ImageName:   "car_model3.png",
		Description: "Electric vehicle with cutting-edge technology and zero emissions.",
		Mileage:     "5,000 miles", FuelType: "Electric", Transmission: "Automatic",
	},
}

const seedCreator = "System"

// EnsureSchema checks whether the 'cars' table exists and runs the schema
// steps if it does not. Existing data is never dropped or altered.
func EnsureSchema(ctx context.Context, db *sql.DB, loc *time.Location, dbHost string) error {
	start := time.Now()

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_check",
		"status":    "starting",
		"db_host":   dbHost,
	})

	var exists bool
	query := "SELECT to_regclass('public.cars') IS NOT NULL"
	if err := db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		logJSON(loc, map[string]any{
			"component":     "database",
			"event":         "db_migration_failed",
			"status":        "error",
			"error_message": fmt.Sprintf("failed to check sentinel table: %v", err),
			"db_host":       dbHost,
			"duration_ms":   time.Since(start).Milliseconds(),
		})
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		logJSON(loc, map[string]any{
			"component":   "database",
			"event":       "db_migration_skip",
			"status":      "success",
			"msg":         "schema already exists, skipping migration",
			"db_host":     dbHost,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil
	}

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			logJSON(loc, map[string]any{
				"component":        "database",
				"event":            "db_migration_failed",
				"status":           "error",
				"migration_step":   step.Name,
				"error_message":    err.Error(),
				"db_host":          dbHost,
				"duration_ms":      time.Since(start).Milliseconds(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			})
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		logJSON(loc, map[string]any{
			"component":        "database",
			"event":            "db_migration_step",
			"status":           "success",
			"migration_step":   step.Name,
			"db_host":          dbHost,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	logJSON(loc, map[string]any{
		"component":   "database",
		"event":       "db_migration_success",
		"status":      "success",
		"db_host":     dbHost,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return nil
}

// SeedIfEmpty inserts the baseline sample listings when the cars table holds
// zero rows. The count guard makes the call idempotent across restarts: once
// any row exists, including rows the seed did not create, nothing is
// inserted again.
func SeedIfEmpty(ctx context.Context, db *sql.DB, loc *time.Location) error {
	var count int64
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM cars").Scan(&count); err != nil {
		return fmt.Errorf("failed to count cars: %w", err)
	}
	if count > 0 {
		logJSON(loc, map[string]any{
			"component": "database",
			"event":     "db_seed_skip",
			"status":    "success",
			"msg":       "catalog already populated, skipping seed",
			"rows":      count,
		})
		return nil
	}

	const q = `INSERT INTO cars
  (make, model, year, price, color, image_name, description, mileage, fuel_type, transmission, created_date, created_by, is_active)
  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, TRUE)`

	now := time.Now().UTC()
	for _, car := range seedCars {
		if _, err := db.ExecContext(ctx, q,
			car.Make, car.Model, car.Year, car.Price, car.Color,
			car.ImageName, car.Description, car.Mileage, car.FuelType, car.Transmission,
			now, seedCreator,
		); err != nil {
			return fmt.Errorf("failed to seed car %s: %w", car.FullName(), err)
		}
	}

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_seed_success",
		"status":    "success",
		"rows":      len(seedCars),
	})
	return nil
}

func logJSON(loc *time.Location, data map[string]any) {
	data["ts"] = time.Now().In(loc).Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		if data["status"] == "error" {
			data["level"] = "error"
		} else {
			data["level"] = "info"
		}
	}

	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal migration log: %v", err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
