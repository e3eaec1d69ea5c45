// Package store persists the vehicle catalog and dealer feed configuration.
package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/TechTeamScibotix/iqautodeals-sync/internal/model"
)

// ErrDuplicateVIN is returned when a create would violate the (dealer_id, vin)
// uniqueness invariant.
var ErrDuplicateVIN = fmt.Errorf("vehicle already exists for this dealer and VIN")

// VINEntry is the slice of a catalog row the reconciliation engine needs up
// front: identity plus the customized-description flag and lifecycle status.
type VINEntry struct {
	ID                   string
	DescriptionGenerated bool
	Status               model.Status
}

// CatalogStore persists vehicles, keyed by (dealer_id, vin).
type CatalogStore struct {
	pool *pgxpool.Pool
}

// NewCatalogStore returns a configured CatalogStore.
func NewCatalogStore(pool *pgxpool.Pool) *CatalogStore {
	return &CatalogStore{pool: pool}
}

// ListVINs returns the dealer's full catalog keyed by VIN — the bulk
// "VIN + flag" read the engine diffs the feed against.
func (s *CatalogStore) ListVINs(ctx context.Context, dealerID string) (map[string]VINEntry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT vin, id, description_generated, status
		 FROM vehicles
		 WHERE dealer_id = $1`,
		dealerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list vins query: %w", err)
	}
	defer rows.Close()

	entries := make(map[string]VINEntry)
	for rows.Next() {
		var vin string
		var e VINEntry
		var status string
		if err := rows.Scan(&vin, &e.ID, &e.DescriptionGenerated, &status); err != nil {
			return nil, fmt.Errorf("list vins scan: %w", err)
		}
		e.Status = model.Status(status)
		entries[vin] = e
	}
	return entries, rows.Err()
}

// Create inserts a new catalog row. The WHERE NOT EXISTS guard makes the
// (dealer_id, vin) invariant hold even if two writers race; losing the race
// surfaces as ErrDuplicateVIN rather than a second row.
func (s *CatalogStore) Create(ctx context.Context, v *model.Vehicle) error {
	tag, err := s.pool.Exec(ctx,
		`INSERT INTO vehicles (
		   dealer_id, vin, make, model, year, trim, mileage, color,
		   transmission, drivetrain, engine, fuel_type, body_type, condition,
		   sale_price, msrp, description, description_generated, photo_urls,
		   city, state, latitude, longitude, status, status_changed_at, slug
		 )
		 SELECT $1, $2, $3, $4, $5, $6, $7, $8,
		        $9, $10, $11, $12, $13, $14,
		        $15, $16, $17, $18, $19,
		        $20, $21, $22, $23, 'active', NOW(), $24
		 WHERE NOT EXISTS (
		   SELECT 1 FROM vehicles WHERE dealer_id = $1 AND vin = $2
		 )`,
		v.DealerID, v.VIN, v.Make, v.Model, v.Year, v.Trim, v.Mileage, v.Color,
		v.Transmission, v.Drivetrain, v.Engine, v.FuelType, v.BodyType, v.Condition,
		v.SalePrice, v.MSRP, v.Description, v.DescriptionGenerated, v.PhotoURLs,
		v.City, v.State, v.Latitude, v.Longitude, v.Slug,
	)
	if err != nil {
		return fmt.Errorf("create vehicle %s: %w", v.VIN, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrDuplicateVIN
	}
	return nil
}

// Update rewrites the feed-owned fields of an existing row. Description and
// its generated flag are written only when includeDescription is true —
// protected descriptions are skipped entirely, not overwritten with
// themselves.
func (s *CatalogStore) Update(ctx context.Context, id string, v *model.Vehicle, includeDescription bool) error {
	var err error
	if includeDescription {
		_, err = s.pool.Exec(ctx,
			`UPDATE vehicles
			 SET make = $1, model = $2, year = $3, trim = $4, mileage = $5,
			     color = $6, transmission = $7, drivetrain = $8, engine = $9,
			     fuel_type = $10, body_type = $11, condition = $12,
			     sale_price = $13, msrp = $14, photo_urls = $15,
			     city = $16, state = $17, latitude = $18, longitude = $19,
			     slug = $20, status = 'active',
			     description = $21, description_generated = $22,
			     updated_at = NOW()
			 WHERE id = $23`,
			v.Make, v.Model, v.Year, v.Trim, v.Mileage,
			v.Color, v.Transmission, v.Drivetrain, v.Engine,
			v.FuelType, v.BodyType, v.Condition,
			v.SalePrice, v.MSRP, v.PhotoURLs,
			v.City, v.State, v.Latitude, v.Longitude,
			v.Slug,
			v.Description, v.DescriptionGenerated,
			id,
		)
	} else {
		_, err = s.pool.Exec(ctx,
			`UPDATE vehicles
			 SET make = $1, model = $2, year = $3, trim = $4, mileage = $5,
			     color = $6, transmission = $7, drivetrain = $8, engine = $9,
			     fuel_type = $10, body_type = $11, condition = $12,
			     sale_price = $13, msrp = $14, photo_urls = $15,
			     city = $16, state = $17, latitude = $18, longitude = $19,
			     slug = $20, status = 'active',
			     updated_at = NOW()
			 WHERE id = $21`,
			v.Make, v.Model, v.Year, v.Trim, v.Mileage,
			v.Color, v.Transmission, v.Drivetrain, v.Engine,
			v.FuelType, v.BodyType, v.Condition,
			v.SalePrice, v.MSRP, v.PhotoURLs,
			v.City, v.State, v.Latitude, v.Longitude,
			v.Slug,
			id,
		)
	}
	if err != nil {
		return fmt.Errorf("update vehicle %s: %w", id, err)
	}
	return nil
}

// MarkSold transitions a vehicle to sold exactly once. The status guard makes
// re-running against an unchanged feed a no-op, not a repeated write storm.
func (s *CatalogStore) MarkSold(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE vehicles
		 SET status = 'sold', status_changed_at = NOW(), updated_at = NOW()
		 WHERE id = $1 AND status <> 'sold'`,
		id,
	)
	if err != nil {
		return fmt.Errorf("mark sold %s: %w", id, err)
	}
	return nil
}
