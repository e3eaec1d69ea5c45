// Package sync reconciles dealer feed files against the vehicle catalog.
package sync

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/TechTeamScibotix/iqautodeals-sync/internal/model"
	"github.com/TechTeamScibotix/iqautodeals-sync/internal/normalize"
	"github.com/TechTeamScibotix/iqautodeals-sync/internal/store"
)

// Catalog is the slice of the vehicle store the engine needs.
type Catalog interface {
	ListVINs(ctx context.Context, dealerID string) (map[string]store.VINEntry, error)
	Create(ctx context.Context, v *model.Vehicle) error
	Update(ctx context.Context, id string, v *model.Vehicle, includeDescription bool) error
	MarkSold(ctx context.Context, id string) error
}

// PhotoMigrator re-hosts feed photos; it degrades internally and never fails.
type PhotoMigrator interface {
	Migrate(ctx context.Context, vehicleKey string, srcURLs []string) []string
}

// Describer produces a description and reports whether it was generated.
type Describer interface {
	Describe(ctx context.Context, v model.FeedVehicle, fallback string) (string, bool)
}

// Engine applies one parsed feed to one dealer's catalog.
//
// Per VIN the classification is: in feed but not catalog → create; in both
// with an unprotected description → full update; in both with a protected
// description → update excluding description; in catalog but not feed →
// mark sold. Record-level failures are accumulated and never stop the batch.
type Engine struct {
	catalog Catalog
	photos  PhotoMigrator
	desc    Describer
	log     zerolog.Logger
}

// NewEngine wires the engine. photos and desc may be nil; the affected
// records then keep their feed photo URLs and feed description text.
func NewEngine(catalog Catalog, photos PhotoMigrator, desc Describer, log zerolog.Logger) *Engine {
	return &Engine{catalog: catalog, photos: photos, desc: desc, log: log}
}

// Reconcile diffs the feed's VIN set against the dealer's catalog and applies
// create/update/mark-sold effects. It returns a result even on partial
// failure; only a failed catalog snapshot aborts it.
func (e *Engine) Reconcile(ctx context.Context, dealerID, feedID string, recs []model.FeedVehicle) (*model.SyncResult, error) {
	result := &model.SyncResult{
		Success:     true,
		DealerID:    dealerID,
		FeedID:      feedID,
		TotalInFeed: len(recs),
		Errors:      []string{},
	}

	existing, err := e.catalog.ListVINs(ctx, dealerID)
	if err != nil {
		return nil, fmt.Errorf("load catalog for dealer %s: %w", dealerID, err)
	}

	feedVINs := make(map[string]struct{}, len(recs))
	for _, rec := range recs {
		if err := ctx.Err(); err != nil {
			// Cancelled between records: applied writes stay committed, the
			// partial result goes back to the reporter.
			result.Success = false
			result.Errors = append(result.Errors, fmt.Sprintf("run cancelled: %v", err))
			return result, nil
		}

		feedVINs[rec.VIN] = struct{}{}

		if err := e.applyRecord(ctx, dealerID, rec, existing, result); err != nil {
			e.log.Warn().Err(err).Str("dealer", dealerID).Str("vin", rec.VIN).Msg("record sync failed, continuing")
			result.Errors = append(result.Errors, fmt.Sprintf("vin %s: %v", rec.VIN, err))
		}
	}

	// Catalog VINs absent from the feed have left the lot. The status guard
	// in MarkSold plus the not-already-sold filter here keep this a
	// set-membership diff, idempotent across repeated runs.
	for vin, entry := range existing {
		if _, inFeed := feedVINs[vin]; inFeed {
			continue
		}
		if entry.Status == model.StatusSold {
			continue
		}
		if err := ctx.Err(); err != nil {
			result.Success = false
			result.Errors = append(result.Errors, fmt.Sprintf("run cancelled: %v", err))
			return result, nil
		}
		if err := e.catalog.MarkSold(ctx, entry.ID); err != nil {
			e.log.Warn().Err(err).Str("dealer", dealerID).Str("vin", vin).Msg("mark sold failed, continuing")
			result.Errors = append(result.Errors, fmt.Sprintf("vin %s: mark sold: %v", vin, err))
			continue
		}
		result.MarkedSold++
	}

	return result, nil
}

// applyRecord normalizes one feed record and writes it as a create or update.
func (e *Engine) applyRecord(ctx context.Context, dealerID string, rec model.FeedVehicle, existing map[string]store.VINEntry, result *model.SyncResult) error {
	entry, known := existing[rec.VIN]
	protected := known && entry.DescriptionGenerated

	v := e.buildVehicle(ctx, dealerID, rec)

	// The description is only worth resolving when it will be written:
	// protected records skip the field entirely, so no generative call and no
	// feed-text overwrite.
	if !protected {
		if e.desc != nil {
			v.Description, v.DescriptionGenerated = e.desc.Describe(ctx, rec, rec.Description)
		} else {
			v.Description = rec.Description
		}
	}

	if !known {
		if err := e.catalog.Create(ctx, v); err != nil {
			return err
		}
		result.Created++
		return nil
	}

	if err := e.catalog.Update(ctx, entry.ID, v, !protected); err != nil {
		return err
	}
	result.Updated++
	return nil
}

// buildVehicle derives the canonical field set from a feed record.
func (e *Engine) buildVehicle(ctx context.Context, dealerID string, rec model.FeedVehicle) *model.Vehicle {
	lat, lon := normalize.Geo(rec.City, rec.State)

	v := &model.Vehicle{
		DealerID:     dealerID,
		VIN:          rec.VIN,
		Make:         rec.Make,
		Model:        rec.Model,
		Year:         rec.Year,
		Trim:         normalize.Trim(rec.RawTrim, rec.RawSeries),
		Mileage:      rec.Mileage,
		Color:        rec.Color,
		Transmission: rec.Transmission,
		Drivetrain:   rec.Drivetrain,
		Engine:       rec.Engine,
		FuelType:     normalize.FuelType(rec.RawFuelType, rec.Engine, rec.Model),
		BodyType:     rec.BodyType,
		Condition:    normalize.Condition(rec.RawCertified, rec.Mileage, rec.RawNewUsed),
		SalePrice:    rec.SalePrice,
		MSRP:         rec.MSRP,
		PhotoURLs:    rec.PhotoURLs,
		City:         rec.City,
		State:        rec.State,
		Latitude:     lat,
		Longitude:    lon,
		Status:       model.StatusActive,
		Slug:         normalize.Slug(rec.VIN, rec.Year, rec.Make, rec.Model, rec.City, rec.State),
	}

	if e.photos != nil {
		v.PhotoURLs = e.photos.Migrate(ctx, fmt.Sprintf("%s-%s", dealerID, rec.VIN), rec.PhotoURLs)
	}

	return v
}
