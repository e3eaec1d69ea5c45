package feed

import (
	"fmt"
	"strings"

	"github.com/TechTeamScibotix/iqautodeals-sync/internal/model"
)

// vautoAdapter maps vAuto-style exports: snake_case headers, photo list
// comma-delimited inside one quoted cell.
type vautoAdapter struct{}

func (vautoAdapter) Kind() string { return "vauto" }

func (vautoAdapter) FeedPath(cfg model.DealerFeedConfig) string {
	if cfg.FeedPath != "" {
		return cfg.FeedPath
	}
	return "/export/vauto_inventory.csv"
}

func (vautoAdapter) Map(rec Record) (model.FeedVehicle, error) {
	vin := strings.ToUpper(rec["vin"])
	if !vinValid(vin) {
		return model.FeedVehicle{}, fmt.Errorf("invalid VIN %q", rec["vin"])
	}

	year, err := atoiLoose(rec["year"])
	if err != nil {
		return model.FeedVehicle{}, fmt.Errorf("vin %s: bad year %q", vin, rec["year"])
	}
	odometer, err := atoiLoose(rec["odometer"])
	if err != nil {
		return model.FeedVehicle{}, fmt.Errorf("vin %s: bad odometer %q", vin, rec["odometer"])
	}
	price, err := parsePrice(rec["price"])
	if err != nil {
		return model.FeedVehicle{}, fmt.Errorf("vin %s: bad price %q", vin, rec["price"])
	}
	msrp, err := parsePrice(rec["msrp"])
	if err != nil {
		return model.FeedVehicle{}, fmt.Errorf("vin %s: bad msrp %q", vin, rec["msrp"])
	}

	return model.FeedVehicle{
		VIN:          vin,
		Make:         rec["make"],
		Model:        rec["model"],
		Year:         year,
		Mileage:      odometer,
		Color:        rec["exterior_color"],
		Transmission: rec["transmission"],
		Drivetrain:   rec["drive_type"],
		Engine:       rec["engine"],
		BodyType:     rec["body_style"],
		SalePrice:    price,
		MSRP:         msrp,
		Description:  rec["description"],
		PhotoURLs:    SplitList(rec["photos"], ","),
		City:         rec["dealer_city"],
		State:        rec["dealer_state"],

		RawFuelType:  rec["fuel"],
		RawNewUsed:   rec["new_used"],
		RawTrim:      rec["trim_level"],
		RawSeries:    rec["series"],
		RawCertified: parseBool(rec["cpo"]),
	}, nil
}
