package feed

import (
	"fmt"
	"strings"

	"github.com/TechTeamScibotix/iqautodeals-sync/internal/model"
)

// homenetAdapter maps HomeNet-style exports: TitleCase headers, photo list
// pipe-delimited in a single cell.
type homenetAdapter struct{}

func (homenetAdapter) Kind() string { return "homenet" }

func (homenetAdapter) FeedPath(cfg model.DealerFeedConfig) string {
	if cfg.FeedPath != "" {
		return cfg.FeedPath
	}
	return "/feeds/inventory.csv"
}

func (homenetAdapter) Map(rec Record) (model.FeedVehicle, error) {
	vin := strings.ToUpper(rec["VIN"])
	if !vinValid(vin) {
		return model.FeedVehicle{}, fmt.Errorf("invalid VIN %q", rec["VIN"])
	}

	year, err := atoiLoose(rec["Year"])
	if err != nil {
		return model.FeedVehicle{}, fmt.Errorf("vin %s: bad Year %q", vin, rec["Year"])
	}
	miles, err := atoiLoose(rec["Miles"])
	if err != nil {
		return model.FeedVehicle{}, fmt.Errorf("vin %s: bad Miles %q", vin, rec["Miles"])
	}
	price, err := parsePrice(rec["ListPrice"])
	if err != nil {
		return model.FeedVehicle{}, fmt.Errorf("vin %s: bad ListPrice %q", vin, rec["ListPrice"])
	}
	msrp, err := parsePrice(rec["MSRP"])
	if err != nil {
		return model.FeedVehicle{}, fmt.Errorf("vin %s: bad MSRP %q", vin, rec["MSRP"])
	}

	return model.FeedVehicle{
		VIN:          vin,
		Make:         rec["Make"],
		Model:        rec["Model"],
		Year:         year,
		Mileage:      miles,
		Color:        rec["ExteriorColor"],
		Transmission: rec["Transmission"],
		Drivetrain:   rec["Drivetrain"],
		Engine:       rec["EngineDescription"],
		BodyType:     rec["Body"],
		SalePrice:    price,
		MSRP:         msrp,
		Description:  rec["Description"],
		PhotoURLs:    SplitList(rec["PhotoURLList"], "|"),
		City:         rec["DealerCity"],
		State:        rec["DealerState"],

		RawFuelType:  rec["FuelType"],
		RawNewUsed:   rec["Type"],
		RawTrim:      rec["Trim"],
		RawSeries:    rec["Series"],
		RawCertified: parseBool(rec["Certified"]),
	}, nil
}
