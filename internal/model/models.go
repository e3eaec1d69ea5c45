// Package model defines shared data structures for the inventory sync service.
package model

import "time"

// DealerFeedConfig mirrors the dealer_feed_configs table row relevant to syncing.
// Rows are created and edited by the dealer-facing settings UI; this service
// only reads them and writes the last_sync_* columns at the end of every run.
type DealerFeedConfig struct {
	ID           string
	DealerID     string
	FeedKind     string // adapter discriminator: "homenet", "vauto"
	FeedPath     string // remote path on the SFTP server; empty = adapter default
	SFTPHost     string
	SFTPPort     int
	SFTPUsername string
	SFTPPassword string
	IsActive     bool
	LastSyncAt   *time.Time
	LastSyncOK   *bool
	LastSyncMsg  string
}

// FeedVehicle is the adapter-produced intermediate record: one row of a feed
// file mapped onto a common shape, before normalization. Raw* fields keep the
// source text the Normalization Engine derives canonical values from.
type FeedVehicle struct {
	VIN          string
	Make         string
	Model        string
	Year         int
	Mileage      int
	Color        string
	Transmission string
	Drivetrain   string
	Engine       string
	BodyType     string
	SalePrice    float64
	MSRP         float64
	Description  string
	PhotoURLs    []string
	City         string
	State        string

	RawFuelType  string // explicit fuel column, often empty or junk
	RawNewUsed   string // feed's new/used claim, not trusted as-is
	RawTrim      string // detailed sub-trim column
	RawSeries    string // coarser series column
	RawCertified bool   // certified-pre-owned flag
}

// Vehicle mirrors a vehicles table row. (dealer_id, vin) is unique — the
// central invariant the reconciliation engine preserves.
type Vehicle struct {
	ID                   string
	DealerID             string
	VIN                  string
	Make                 string
	Model                string
	Year                 int
	Trim                 string
	Mileage              int
	Color                string
	Transmission         string
	Drivetrain           string
	Engine               string
	FuelType             string
	BodyType             string
	Condition            string
	SalePrice            float64
	MSRP                 float64
	Description          string
	DescriptionGenerated bool // one-way: once true, feed text never overwrites Description
	PhotoURLs            []string
	City                 string
	State                string
	Latitude             float64
	Longitude            float64
	Status               Status
	StatusChangedAt      *time.Time
	Slug                 string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// SyncResult aggregates one run's outcome. It exists only for the duration of
// a run and is folded into DealerFeedConfig's last_sync_* columns at the end.
type SyncResult struct {
	Success     bool     `json:"success"`
	DealerID    string   `json:"dealerId"`
	FeedID      string   `json:"feedId"`
	TotalInFeed int      `json:"totalInFeed"`
	Created     int      `json:"created"`
	Updated     int      `json:"updated"`
	MarkedSold  int      `json:"markedSold"`
	Errors      []string `json:"errors"`
	DurationMs  int64    `json:"durationMs"`
}
