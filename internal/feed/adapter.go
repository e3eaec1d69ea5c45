package feed

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/TechTeamScibotix/iqautodeals-sync/internal/model"
)

// Adapter maps one feed provider's column layout onto the common intermediate
// record. Implementations are stateless.
type Adapter interface {
	// Kind is the discriminator stored on DealerFeedConfig.
	Kind() string

	// FeedPath resolves the remote file path for a dealer, falling back to
	// the provider's conventional export name when the config leaves it blank.
	FeedPath(cfg model.DealerFeedConfig) string

	// Map converts a parsed row into a FeedVehicle. A missing VIN or a
	// malformed field that matters is a record-level error: the caller logs
	// it and moves on.
	Map(rec Record) (model.FeedVehicle, error)
}

// ForKind returns the adapter for a feed-kind discriminator. An unknown kind
// means the dealer config is pointed at the wrong adapter — that is a
// run-level misconfiguration, not a record problem.
func ForKind(kind string) (Adapter, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "homenet":
		return homenetAdapter{}, nil
	case "vauto":
		return vautoAdapter{}, nil
	}
	return nil, fmt.Errorf("unknown feed kind %q", kind)
}

// atoiLoose parses feed numerics that arrive as "12,345", "12345.0" or "".
// Empty is zero, not an error; genuinely malformed text is an error.
func atoiLoose(s string) (int, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, nil
	}
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

// parsePrice handles "$24,995.00" style cells. Empty is zero.
func parsePrice(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

// parseBool accepts the truthy spellings feeds actually use.
func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "y", "1", "t":
		return true
	}
	return false
}

// vinValid is a shape check, not a full ISO 3779 checksum: 17 chars,
// alphanumeric, no I/O/Q. Feeds with truncated or placeholder VINs fail here.
func vinValid(vin string) bool {
	if len(vin) != 17 {
		return false
	}
	for _, r := range strings.ToUpper(vin) {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'A' && r <= 'Z':
			if r == 'I' || r == 'O' || r == 'Q' {
				return false
			}
		default:
			return false
		}
	}
	return true
}
