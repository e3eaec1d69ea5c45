package model

import "fmt"

// Status values mirror the vehicle_status enum in PostgreSQL.
type Status string

const (
	StatusActive  Status = "active"
	StatusPending Status = "pending"
	StatusSold    Status = "sold"
)

// ParseStatus converts a raw string to a Status, returning an error for
// unknown values.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	switch st {
	case StatusActive, StatusPending, StatusSold:
		return st, nil
	}
	return "", fmt.Errorf("unknown vehicle status %q", s)
}
