// Package cases models the legal cases a donor can contribute towards. The
// contribution flow only reads them.
package cases

import (
	"context"
	"errors"
)

// ErrCaseNotFound is returned when no case has the requested id.
var ErrCaseNotFound = errors.New("case not found")

// Status is the court status shown in the case summary panel.
type Status string

const (
	StatusActive  Status = "active"
	StatusPending Status = "pending"
	StatusWon     Status = "won"
	StatusClosed  Status = "closed"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusPending, StatusWon, StatusClosed:
		return true
	}
	return false
}

// Case is the read-only summary of a case.
type Case struct {
	ID          string
	Title       string
	Description string
	ImageURL    string
	Status      Status
	CourtName   string
}

// Repository is the case-detail lookup.
type Repository interface {
	GetCase(ctx context.Context, id string) (*Case, error)
}
