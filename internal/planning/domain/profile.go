package domain

import (
	"time"

	"github.com/google/uuid"

	sharedDomain "github.com/taskflow-app/taskflow/internal/shared/domain"
)

// DefaultBurnoutThreshold is the daily effort cap assigned to new profiles.
const DefaultBurnoutThreshold = 15

// Profile holds a user's scheduling preferences: the weekly availability
// windows and the daily burnout threshold.
type Profile struct {
	sharedDomain.BaseAggregateRoot
	userID           uuid.UUID
	availability     WeeklyAvailability
	burnoutThreshold int
}

// NewProfile creates a profile with the default availability and threshold.
func NewProfile(userID uuid.UUID) *Profile {
	return &Profile{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		userID:            userID,
		availability:      DefaultWeeklyAvailability(),
		burnoutThreshold:  DefaultBurnoutThreshold,
	}
}

func (p *Profile) UserID() uuid.UUID                { return p.userID }
func (p *Profile) Availability() WeeklyAvailability { return p.availability }
func (p *Profile) BurnoutThreshold() int            { return p.burnoutThreshold }

// UpdateAvailability replaces the weekly schedule from raw user input,
// applying the per-field lenient parse of ParseWeeklyAvailability.
func (p *Profile) UpdateAvailability(inputs [7]WindowInput) {
	p.availability = ParseWeeklyAvailability(inputs)
	p.Touch()
	p.AddDomainEvent(NewAvailabilityUpdated(p.ID(), p.userID))
}

// SetBurnoutThreshold replaces the daily effort cap.
func (p *Profile) SetBurnoutThreshold(threshold int) error {
	if threshold <= 0 {
		return ErrInvalidThreshold
	}
	p.burnoutThreshold = threshold
	p.Touch()
	return nil
}

// RehydrateProfile recreates a profile from persisted state.
func RehydrateProfile(
	id uuid.UUID,
	userID uuid.UUID,
	availability WeeklyAvailability,
	burnoutThreshold int,
	createdAt, updatedAt time.Time,
) *Profile {
	return &Profile{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(
			sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt),
		),
		userID:           userID,
		availability:     availability,
		burnoutThreshold: burnoutThreshold,
	}
}
