package domain

import (
	"context"
	"errors"
	"time"

	"github.com/airtime-lab/backend/internal/repository"
	"gorm.io/gorm"
)

// eligibilityResolver decides which tickets of a station enter a session
// draw. The window opens at the end of the last ended session of the station
// and closes now.
type eligibilityResolver struct {
	ticketRepo  repository.TicketRepository
	sessionRepo repository.ShowSessionRepository
	now         func() time.Time
}

func newEligibilityResolver(
	ticketRepo repository.TicketRepository,
	sessionRepo repository.ShowSessionRepository,
) *eligibilityResolver {
	return &eligibilityResolver{
		ticketRepo:  ticketRepo,
		sessionRepo: sessionRepo,
		now:         utcNow,
	}
}

func (r *eligibilityResolver) Resolve(
	ctx context.Context, stationID int64, excludeTicketIDs ...int64,
) ([]repository.TicketWithOwner, error) {
	lowerBound := time.Unix(0, 0).UTC()
	lastEnded, err := r.sessionRepo.GetLastEndedByStationID(ctx, stationID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err == nil && lastEnded.EndTime.Valid {
		lowerBound = lastEnded.EndTime.Time
	}

	tickets, err := r.ticketRepo.GetEligible(ctx, repository.EligibleTicketFilter{
		StationID:        stationID,
		CreatedFrom:      lowerBound,
		CreatedBefore:    r.now(),
		ExcludeTicketIDs: excludeTicketIDs,
	})
	if err != nil {
		return nil, err
	}

	if tickets == nil {
		tickets = []repository.TicketWithOwner{}
	}

	return tickets, nil
}

func utcNow() time.Time {
	return time.Now().UTC()
}
