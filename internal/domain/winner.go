package domain

import (
	"context"
	"errors"
	"time"

	"github.com/airtime-lab/backend/internal/entity"
	"github.com/airtime-lab/backend/internal/repository"
	"github.com/airtime-lab/backend/pkg/crypto"
	"github.com/airtime-lab/backend/pkg/errorx"
	"github.com/airtime-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

// winnerSelector runs the lottery over the remaining entries of a pool. Every
// ticket takes part with one entry per unused unit.
type winnerSelector struct {
	ticketRepo repository.TicketRepository
	randIntn   func(int) int
	now        func() time.Time
}

func newWinnerSelector(ticketRepo repository.TicketRepository) *winnerSelector {
	return &winnerSelector{
		ticketRepo: ticketRepo,
		randIntn:   crypto.RandIntn,
		now:        utcNow,
	}
}

func countEntries(pool []repository.TicketWithOwner) int {
	total := 0
	for i := range pool {
		total += pool[i].AvailableEntries()
	}

	return total
}

// Select picks a winning entry and consumes it. It must run inside the
// transaction that persists the winner on the draw.
func (s *winnerSelector) Select(
	ctx context.Context, pool []repository.TicketWithOwner,
) (*repository.TicketWithOwner, *entity.DrawWinnerDetails, error) {
	total := countEntries(pool)
	if total == 0 {
		return nil, nil, errorx.New(errorx.NoEligibleEntries, "No available ticket entries for draw")
	}

	index := s.randIntn(total)
	var winner *repository.TicketWithOwner
	for i, remaining := 0, index; i < len(pool); i++ {
		entries := pool[i].AvailableEntries()
		if remaining < entries {
			winner = &pool[i]
			break
		}
		remaining -= entries
	}

	if err := s.ticketRepo.IncreaseUsedCount(ctx, winner.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, errorx.New(errorx.Conflict, "Ticket %d has no entry left", winner.ID)
		}

		xcontext.Logger(ctx).Errorf("Cannot consume ticket entry: %v", err)
		return nil, nil, errorx.Unknown
	}

	result := *winner
	result.UsedCount++

	return &result, &entity.DrawWinnerDetails{
		TicketUUID:   winner.TicketUUID,
		UserID:       winner.UserID,
		UserName:     winner.UserName,
		UserEmail:    winner.UserEmail,
		SelectedAt:   s.now(),
		EntryNumber:  index + 1,
		TotalEntries: total,
	}, nil
}
