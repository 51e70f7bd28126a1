package domain

import (
	"testing"
	"time"

	"github.com/airtime-lab/backend/internal/entity"
	"github.com/airtime-lab/backend/internal/repository"
	"github.com/airtime-lab/backend/pkg/errorx"
	"github.com/airtime-lab/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func Test_countEntries(t *testing.T) {
	pool := []repository.TicketWithOwner{
		{Ticket: entity.Ticket{Quantity: 3, UsedCount: 1}},
		{Ticket: entity.Ticket{Quantity: 1, UsedCount: 1}},
		{Ticket: entity.Ticket{Quantity: 2}},
		// Corrupted counters never count negative.
		{Ticket: entity.Ticket{Quantity: 1, UsedCount: 2}},
	}

	require.Equal(t, 4, countEntries(pool))
	require.Zero(t, countEntries(nil))
}

func Test_winnerSelector_Select(t *testing.T) {
	ctx := testutil.MockContext()
	user := testutil.SampleUser(ctx, nil)
	ticket := testutil.SampleTicket(ctx, &entity.Ticket{UserID: user.ID, StationID: 1, Quantity: 2})

	selectedAt := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	s := newWinnerSelector(repository.NewTicketRepository())
	s.now = func() time.Time { return selectedAt }
	s.randIntn = func(n int) int { return n - 1 }

	pool := []repository.TicketWithOwner{{Ticket: ticket, UserName: user.Name, UserEmail: user.Email}}

	winner, details, err := s.Select(ctx, pool)
	require.NoError(t, err)
	require.Equal(t, ticket.ID, winner.ID)
	require.Equal(t, 1, winner.UsedCount)
	require.Equal(t, &entity.DrawWinnerDetails{
		TicketUUID:   ticket.TicketUUID,
		UserID:       user.ID,
		UserName:     user.Name,
		UserEmail:    user.Email,
		SelectedAt:   selectedAt,
		EntryNumber:  2,
		TotalEntries: 2,
	}, details)

	// pool is a snapshot taken before any entry was consumed.
	_, _, err = s.Select(ctx, pool)
	require.NoError(t, err)

	_, _, err = s.Select(ctx, pool)
	require.True(t, errorx.Is(err, errorx.Conflict))

	got, err := repository.NewTicketRepository().GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	require.Equal(t, 2, got.UsedCount)

	_, _, err = s.Select(ctx, []repository.TicketWithOwner{{Ticket: *got}})
	require.True(t, errorx.Is(err, errorx.NoEligibleEntries))
}

func Test_eligibilityResolver_Resolve(t *testing.T) {
	ctx := testutil.MockContext()
	now := time.Now().UTC()

	testutil.SampleShowSession(ctx, &entity.ShowSession{
		StationID: 8,
		Status:    entity.SessionEnded,
		EndTime:   sqlNullTime(now.Add(-5 * time.Hour)),
	})
	testutil.SampleShowSession(ctx, &entity.ShowSession{
		StationID: 8,
		Status:    entity.SessionEnded,
		EndTime:   sqlNullTime(now.Add(-3 * time.Hour)),
	})

	before := testutil.SampleTicket(ctx, &entity.Ticket{
		StationID: 8, UserID: 1, Base: entity.Base{CreatedAt: now.Add(-4 * time.Hour)},
	})
	first := testutil.SampleTicket(ctx, &entity.Ticket{
		StationID: 8, UserID: 1, Base: entity.Base{CreatedAt: now.Add(-2 * time.Hour)},
	})
	second := testutil.SampleTicket(ctx, &entity.Ticket{
		StationID: 8, UserID: 2, Base: entity.Base{CreatedAt: now.Add(-time.Hour)},
	})
	testutil.SampleTicket(ctx, &entity.Ticket{
		StationID: 8, UserID: 2, Base: entity.Base{CreatedAt: now.Add(time.Hour)},
	})
	testutil.SampleTicket(ctx, &entity.Ticket{
		StationID: 8, UserID: 2, ExpiresAt: sqlNullTime(now.Add(-time.Minute)),
	})

	r := newEligibilityResolver(repository.NewTicketRepository(), repository.NewShowSessionRepository())
	r.now = func() time.Time { return now }

	got, err := r.Resolve(ctx, 8)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, first.ID, got[0].ID)
	require.Equal(t, second.ID, got[1].ID)

	got, err = r.Resolve(ctx, 8, first.ID, before.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, second.ID, got[0].ID)

	// Without an ended session every ticket since the epoch counts.
	testutil.SampleTicket(ctx, &entity.Ticket{StationID: 9, UserID: 1})
	got, err = r.Resolve(ctx, 9)
	require.NoError(t, err)
	require.Len(t, got, 1)

	got, err = r.Resolve(ctx, 10)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Empty(t, got)
}
