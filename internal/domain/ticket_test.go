package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/airtime-lab/backend/internal/common"
	"github.com/airtime-lab/backend/internal/entity"
	"github.com/airtime-lab/backend/internal/model"
	"github.com/airtime-lab/backend/internal/repository"
	"github.com/airtime-lab/backend/pkg/errorx"
	"github.com/airtime-lab/backend/pkg/pubsub"
	"github.com/airtime-lab/backend/pkg/purchase"
	"github.com/airtime-lab/backend/pkg/testutil"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func newTestTicketDomain(publisher pubsub.Publisher) *ticketDomain {
	return NewTicketDomain(
		repository.NewTicketRepository(),
		repository.NewDrawRepository(),
		publisher,
	)
}

func Test_ticketDomain_Issue(t *testing.T) {
	ctx := testutil.MockContext()
	publisher := &testutil.MockPublisher{}
	d := newTestTicketDomain(publisher)
	issued := common.PromCounters[common.TicketIssuedTotal].WithLabelValues("3")
	issuedBefore := promtestutil.ToFloat64(issued)

	expiresAt := time.Now().UTC().Add(24 * time.Hour)
	resp, err := d.Issue(ctx, &model.IssueTicketsRequest{
		UserID:    7,
		StationID: 3,
		Quantity:  3,
		ExpiresAt: &expiresAt,
	})
	require.NoError(t, err)
	require.Len(t, resp.Tickets, 3)

	uuids := map[string]struct{}{}
	for _, ticket := range resp.Tickets {
		require.Equal(t, 1, ticket.Quantity)
		require.Zero(t, ticket.UsedCount)
		require.True(t, ticket.IsActive)
		require.Equal(t, "7", ticket.UserID)
		require.Equal(t, "3", ticket.StationID)
		require.NotEmpty(t, ticket.ExpiresAt)
		uuids[ticket.TicketUUID] = struct{}{}
	}
	require.Len(t, uuids, 3)

	tickets, err := repository.NewTicketRepository().GetListByUserID(ctx, 7)
	require.NoError(t, err)
	require.Len(t, tickets, 3)

	require.Equal(t, []string{model.TicketIssuedTopic}, publisher.Topics())
	var event model.TicketIssuedEvent
	require.NoError(t, json.Unmarshal(publisher.Packs[0].Pack.Msg, &event))
	require.Equal(t, "7", event.UserID)
	require.Len(t, event.TicketIDs, 3)
	require.Equal(t, issuedBefore+3, promtestutil.ToFloat64(issued))
}

func Test_ticketDomain_Issue_Failed(t *testing.T) {
	tests := []struct {
		name    string
		draw    *entity.Draw
		req     model.IssueTicketsRequest
		wantErr errorx.Code
	}{
		{
			name:    "zero quantity",
			req:     model.IssueTicketsRequest{UserID: 1, StationID: 1},
			wantErr: errorx.BadRequest,
		},
		{
			name:    "too many tickets",
			req:     model.IssueTicketsRequest{UserID: 1, StationID: 1, Quantity: 101},
			wantErr: errorx.BadRequest,
		},
		{
			name:    "draw not found",
			req:     model.IssueTicketsRequest{UserID: 1, StationID: 1, Quantity: 1, DrawID: new(int64)},
			wantErr: errorx.NotFound,
		},
		{
			name:    "draw is completed",
			draw:    &entity.Draw{Status: entity.DrawCompleted},
			req:     model.IssueTicketsRequest{UserID: 1, StationID: 1, Quantity: 1},
			wantErr: errorx.InvalidState,
		},
		{
			name:    "draw is full",
			draw:    &entity.Draw{MaxEntries: sqlNullInt64(2)},
			req:     model.IssueTicketsRequest{UserID: 1, StationID: 1, Quantity: 3},
			wantErr: errorx.InvalidState,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testutil.MockContext()
			if tt.draw != nil {
				session := testutil.SampleShowSession(ctx, nil)
				tt.draw.SessionID = session.ID
				draw := testutil.SampleDraw(ctx, tt.draw)
				tt.req.DrawID = &draw.ID
			}

			_, err := newTestTicketDomain(nil).Issue(ctx, &tt.req)
			require.True(t, errorx.Is(err, tt.wantErr), "got error %v", err)

			tickets, err := repository.NewTicketRepository().GetListByUserID(ctx, 1)
			require.NoError(t, err)
			require.Empty(t, tickets)
		})
	}
}

func Test_ticketDomain_Issue_DrawCapacity(t *testing.T) {
	ctx := testutil.MockContext()
	session := testutil.SampleShowSession(ctx, nil)
	draw := testutil.SampleDraw(ctx, &entity.Draw{SessionID: session.ID, MaxEntries: sqlNullInt64(3)})

	d := newTestTicketDomain(nil)
	_, err := d.Issue(ctx, &model.IssueTicketsRequest{UserID: 1, StationID: 1, DrawID: &draw.ID, Quantity: 2})
	require.NoError(t, err)

	count, err := repository.NewTicketRepository().CountByDrawID(ctx, draw.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), count)

	_, err = d.Issue(ctx, &model.IssueTicketsRequest{UserID: 2, StationID: 1, DrawID: &draw.ID, Quantity: 2})
	require.True(t, errorx.Is(err, errorx.InvalidState))

	_, err = d.Issue(ctx, &model.IssueTicketsRequest{UserID: 2, StationID: 1, DrawID: &draw.ID, Quantity: 1})
	require.NoError(t, err)
}

func Test_ticketDomain_IssueFromPayment(t *testing.T) {
	ctx := testutil.MockContext()
	d := newTestTicketDomain(nil)

	resp, err := d.IssueFromPayment(ctx, &model.IssueTicketsFromPaymentRequest{
		UserID:      4,
		Description: purchase.Encode(purchase.Description{StationID: 3, Quantity: 2}),
	})
	require.NoError(t, err)
	require.Len(t, resp.Tickets, 2)
	require.Equal(t, "3", resp.Tickets[0].StationID)
	require.Empty(t, resp.Tickets[0].DrawID)

	_, err = d.IssueFromPayment(ctx, &model.IssueTicketsFromPaymentRequest{
		UserID:      4,
		Description: "Airtime top-up",
	})
	require.True(t, errorx.Is(err, errorx.BadRequest))
}

func Test_ticketDomain_Invalidate(t *testing.T) {
	ctx := testutil.MockContext()
	session := testutil.SampleShowSession(ctx, nil)
	ticket := testutil.SampleTicket(ctx, &entity.Ticket{StationID: session.StationID, UserID: 1})

	d := newTestTicketDomain(nil)
	_, err := d.Invalidate(ctx, &model.InvalidateTicketRequest{TicketID: ticket.ID})
	require.NoError(t, err)

	got, err := repository.NewTicketRepository().GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	require.False(t, got.IsActive)
	require.True(t, got.InvalidatedAt.Valid)

	_, err = d.Invalidate(ctx, &model.InvalidateTicketRequest{TicketID: ticket.ID})
	require.True(t, errorx.Is(err, errorx.InvalidState))

	_, err = d.Invalidate(ctx, &model.InvalidateTicketRequest{TicketID: ticket.ID + 1})
	require.True(t, errorx.Is(err, errorx.NotFound))

	// An invalidated ticket leaves the pool.
	_, err = newTestDrawDomain(nil, nil).ConductDraw(ctx, &model.ConductDrawRequest{
		SessionID: session.ID,
		ShowID:    session.ShowID,
		Title:     "Draw",
	})
	require.True(t, errorx.Is(err, errorx.NoEligibleEntries))
}

func Test_ticketDomain_GetMyTickets(t *testing.T) {
	ctx := testutil.MockContextWithUserID(5)
	testutil.SampleTicket(ctx, &entity.Ticket{UserID: 5, StationID: 1})
	testutil.SampleTicket(ctx, &entity.Ticket{UserID: 5, StationID: 2})
	testutil.SampleTicket(ctx, &entity.Ticket{UserID: 6, StationID: 1})

	d := newTestTicketDomain(nil)
	resp, err := d.GetMyTickets(ctx, &model.GetMyTicketsRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Tickets, 2)

	_, err = d.GetMyTickets(testutil.MockContext(), &model.GetMyTicketsRequest{})
	require.True(t, errorx.Is(err, errorx.Unauthenticated))
}
