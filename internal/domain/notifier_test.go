package domain

import (
	"context"
	"errors"
	"testing"

	"github.com/airtime-lab/backend/internal/entity"
	"github.com/airtime-lab/backend/internal/model"
	"github.com/airtime-lab/backend/pkg/pubsub"
	"github.com/airtime-lab/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func Test_eventNotifier_Publishers(t *testing.T) {
	draw := model.Draw{
		ID:              "1",
		SessionID:       "2",
		WinningTicketID: "3",
		WinnerDetails:   &model.WinnerDetails{TicketUUID: "uuid", UserID: "4"},
	}

	failing := &testutil.MockPublisher{
		PublishFunc: func(context.Context, string, *pubsub.Pack) error {
			return errors.New("broker down")
		},
	}

	tests := []struct {
		name      string
		publisher pubsub.Publisher
	}{
		{name: "no publisher"},
		{name: "nil mock publisher", publisher: (*testutil.MockPublisher)(nil)},
		{name: "failing publisher", publisher: failing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := newEventNotifier(tt.publisher)
			require.NotPanics(t, func() {
				n.DrawWinner(context.Background(), draw, false)
				n.JackpotWinner(context.Background(), model.JackpotDraw{
					ID:            "5",
					WinnerDetails: &model.JackpotWinner{UserID: "4", TicketID: "3"},
				}, false)
				n.TicketsIssued(context.Background(), 4, 6, []model.Ticket{{ID: "3"}})
			})
		})
	}

	require.Equal(t, []string{
		model.DrawWinnerTopic,
		model.JackpotWinnerTopic,
		model.TicketIssuedTopic,
	}, failing.Topics())
}

func Test_drawDomain_ConductDraw_NilMockPublisher(t *testing.T) {
	ctx := testutil.MockContext()
	session := testutil.SampleShowSession(ctx, nil)
	ticket := testutil.SampleTicket(ctx, &entity.Ticket{UserID: 1, StationID: session.StationID})

	d := newTestDrawDomain((*testutil.MockPublisher)(nil), pickIndex(0))
	resp, err := d.ConductDraw(ctx, &model.ConductDrawRequest{
		SessionID: session.ID,
		ShowID:    session.ShowID,
		Title:     "Draw",
	})
	require.NoError(t, err)
	require.Equal(t, formatID(ticket.ID), resp.WinningTicket.ID)
}
