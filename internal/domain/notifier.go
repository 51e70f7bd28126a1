package domain

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/airtime-lab/backend/internal/common"
	"github.com/airtime-lab/backend/internal/model"
	"github.com/airtime-lab/backend/pkg/pubsub"
	"github.com/airtime-lab/backend/pkg/xcontext"
)

// eventNotifier hands committed results to the notification channel. A
// failed publish is logged and never undoes the committed state.
type eventNotifier struct {
	publisher pubsub.Publisher
}

func newEventNotifier(publisher pubsub.Publisher) *eventNotifier {
	return &eventNotifier{publisher: publisher}
}

func (n *eventNotifier) publish(ctx context.Context, topic string, key string, event any) {
	if n == nil || n.publisher == nil {
		return
	}

	b, err := json.Marshal(event)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal %s event: %v", topic, err)
		return
	}

	if err := n.publisher.Publish(ctx, topic, &pubsub.Pack{Key: []byte(key), Msg: b}); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot publish %s event: %v", topic, err)
	}
}

func (n *eventNotifier) DrawWinner(ctx context.Context, draw model.Draw, redraw bool) {
	if draw.WinnerDetails == nil {
		return
	}

	common.PromCounters[common.DrawWinnerTotal].WithLabelValues("session", strconv.FormatBool(redraw)).Inc()
	n.publish(ctx, model.DrawWinnerTopic, draw.ID, model.DrawWinnerEvent{
		DrawID:        draw.ID,
		SessionID:     draw.SessionID,
		ShowID:        draw.ShowID,
		DrawNumber:    draw.DrawNumber,
		TicketID:      draw.WinningTicketID,
		WinnerDetails: *draw.WinnerDetails,
		Redraw:        redraw,
	})
}

func (n *eventNotifier) JackpotWinner(ctx context.Context, draw model.JackpotDraw, redraw bool) {
	if draw.WinnerDetails == nil {
		return
	}

	common.PromCounters[common.DrawWinnerTotal].WithLabelValues("jackpot", strconv.FormatBool(redraw)).Inc()
	n.publish(ctx, model.JackpotWinnerTopic, draw.ID, model.JackpotWinnerEvent{
		DrawID:      draw.ID,
		StationID:   draw.StationID,
		PrizeAmount: draw.PrizeAmount,
		Winner:      *draw.WinnerDetails,
	})
}

func (n *eventNotifier) TicketsIssued(ctx context.Context, userID, stationID int64, tickets []model.Ticket) {
	if len(tickets) == 0 {
		return
	}

	common.PromCounters[common.TicketIssuedTotal].
		WithLabelValues(strconv.FormatInt(stationID, 10)).
		Add(float64(len(tickets)))

	ids := make([]string, 0, len(tickets))
	for _, t := range tickets {
		ids = append(ids, t.ID)
	}

	n.publish(ctx, model.TicketIssuedTopic, strconv.FormatInt(userID, 10), model.TicketIssuedEvent{
		UserID:    strconv.FormatInt(userID, 10),
		StationID: strconv.FormatInt(stationID, 10),
		TicketIDs: ids,
	})
}
