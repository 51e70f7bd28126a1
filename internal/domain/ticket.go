package domain

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/airtime-lab/backend/internal/entity"
	"github.com/airtime-lab/backend/internal/model"
	"github.com/airtime-lab/backend/internal/repository"
	"github.com/airtime-lab/backend/pkg/errorx"
	"github.com/airtime-lab/backend/pkg/idutil"
	"github.com/airtime-lab/backend/pkg/pubsub"
	"github.com/airtime-lab/backend/pkg/purchase"
	"github.com/airtime-lab/backend/pkg/xcontext"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TicketDomain interface {
	Issue(context.Context, *model.IssueTicketsRequest) (*model.IssueTicketsResponse, error)
	IssueFromPayment(context.Context, *model.IssueTicketsFromPaymentRequest) (*model.IssueTicketsResponse, error)
	Invalidate(context.Context, *model.InvalidateTicketRequest) (*model.InvalidateTicketResponse, error)
	GetMyTickets(context.Context, *model.GetMyTicketsRequest) (*model.GetMyTicketsResponse, error)
}

type ticketDomain struct {
	ticketRepo repository.TicketRepository
	drawRepo   repository.DrawRepository
	notifier   *eventNotifier
	now        func() time.Time
}

func NewTicketDomain(
	ticketRepo repository.TicketRepository,
	drawRepo repository.DrawRepository,
	publisher pubsub.Publisher,
) *ticketDomain {
	return &ticketDomain{
		ticketRepo: ticketRepo,
		drawRepo:   drawRepo,
		notifier:   newEventNotifier(publisher),
		now:        utcNow,
	}
}

// Issue creates one ticket row per purchased unit. It is called once the
// payment is confirmed.
func (d *ticketDomain) Issue(
	ctx context.Context, req *model.IssueTicketsRequest,
) (*model.IssueTicketsResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid request: %v", err)
	}

	if req.ExpiresAt != nil && !req.ExpiresAt.After(d.now()) {
		return nil, errorx.New(errorx.BadRequest, "Expiration time must be in the future")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if req.DrawID != nil {
		if err := d.checkDrawCapacity(ctx, *req.DrawID, req.Quantity); err != nil {
			return nil, err
		}
	}

	tickets := make([]*entity.Ticket, 0, req.Quantity)
	for i := 0; i < req.Quantity; i++ {
		ticket := &entity.Ticket{
			Base:       entity.Base{ID: idutil.NewID()},
			TicketUUID: uuid.NewString(),
			UserID:     req.UserID,
			StationID:  req.StationID,
			Quantity:   1,
			IsActive:   true,
		}

		if req.DrawID != nil {
			ticket.DrawID = sql.NullInt64{Int64: *req.DrawID, Valid: true}
		}

		if req.ExpiresAt != nil {
			ticket.ExpiresAt = sql.NullTime{Time: req.ExpiresAt.UTC(), Valid: true}
		}

		tickets = append(tickets, ticket)
	}

	if err := d.ticketRepo.CreateMany(ctx, tickets); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create tickets: %v", err)
		return nil, errorx.Unknown
	}

	if _, err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit ticket issuance: %v", err)
		return nil, errorx.Unknown
	}

	clientTickets := []model.Ticket{}
	for _, t := range tickets {
		clientTickets = append(clientTickets, convertTicket(t))
	}

	d.notifier.TicketsIssued(ctx, req.UserID, req.StationID, clientTickets)
	return &model.IssueTicketsResponse{Tickets: clientTickets}, nil
}

func (d *ticketDomain) IssueFromPayment(
	ctx context.Context, req *model.IssueTicketsFromPaymentRequest,
) (*model.IssueTicketsResponse, error) {
	desc, err := purchase.Decode(req.Description)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Cannot decode purchase description: %v", err)
		return nil, errorx.New(errorx.BadRequest, "Invalid purchase description")
	}

	return d.Issue(ctx, &model.IssueTicketsRequest{
		UserID:    req.UserID,
		StationID: desc.StationID,
		DrawID:    desc.DrawID,
		Quantity:  desc.Quantity,
	})
}

func (d *ticketDomain) Invalidate(
	ctx context.Context, req *model.InvalidateTicketRequest,
) (*model.InvalidateTicketResponse, error) {
	ticket, err := d.ticketRepo.GetByID(ctx, req.TicketID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found ticket %d", req.TicketID)
		}

		xcontext.Logger(ctx).Errorf("Cannot get ticket: %v", err)
		return nil, errorx.Unknown
	}

	if ticket.InvalidatedAt.Valid {
		return nil, errorx.New(errorx.InvalidState, "Ticket is already invalidated")
	}

	if err := d.ticketRepo.Invalidate(ctx, ticket.ID, d.now()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.InvalidState, "Ticket is already invalidated")
		}

		xcontext.Logger(ctx).Errorf("Cannot invalidate ticket: %v", err)
		return nil, errorx.Unknown
	}

	return &model.InvalidateTicketResponse{}, nil
}

func (d *ticketDomain) GetMyTickets(
	ctx context.Context, req *model.GetMyTicketsRequest,
) (*model.GetMyTicketsResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == 0 {
		return nil, errorx.New(errorx.Unauthenticated, "Require a user")
	}

	tickets, err := d.ticketRepo.GetListByUserID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get tickets of user: %v", err)
		return nil, errorx.Unknown
	}

	clientTickets := []model.Ticket{}
	for i := range tickets {
		clientTickets = append(clientTickets, convertTicket(&tickets[i]))
	}

	return &model.GetMyTicketsResponse{Tickets: clientTickets}, nil
}

func (d *ticketDomain) checkDrawCapacity(ctx context.Context, drawID int64, quantity int) error {
	draw, err := d.drawRepo.GetByIDForUpdate(ctx, drawID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorx.New(errorx.NotFound, "Not found draw %d", drawID)
		}

		xcontext.Logger(ctx).Errorf("Cannot get draw: %v", err)
		return errorx.Unknown
	}

	if draw.Status != entity.DrawPending && draw.Status != entity.DrawActive {
		return errorx.New(errorx.InvalidState, "Draw is not open for entries")
	}

	if draw.EntryDeadline.Valid && d.now().After(draw.EntryDeadline.Time) {
		return errorx.New(errorx.InvalidState, "Entry deadline of the draw has passed")
	}

	if !draw.MaxEntries.Valid {
		return nil
	}

	count, err := d.ticketRepo.CountByDrawID(ctx, draw.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count tickets of draw: %v", err)
		return errorx.Unknown
	}

	if count+int64(quantity) > draw.MaxEntries.Int64 {
		return errorx.New(errorx.InvalidState, "Draw has reached the maximum of entries")
	}

	return nil
}
