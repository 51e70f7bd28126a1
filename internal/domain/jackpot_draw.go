package domain

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/airtime-lab/backend/internal/entity"
	"github.com/airtime-lab/backend/internal/model"
	"github.com/airtime-lab/backend/internal/repository"
	"github.com/airtime-lab/backend/pkg/crypto"
	"github.com/airtime-lab/backend/pkg/enum"
	"github.com/airtime-lab/backend/pkg/errorx"
	"github.com/airtime-lab/backend/pkg/idutil"
	"github.com/airtime-lab/backend/pkg/pubsub"
	"github.com/airtime-lab/backend/pkg/xcontext"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type JackpotDrawDomain interface {
	Create(context.Context, *model.CreateJackpotDrawRequest) (*model.CreateJackpotDrawResponse, error)
	Conduct(context.Context, *model.ConductJackpotDrawRequest) (*model.ConductJackpotDrawResponse, error)
	Redraw(context.Context, *model.RedrawJackpotDrawRequest) (*model.RedrawJackpotDrawResponse, error)
	Cancel(context.Context, *model.CancelJackpotDrawRequest) (*model.CancelJackpotDrawResponse, error)
	Get(context.Context, *model.GetJackpotDrawRequest) (*model.GetJackpotDrawResponse, error)
	GetList(context.Context, *model.GetListJackpotDrawRequest) (*model.GetListJackpotDrawResponse, error)
}

type jackpotDrawDomain struct {
	jackpotRepo repository.JackpotDrawRepository
	ticketRepo  repository.TicketRepository
	userRepo    repository.UserRepository
	notifier    *eventNotifier
	randIntn    func(int) int
	now         func() time.Time
}

func NewJackpotDrawDomain(
	jackpotRepo repository.JackpotDrawRepository,
	ticketRepo repository.TicketRepository,
	userRepo repository.UserRepository,
	publisher pubsub.Publisher,
) *jackpotDrawDomain {
	return &jackpotDrawDomain{
		jackpotRepo: jackpotRepo,
		ticketRepo:  ticketRepo,
		userRepo:    userRepo,
		notifier:    newEventNotifier(publisher),
		randIntn:    crypto.RandIntn,
		now:         utcNow,
	}
}

func (d *jackpotDrawDomain) Create(
	ctx context.Context, req *model.CreateJackpotDrawRequest,
) (*model.CreateJackpotDrawResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid request: %v", err)
	}

	period, err := enum.ToEnum[entity.JackpotPeriod](req.DrawPeriod)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Invalid draw period: %v", err)
		return nil, errorx.New(errorx.BadRequest, "Invalid draw period %s", req.DrawPeriod)
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	draw := &entity.JackpotDraw{
		Base:            entity.Base{ID: idutil.NewID()},
		Title:           req.Title,
		Description:     req.Description,
		StationID:       req.StationID,
		DrawPeriod:      period,
		PeriodStart:     req.PeriodStart.UTC(),
		PeriodEnd:       req.PeriodEnd.UTC(),
		ScheduledAt:     req.ScheduledAt.UTC(),
		PrizeAmount:     req.PrizeAmount.Round(2),
		Status:          entity.DrawPending,
		JackpotSettings: datatypes.JSONMap(req.JackpotSettings),
	}

	if req.ShowID != 0 {
		draw.ShowID = sql.NullInt64{Int64: req.ShowID, Valid: true}
	}

	if err := d.jackpotRepo.Create(ctx, draw); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create jackpot draw: %v", err)
		return nil, errorx.Unknown
	}

	err = d.jackpotRepo.UpdateByID(ctx, draw.ID, entity.DrawPending, map[string]any{
		"status": entity.DrawActive,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot activate jackpot draw: %v", err)
		return nil, errorx.Unknown
	}

	if _, err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit jackpot draw creation: %v", err)
		return nil, errorx.Unknown
	}

	draw.Status = entity.DrawActive
	return &model.CreateJackpotDrawResponse{Draw: convertJackpotDraw(draw)}, nil
}

func (d *jackpotDrawDomain) Conduct(
	ctx context.Context, req *model.ConductJackpotDrawRequest,
) (*model.ConductJackpotDrawResponse, error) {
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	draw, err := d.getForUpdate(ctx, req.DrawID)
	if err != nil {
		return nil, err
	}

	if draw.Status != entity.DrawActive {
		return nil, errorx.New(errorx.InvalidState, "Draw not active")
	}

	if err := d.conduct(ctx, draw, req.ShowID); err != nil {
		return nil, err
	}

	if _, err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit jackpot draw: %v", err)
		return nil, errorx.Unknown
	}

	clientDraw := convertJackpotDraw(draw)
	d.notifier.JackpotWinner(ctx, clientDraw, false)
	return &model.ConductJackpotDrawResponse{Draw: clientDraw}, nil
}

// Redraw moves the current winner to the history, reopens the draw and
// conducts it again. Both steps commit together.
func (d *jackpotDrawDomain) Redraw(
	ctx context.Context, req *model.RedrawJackpotDrawRequest,
) (*model.RedrawJackpotDrawResponse, error) {
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	draw, err := d.getForUpdate(ctx, req.DrawID)
	if err != nil {
		return nil, err
	}

	if draw.Status != entity.DrawCompleted {
		return nil, errorx.New(errorx.InvalidState, "Draw not completed")
	}

	if !draw.WinnerDetails.Complete() {
		return nil, errorx.New(errorx.InvalidState, "Incomplete winner details")
	}

	// Conduct records each winner in the history already. Only winners of
	// rows written without a history entry are appended here.
	previousWinners := append(entity.Array[entity.JackpotWinner]{}, draw.PreviousWinners...)
	if n := len(previousWinners); n == 0 || previousWinners[n-1] != *draw.WinnerDetails {
		previousWinners = append(previousWinners, *draw.WinnerDetails)
	}

	err = d.jackpotRepo.UpdateByID(ctx, draw.ID, entity.DrawCompleted, map[string]any{
		"status":            entity.DrawActive,
		"conducted_at":      nil,
		"winning_ticket_id": nil,
		"winner_details":    nil,
		"previous_winners":  previousWinners,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.Conflict, "Jackpot draw %d was changed concurrently", draw.ID)
		}

		xcontext.Logger(ctx).Errorf("Cannot reopen jackpot draw: %v", err)
		return nil, errorx.Unknown
	}

	draw.Status = entity.DrawActive
	draw.ConductedAt = sql.NullTime{}
	draw.WinningTicketID = sql.NullInt64{}
	draw.WinnerDetails = nil
	draw.PreviousWinners = previousWinners

	if err := d.conduct(ctx, draw, 0); err != nil {
		return nil, err
	}

	if _, err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit jackpot redraw: %v", err)
		return nil, errorx.Unknown
	}

	clientDraw := convertJackpotDraw(draw)
	d.notifier.JackpotWinner(ctx, clientDraw, true)
	return &model.RedrawJackpotDrawResponse{Draw: clientDraw}, nil
}

func (d *jackpotDrawDomain) Cancel(
	ctx context.Context, req *model.CancelJackpotDrawRequest,
) (*model.CancelJackpotDrawResponse, error) {
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	draw, err := d.getForUpdate(ctx, req.DrawID)
	if err != nil {
		return nil, err
	}

	switch draw.Status {
	case entity.DrawCompleted:
		return nil, errorx.New(errorx.InvalidState, "Cannot cancel a completed draw")
	case entity.DrawCancelled:
		return nil, errorx.New(errorx.InvalidState, "Draw is already cancelled")
	}

	err = d.jackpotRepo.UpdateByID(ctx, draw.ID, draw.Status, map[string]any{
		"status": entity.DrawCancelled,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot cancel jackpot draw: %v", err)
		return nil, errorx.Unknown
	}

	if _, err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit jackpot draw cancellation: %v", err)
		return nil, errorx.Unknown
	}

	draw.Status = entity.DrawCancelled
	return &model.CancelJackpotDrawResponse{Draw: convertJackpotDraw(draw)}, nil
}

func (d *jackpotDrawDomain) Get(
	ctx context.Context, req *model.GetJackpotDrawRequest,
) (*model.GetJackpotDrawResponse, error) {
	draw, err := d.jackpotRepo.GetByID(ctx, req.DrawID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found jackpot draw %d", req.DrawID)
		}

		xcontext.Logger(ctx).Errorf("Cannot get jackpot draw: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetJackpotDrawResponse{Draw: convertJackpotDraw(draw)}, nil
}

func (d *jackpotDrawDomain) GetList(
	ctx context.Context, req *model.GetListJackpotDrawRequest,
) (*model.GetListJackpotDrawResponse, error) {
	apiCfg := xcontext.Configs(ctx).ApiServer
	if req.Limit == 0 {
		req.Limit = apiCfg.DefaultLimit
	}

	if req.Limit < 0 {
		return nil, errorx.New(errorx.BadRequest, "Limit must be positive")
	}

	if apiCfg.MaxLimit > 0 && req.Limit > apiCfg.MaxLimit {
		return nil, errorx.New(errorx.BadRequest, "Exceed the maximum of limit (%d)", apiCfg.MaxLimit)
	}

	filter := repository.GetListJackpotDrawFilter{
		StationID: req.StationID,
		Offset:    req.Offset,
		Limit:     req.Limit,
	}

	if req.Status != "" {
		status, err := enum.ToEnum[entity.DrawStatus](req.Status)
		if err != nil {
			xcontext.Logger(ctx).Debugf("Invalid draw status: %v", err)
			return nil, errorx.New(errorx.BadRequest, "Invalid status %s", req.Status)
		}
		filter.Status = status
	}

	draws, err := d.jackpotRepo.GetList(ctx, filter)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get list of jackpot draws: %v", err)
		return nil, errorx.Unknown
	}

	clientDraws := []model.JackpotDraw{}
	for i := range draws {
		clientDraws = append(clientDraws, convertJackpotDraw(&draws[i]))
	}

	return &model.GetListJackpotDrawResponse{Draws: clientDraws}, nil
}

// conduct picks one ticket of the draw period, one entry per ticket, and
// completes the draw. draw is updated in place.
func (d *jackpotDrawDomain) conduct(ctx context.Context, draw *entity.JackpotDraw, showID int64) error {
	tickets, err := d.ticketRepo.GetInPeriod(ctx, repository.PeriodTicketFilter{
		StationID:   draw.StationID,
		PeriodStart: draw.PeriodStart,
		PeriodEnd:   draw.PeriodEnd,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get tickets of period: %v", err)
		return errorx.Unknown
	}

	users := map[int64]struct{}{}
	for _, t := range tickets {
		users[t.UserID] = struct{}{}
	}

	now := d.now()
	updates := map[string]any{
		"status":         entity.DrawCompleted,
		"conducted_at":   now,
		"total_tickets":  len(tickets),
		"total_entries":  len(tickets),
		"eligible_users": len(users),
	}

	if showID != 0 {
		updates["show_id"] = showID
		draw.ShowID = sql.NullInt64{Int64: showID, Valid: true}
	}

	var winner *entity.JackpotWinner
	if len(tickets) > 0 {
		ticket := tickets[d.randIntn(len(tickets))]

		phone := ""
		user, err := d.userRepo.GetByID(ctx, ticket.UserID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				xcontext.Logger(ctx).Errorf("Cannot get winner: %v", err)
				return errorx.Unknown
			}

			xcontext.Logger(ctx).Warnf("Winner %d of jackpot draw %d has no user record", ticket.UserID, draw.ID)
		} else {
			phone = user.Phone
		}

		winner = &entity.JackpotWinner{UserID: ticket.UserID, TicketID: ticket.ID, Phone: phone}
		draw.PreviousWinners = append(draw.PreviousWinners, *winner)

		updates["winning_ticket_id"] = ticket.ID
		updates["winner_details"] = winner
		updates["previous_winners"] = draw.PreviousWinners
		draw.WinningTicketID = sql.NullInt64{Int64: ticket.ID, Valid: true}
	}

	if err := d.jackpotRepo.UpdateByID(ctx, draw.ID, entity.DrawActive, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorx.New(errorx.Conflict, "Jackpot draw %d was changed concurrently", draw.ID)
		}

		xcontext.Logger(ctx).Errorf("Cannot save jackpot draw result: %v", err)
		return errorx.Unknown
	}

	draw.Status = entity.DrawCompleted
	draw.ConductedAt = sql.NullTime{Time: now, Valid: true}
	draw.WinnerDetails = winner
	draw.TotalTickets = len(tickets)
	draw.TotalEntries = len(tickets)
	draw.EligibleUsers = len(users)
	return nil
}

func (d *jackpotDrawDomain) getForUpdate(ctx context.Context, drawID int64) (*entity.JackpotDraw, error) {
	draw, err := d.jackpotRepo.GetByIDForUpdate(ctx, drawID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found jackpot draw %d", drawID)
		}

		xcontext.Logger(ctx).Errorf("Cannot get jackpot draw: %v", err)
		return nil, errorx.Unknown
	}

	return draw, nil
}
