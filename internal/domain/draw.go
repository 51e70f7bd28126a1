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
	"github.com/airtime-lab/backend/pkg/xcontext"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type DrawDomain interface {
	Create(context.Context, *model.CreateDrawRequest) (*model.CreateDrawResponse, error)
	ConductDraw(context.Context, *model.ConductDrawRequest) (*model.ConductDrawResponse, error)
	ConductPendingDraw(context.Context, *model.ConductPendingDrawRequest) (*model.ConductPendingDrawResponse, error)
	Redraw(context.Context, *model.RedrawRequest) (*model.RedrawResponse, error)
	CompleteDraw(context.Context, *model.CompleteDrawRequest) (*model.CompleteDrawResponse, error)
	CancelDraw(context.Context, *model.CancelDrawRequest) (*model.CancelDrawResponse, error)
	GetDrawByID(context.Context, *model.GetDrawRequest) (*model.GetDrawResponse, error)
	GetDrawsBySession(context.Context, *model.GetDrawsBySessionRequest) (*model.GetDrawsBySessionResponse, error)
	GetDrawStats(context.Context, *model.GetDrawStatsRequest) (*model.GetDrawStatsResponse, error)
}

type drawDomain struct {
	drawRepo    repository.DrawRepository
	sessionRepo repository.ShowSessionRepository
	ticketRepo  repository.TicketRepository
	eligibility *eligibilityResolver
	selector    *winnerSelector
	notifier    *eventNotifier
	now         func() time.Time
}

func NewDrawDomain(
	drawRepo repository.DrawRepository,
	sessionRepo repository.ShowSessionRepository,
	ticketRepo repository.TicketRepository,
	publisher pubsub.Publisher,
) *drawDomain {
	return &drawDomain{
		drawRepo:    drawRepo,
		sessionRepo: sessionRepo,
		ticketRepo:  ticketRepo,
		eligibility: newEligibilityResolver(ticketRepo, sessionRepo),
		selector:    newWinnerSelector(ticketRepo),
		notifier:    newEventNotifier(publisher),
		now:         utcNow,
	}
}

func (d *drawDomain) Create(
	ctx context.Context, req *model.CreateDrawRequest,
) (*model.CreateDrawResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid request: %v", err)
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	session, err := d.sessionRepo.GetByIDForUpdate(ctx, req.SessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found session %d", req.SessionID)
		}

		xcontext.Logger(ctx).Errorf("Cannot get session: %v", err)
		return nil, errorx.Unknown
	}

	if session.ShowID != req.ShowID {
		return nil, errorx.New(errorx.BadRequest, "Session %d does not belong to show %d", session.ID, req.ShowID)
	}

	drawNumber, err := d.nextDrawNumber(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	scheduledAt := req.ScheduledAt
	if scheduledAt.IsZero() {
		scheduledAt = d.now()
	}

	draw := &entity.Draw{
		Base:         entity.Base{ID: idutil.NewID()},
		Title:        req.Title,
		Description:  req.Description,
		SessionID:    session.ID,
		ShowID:       session.ShowID,
		DrawNumber:   drawNumber,
		ScheduledAt:  scheduledAt.UTC(),
		Status:       entity.DrawPending,
		Prizes:       datatypes.JSONMap(req.Prizes),
		DrawSettings: datatypes.JSONMap(req.DrawSettings),
	}

	if req.MaxEntries > 0 {
		draw.MaxEntries = sql.NullInt64{Int64: int64(req.MaxEntries), Valid: true}
	}

	if req.EntryDeadline != nil {
		draw.EntryDeadline = sql.NullTime{Time: req.EntryDeadline.UTC(), Valid: true}
	}

	if err := d.createDraw(ctx, draw); err != nil {
		return nil, err
	}

	if _, err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit draw creation: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateDrawResponse{Draw: convertDraw(draw)}, nil
}

func (d *drawDomain) ConductDraw(
	ctx context.Context, req *model.ConductDrawRequest,
) (*model.ConductDrawResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid request: %v", err)
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	session, err := d.getActiveSession(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}

	if session.ShowID != req.ShowID {
		return nil, errorx.New(errorx.BadRequest, "Session %d does not belong to show %d", session.ID, req.ShowID)
	}

	drawNumber, err := d.nextDrawNumber(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	eligible, err := d.eligibility.Resolve(ctx, session.StationID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot resolve eligible tickets: %v", err)
		return nil, errorx.Unknown
	}

	if len(eligible) == 0 {
		return nil, errorx.New(errorx.NoEligibleEntries, "No eligible tickets found for this draw")
	}

	now := d.now()
	draw := &entity.Draw{
		Base:         entity.Base{ID: idutil.NewID()},
		Title:        req.Title,
		Description:  req.Description,
		SessionID:    session.ID,
		ShowID:       session.ShowID,
		DrawNumber:   drawNumber,
		ScheduledAt:  now,
		ConductedAt:  sql.NullTime{Time: now, Valid: true},
		Status:       entity.DrawActive,
		Prizes:       datatypes.JSONMap(req.Prizes),
		DrawSettings: datatypes.JSONMap(req.DrawSettings),
		TotalEntries: len(eligible),
	}

	if req.MaxEntries > 0 {
		draw.MaxEntries = sql.NullInt64{Int64: int64(req.MaxEntries), Valid: true}
	}

	if err := d.createDraw(ctx, draw); err != nil {
		return nil, err
	}

	winner, err := d.pickWinner(ctx, draw, eligible, now)
	if err != nil {
		return nil, err
	}

	if _, err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit draw: %v", err)
		return nil, errorx.Unknown
	}

	resp := newConductDrawResponse(draw, winner, len(eligible))
	d.notifier.DrawWinner(ctx, resp.Draw, false)
	return resp, nil
}

func (d *drawDomain) ConductPendingDraw(
	ctx context.Context, req *model.ConductPendingDrawRequest,
) (*model.ConductPendingDrawResponse, error) {
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	draw, err := d.getDrawForUpdate(ctx, req.DrawID)
	if err != nil {
		return nil, err
	}

	if draw.Status != entity.DrawPending {
		return nil, errorx.New(errorx.InvalidState, "Can only conduct pending draws")
	}

	session, err := d.getActiveSession(ctx, draw.SessionID)
	if err != nil {
		return nil, err
	}

	eligible, err := d.eligibility.Resolve(ctx, session.StationID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot resolve eligible tickets: %v", err)
		return nil, errorx.Unknown
	}

	if len(eligible) == 0 {
		return nil, errorx.New(errorx.NoEligibleEntries, "No eligible tickets found for this draw")
	}

	if err := d.drawRepo.Activate(ctx, draw.ID, len(eligible)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.Conflict, "Draw %d was changed concurrently", draw.ID)
		}

		xcontext.Logger(ctx).Errorf("Cannot activate draw: %v", err)
		return nil, errorx.Unknown
	}

	now := d.now()
	draw.Status = entity.DrawActive
	draw.TotalEntries = len(eligible)

	winner, err := d.pickWinner(ctx, draw, eligible, now)
	if err != nil {
		return nil, err
	}

	if _, err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit draw: %v", err)
		return nil, errorx.Unknown
	}

	resp := newConductDrawResponse(draw, winner, len(eligible))
	d.notifier.DrawWinner(ctx, resp.Draw, false)
	return resp, nil
}

func (d *drawDomain) Redraw(
	ctx context.Context, req *model.RedrawRequest,
) (*model.RedrawResponse, error) {
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	draw, err := d.getDrawForUpdate(ctx, req.DrawID)
	if err != nil {
		return nil, err
	}

	if draw.Status != entity.DrawActive {
		return nil, errorx.New(errorx.InvalidState, "Can only redraw active draws")
	}

	session, err := d.sessionRepo.GetByID(ctx, draw.SessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found associated session %d", draw.SessionID)
		}

		xcontext.Logger(ctx).Errorf("Cannot get session: %v", err)
		return nil, errorx.Unknown
	}

	excludes := []int64{}
	if draw.WinningTicketID.Valid {
		excludes = append(excludes, draw.WinningTicketID.Int64)
	}

	eligible, err := d.eligibility.Resolve(ctx, session.StationID, excludes...)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot resolve eligible tickets: %v", err)
		return nil, errorx.Unknown
	}

	// An empty pool closes the draw for good. A pool of used up tickets fails
	// in the selector and leaves the draw active.
	if len(eligible) == 0 {
		if err := d.drawRepo.UpdateStatus(ctx, draw.ID, entity.DrawActive, entity.DrawCompleted); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot complete draw: %v", err)
			return nil, errorx.Unknown
		}

		if _, err := xcontext.WithCommitDBTransaction(ctx); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot commit draw: %v", err)
			return nil, errorx.Unknown
		}

		return nil, errorx.New(errorx.NoEligibleEntries, "No more eligible tickets available for redraw")
	}

	winner, err := d.pickWinner(ctx, draw, eligible, d.now())
	if err != nil {
		return nil, err
	}

	if _, err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit redraw: %v", err)
		return nil, errorx.Unknown
	}

	resp := newConductDrawResponse(draw, winner, len(eligible))
	d.notifier.DrawWinner(ctx, resp.Draw, true)
	return resp, nil
}

func (d *drawDomain) CompleteDraw(
	ctx context.Context, req *model.CompleteDrawRequest,
) (*model.CompleteDrawResponse, error) {
	draw, err := d.getDraw(ctx, req.DrawID)
	if err != nil {
		return nil, err
	}

	if draw.Status != entity.DrawActive {
		return nil, errorx.New(errorx.InvalidState, "Draw is not active")
	}

	if err := d.drawRepo.UpdateStatus(ctx, draw.ID, entity.DrawActive, entity.DrawCompleted); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.InvalidState, "Draw is not active")
		}

		xcontext.Logger(ctx).Errorf("Cannot complete draw: %v", err)
		return nil, errorx.Unknown
	}

	draw.Status = entity.DrawCompleted
	return &model.CompleteDrawResponse{Draw: convertDraw(draw)}, nil
}

func (d *drawDomain) CancelDraw(
	ctx context.Context, req *model.CancelDrawRequest,
) (*model.CancelDrawResponse, error) {
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	draw, err := d.getDrawForUpdate(ctx, req.DrawID)
	if err != nil {
		return nil, err
	}

	switch draw.Status {
	case entity.DrawCompleted:
		return nil, errorx.New(errorx.InvalidState, "Cannot cancel a completed draw")
	case entity.DrawCancelled:
		return nil, errorx.New(errorx.InvalidState, "Draw is already cancelled")
	}

	if draw.WinningTicketID.Valid {
		err := d.ticketRepo.DecreaseUsedCount(ctx, draw.WinningTicketID.Int64)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				xcontext.Logger(ctx).Errorf("Cannot release ticket entry: %v", err)
				return nil, errorx.Unknown
			}

			xcontext.Logger(ctx).Warnf("Ticket %d of draw %d has no consumed entry to release",
				draw.WinningTicketID.Int64, draw.ID)
		}
	}

	if err := d.drawRepo.UpdateStatus(ctx, draw.ID, draw.Status, entity.DrawCancelled); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot cancel draw: %v", err)
		return nil, errorx.Unknown
	}

	if _, err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit draw cancellation: %v", err)
		return nil, errorx.Unknown
	}

	draw.Status = entity.DrawCancelled
	return &model.CancelDrawResponse{Draw: convertDraw(draw)}, nil
}

func (d *drawDomain) GetDrawByID(
	ctx context.Context, req *model.GetDrawRequest,
) (*model.GetDrawResponse, error) {
	draw, err := d.getDraw(ctx, req.DrawID)
	if err != nil {
		return nil, err
	}

	return &model.GetDrawResponse{Draw: convertDraw(draw)}, nil
}

func (d *drawDomain) GetDrawsBySession(
	ctx context.Context, req *model.GetDrawsBySessionRequest,
) (*model.GetDrawsBySessionResponse, error) {
	if _, err := d.sessionRepo.GetByID(ctx, req.SessionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found session %d", req.SessionID)
		}

		xcontext.Logger(ctx).Errorf("Cannot get session: %v", err)
		return nil, errorx.Unknown
	}

	draws, err := d.drawRepo.GetListBySessionID(ctx, req.SessionID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get draws of session: %v", err)
		return nil, errorx.Unknown
	}

	clientDraws := []model.Draw{}
	for i := range draws {
		clientDraws = append(clientDraws, convertDraw(&draws[i]))
	}

	return &model.GetDrawsBySessionResponse{Draws: clientDraws, Total: len(clientDraws)}, nil
}

func (d *drawDomain) GetDrawStats(
	ctx context.Context, req *model.GetDrawStatsRequest,
) (*model.GetDrawStatsResponse, error) {
	draw, err := d.getDraw(ctx, req.DrawID)
	if err != nil {
		return nil, err
	}

	session, err := d.sessionRepo.GetByID(ctx, draw.SessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found associated session %d", draw.SessionID)
		}

		xcontext.Logger(ctx).Errorf("Cannot get session: %v", err)
		return nil, errorx.Unknown
	}

	eligible, err := d.eligibility.Resolve(ctx, session.StationID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot resolve eligible tickets: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetDrawStatsResponse{
		Draw:            convertDraw(draw),
		EligibleTickets: len(eligible),
		TotalEntries:    draw.TotalEntries,
		WinnerDetails:   convertWinnerDetails(draw.WinnerDetails),
	}, nil
}

// pickWinner selects and records a winner of an active draw. draw is updated
// in place.
func (d *drawDomain) pickWinner(
	ctx context.Context,
	draw *entity.Draw,
	eligible []repository.TicketWithOwner,
	conductedAt time.Time,
) (*repository.TicketWithOwner, error) {
	winner, details, err := d.selector.Select(ctx, eligible)
	if err != nil {
		return nil, err
	}

	if err := d.drawRepo.UpdateWinner(ctx, draw.ID, winner.ID, details, conductedAt); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.Conflict, "Draw %d was changed concurrently", draw.ID)
		}

		xcontext.Logger(ctx).Errorf("Cannot save draw winner: %v", err)
		return nil, errorx.Unknown
	}

	draw.WinningTicketID = sql.NullInt64{Int64: winner.ID, Valid: true}
	draw.WinnerDetails = details
	draw.ConductedAt = sql.NullTime{Time: conductedAt, Valid: true}
	return winner, nil
}

func (d *drawDomain) nextDrawNumber(ctx context.Context, sessionID int64) (int, error) {
	n, err := d.drawRepo.GetMaxDrawNumber(ctx, sessionID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the last draw number: %v", err)
		return 0, errorx.Unknown
	}

	return n + 1, nil
}

func (d *drawDomain) createDraw(ctx context.Context, draw *entity.Draw) error {
	if err := d.drawRepo.Create(ctx, draw); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errorx.New(errorx.Conflict, "Draw number %d is already taken in session %d",
				draw.DrawNumber, draw.SessionID)
		}

		xcontext.Logger(ctx).Errorf("Cannot create draw: %v", err)
		return errorx.Unknown
	}

	return nil
}

func (d *drawDomain) getActiveSession(ctx context.Context, sessionID int64) (*entity.ShowSession, error) {
	session, err := d.sessionRepo.GetByIDForUpdate(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found session %d", sessionID)
		}

		xcontext.Logger(ctx).Errorf("Cannot get session: %v", err)
		return nil, errorx.Unknown
	}

	if session.Status != entity.SessionActive {
		return nil, errorx.New(errorx.InvalidState, "Session must be active to conduct a draw")
	}

	return session, nil
}

func (d *drawDomain) getDraw(ctx context.Context, drawID int64) (*entity.Draw, error) {
	draw, err := d.drawRepo.GetByID(ctx, drawID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found draw %d", drawID)
		}

		xcontext.Logger(ctx).Errorf("Cannot get draw: %v", err)
		return nil, errorx.Unknown
	}

	return draw, nil
}

func (d *drawDomain) getDrawForUpdate(ctx context.Context, drawID int64) (*entity.Draw, error) {
	draw, err := d.drawRepo.GetByIDForUpdate(ctx, drawID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found draw %d", drawID)
		}

		xcontext.Logger(ctx).Errorf("Cannot get draw: %v", err)
		return nil, errorx.Unknown
	}

	return draw, nil
}

func newConductDrawResponse(
	draw *entity.Draw, winner *repository.TicketWithOwner, totalEligible int,
) *model.ConductDrawResponse {
	resp := &model.ConductDrawResponse{
		Draw:                 convertDraw(draw),
		WinningTicket:        convertTicket(&winner.Ticket),
		TotalEligibleTickets: totalEligible,
	}

	if details := convertWinnerDetails(draw.WinnerDetails); details != nil {
		resp.WinnerDetails = *details
	}

	return resp
}
