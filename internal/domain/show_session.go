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
	"github.com/airtime-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type ShowSessionDomain interface {
	Start(context.Context, *model.StartShowSessionRequest) (*model.StartShowSessionResponse, error)
	Pause(context.Context, *model.PauseShowSessionRequest) (*model.PauseShowSessionResponse, error)
	Resume(context.Context, *model.ResumeShowSessionRequest) (*model.ResumeShowSessionResponse, error)
	End(context.Context, *model.EndShowSessionRequest) (*model.EndShowSessionResponse, error)
	Get(context.Context, *model.GetShowSessionRequest) (*model.GetShowSessionResponse, error)
}

type showSessionDomain struct {
	sessionRepo repository.ShowSessionRepository
	drawRepo    repository.DrawRepository
	now         func() time.Time
}

func NewShowSessionDomain(
	sessionRepo repository.ShowSessionRepository,
	drawRepo repository.DrawRepository,
) *showSessionDomain {
	return &showSessionDomain{
		sessionRepo: sessionRepo,
		drawRepo:    drawRepo,
		now:         utcNow,
	}
}

func (d *showSessionDomain) Start(
	ctx context.Context, req *model.StartShowSessionRequest,
) (*model.StartShowSessionResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == 0 {
		return nil, errorx.New(errorx.Unauthenticated, "Require an operator to start a session")
	}

	if req.ShowID == 0 || req.StationID == 0 {
		return nil, errorx.New(errorx.BadRequest, "Require show id and station id")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	_, err := d.sessionRepo.GetOpenByShowID(ctx, req.ShowID)
	if err == nil {
		return nil, errorx.New(errorx.Conflict, "There is already an active session for this show")
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get open session of show: %v", err)
		return nil, errorx.Unknown
	}

	now := d.now()
	session := &entity.ShowSession{
		Base:        entity.Base{ID: idutil.NewID()},
		ShowID:      req.ShowID,
		StationID:   req.StationID,
		UserID:      userID,
		StartTime:   now,
		Status:      entity.SessionActive,
		SessionDate: now.Truncate(24 * time.Hour),
		OpenShowID:  sql.NullInt64{Int64: req.ShowID, Valid: true},
	}

	if err := d.sessionRepo.Create(ctx, session); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errorx.New(errorx.Conflict, "There is already an active session for this show")
		}

		xcontext.Logger(ctx).Errorf("Cannot create session: %v", err)
		return nil, errorx.Unknown
	}

	if _, err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit session creation: %v", err)
		return nil, errorx.Unknown
	}

	return &model.StartShowSessionResponse{Session: convertShowSession(session)}, nil
}

func (d *showSessionDomain) Pause(
	ctx context.Context, req *model.PauseShowSessionRequest,
) (*model.PauseShowSessionResponse, error) {
	err := d.changeStatus(ctx, req.SessionID, entity.SessionActive, entity.SessionPaused)
	if err != nil {
		return nil, err
	}

	return &model.PauseShowSessionResponse{}, nil
}

func (d *showSessionDomain) Resume(
	ctx context.Context, req *model.ResumeShowSessionRequest,
) (*model.ResumeShowSessionResponse, error) {
	err := d.changeStatus(ctx, req.SessionID, entity.SessionPaused, entity.SessionActive)
	if err != nil {
		return nil, err
	}

	return &model.ResumeShowSessionResponse{}, nil
}

func (d *showSessionDomain) End(
	ctx context.Context, req *model.EndShowSessionRequest,
) (*model.EndShowSessionResponse, error) {
	session, err := d.getSession(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}

	if session.Status == entity.SessionEnded {
		return nil, errorx.New(errorx.InvalidState, "Session is already ended")
	}

	endTime := d.now()
	if err := d.sessionRepo.End(ctx, session.ID, endTime); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.Conflict, "Session %d was changed concurrently", session.ID)
		}

		xcontext.Logger(ctx).Errorf("Cannot end session: %v", err)
		return nil, errorx.Unknown
	}

	session.Status = entity.SessionEnded
	session.EndTime = sql.NullTime{Time: endTime, Valid: true}
	session.OpenShowID = sql.NullInt64{}

	return &model.EndShowSessionResponse{Session: convertShowSession(session)}, nil
}

func (d *showSessionDomain) Get(
	ctx context.Context, req *model.GetShowSessionRequest,
) (*model.GetShowSessionResponse, error) {
	session, err := d.getSession(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}

	draws, err := d.drawRepo.GetListBySessionID(ctx, session.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get draws of session: %v", err)
		return nil, errorx.Unknown
	}

	stats := model.ShowSessionStats{TotalDraws: len(draws)}
	clientDraws := []model.Draw{}
	for i := range draws {
		switch draws[i].Status {
		case entity.DrawPending:
			stats.PendingDraws++
		case entity.DrawActive:
			stats.ActiveDraws++
		case entity.DrawCompleted:
			stats.CompletedDraws++
		case entity.DrawCancelled:
			stats.CancelledDraws++
		}

		if draws[i].WinningTicketID.Valid {
			stats.TotalWinners++
		}

		stats.TotalEntries += draws[i].TotalEntries
		clientDraws = append(clientDraws, convertDraw(&draws[i]))
	}

	return &model.GetShowSessionResponse{
		Session: convertShowSession(session),
		Draws:   clientDraws,
		Stats:   stats,
	}, nil
}

func (d *showSessionDomain) changeStatus(
	ctx context.Context, sessionID int64, from, to entity.ShowSessionStatus,
) error {
	session, err := d.getSession(ctx, sessionID)
	if err != nil {
		return err
	}

	if session.Status != from {
		return errorx.New(errorx.InvalidState, "Session is %s, not %s", session.Status, from)
	}

	err = d.sessionRepo.UpdateStatus(ctx, session.ID, []entity.ShowSessionStatus{from}, to)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorx.New(errorx.Conflict, "Session %d was changed concurrently", session.ID)
		}

		xcontext.Logger(ctx).Errorf("Cannot update session status: %v", err)
		return errorx.Unknown
	}

	return nil
}

func (d *showSessionDomain) getSession(ctx context.Context, sessionID int64) (*entity.ShowSession, error) {
	session, err := d.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found session %d", sessionID)
		}

		xcontext.Logger(ctx).Errorf("Cannot get session: %v", err)
		return nil, errorx.Unknown
	}

	return session, nil
}
