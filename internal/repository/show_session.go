package repository

import (
	"context"
	"time"

	"github.com/airtime-lab/backend/internal/entity"
	"github.com/airtime-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ShowSessionRepository interface {
	Create(ctx context.Context, data *entity.ShowSession) error
	GetByID(ctx context.Context, id int64) (*entity.ShowSession, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*entity.ShowSession, error)
	GetOpenByShowID(ctx context.Context, showID int64) (*entity.ShowSession, error)
	GetLastEndedByStationID(ctx context.Context, stationID int64) (*entity.ShowSession, error)
	UpdateStatus(ctx context.Context, id int64, from []entity.ShowSessionStatus, to entity.ShowSessionStatus) error
	End(ctx context.Context, id int64, endTime time.Time) error
}

type showSessionRepository struct{}

func NewShowSessionRepository() *showSessionRepository {
	return &showSessionRepository{}
}

func (r *showSessionRepository) Create(ctx context.Context, data *entity.ShowSession) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *showSessionRepository) GetByID(ctx context.Context, id int64) (*entity.ShowSession, error) {
	var result entity.ShowSession
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

// GetByIDForUpdate locks the session row until the running transaction ends.
func (r *showSessionRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entity.ShowSession, error) {
	var result entity.ShowSession
	err := xcontext.DB(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Take(&result, "id=?", id).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *showSessionRepository) GetOpenByShowID(ctx context.Context, showID int64) (*entity.ShowSession, error) {
	var result entity.ShowSession
	if err := xcontext.DB(ctx).Take(&result, "open_show_id=?", showID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *showSessionRepository) GetLastEndedByStationID(
	ctx context.Context, stationID int64,
) (*entity.ShowSession, error) {
	var result entity.ShowSession
	err := xcontext.DB(ctx).
		Where("station_id=? AND status=? AND end_time IS NOT NULL", stationID, entity.SessionEnded).
		Order("end_time DESC").
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *showSessionRepository) UpdateStatus(
	ctx context.Context, id int64, from []entity.ShowSessionStatus, to entity.ShowSessionStatus,
) error {
	tx := xcontext.DB(ctx).Model(&entity.ShowSession{}).
		Where("id=? AND status IN (?)", id, from).
		Update("status", to)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// End closes an active or paused session and releases its show.
func (r *showSessionRepository) End(ctx context.Context, id int64, endTime time.Time) error {
	tx := xcontext.DB(ctx).Model(&entity.ShowSession{}).
		Where("id=? AND status IN (?)", id, []entity.ShowSessionStatus{entity.SessionActive, entity.SessionPaused}).
		Updates(map[string]any{
			"status":       entity.SessionEnded,
			"end_time":     endTime,
			"open_show_id": nil,
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
