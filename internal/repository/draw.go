package repository

import (
	"context"
	"time"

	"github.com/airtime-lab/backend/internal/entity"
	"github.com/airtime-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DrawRepository interface {
	Create(ctx context.Context, data *entity.Draw) error
	GetByID(ctx context.Context, id int64) (*entity.Draw, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*entity.Draw, error)
	GetListBySessionID(ctx context.Context, sessionID int64) ([]entity.Draw, error)
	GetMaxDrawNumber(ctx context.Context, sessionID int64) (int, error)
	UpdateWinner(ctx context.Context, id int64, ticketID int64, details *entity.DrawWinnerDetails, conductedAt time.Time) error
	UpdateStatus(ctx context.Context, id int64, from entity.DrawStatus, to entity.DrawStatus) error
	Activate(ctx context.Context, id int64, totalEntries int) error
}

type drawRepository struct{}

func NewDrawRepository() *drawRepository {
	return &drawRepository{}
}

func (r *drawRepository) Create(ctx context.Context, data *entity.Draw) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *drawRepository) GetByID(ctx context.Context, id int64) (*entity.Draw, error) {
	var result entity.Draw
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *drawRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entity.Draw, error) {
	var result entity.Draw
	err := xcontext.DB(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Take(&result, "id=?", id).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *drawRepository) GetListBySessionID(ctx context.Context, sessionID int64) ([]entity.Draw, error) {
	var result []entity.Draw
	err := xcontext.DB(ctx).
		Where("session_id=?", sessionID).
		Order("draw_number ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

// GetMaxDrawNumber returns the highest draw number of the session, 0 if the
// session has no draw.
func (r *drawRepository) GetMaxDrawNumber(ctx context.Context, sessionID int64) (int, error) {
	var result int
	err := xcontext.DB(ctx).Model(&entity.Draw{}).
		Select("COALESCE(MAX(draw_number), 0)").
		Where("session_id=?", sessionID).
		Scan(&result).Error
	if err != nil {
		return 0, err
	}

	return result, nil
}

// UpdateWinner sets the winner of an active draw.
func (r *drawRepository) UpdateWinner(
	ctx context.Context,
	id int64,
	ticketID int64,
	details *entity.DrawWinnerDetails,
	conductedAt time.Time,
) error {
	tx := xcontext.DB(ctx).Model(&entity.Draw{}).
		Where("id=? AND status=?", id, entity.DrawActive).
		Updates(map[string]any{
			"winning_ticket_id": ticketID,
			"winner_details":    details,
			"conducted_at":      conductedAt,
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *drawRepository) UpdateStatus(ctx context.Context, id int64, from, to entity.DrawStatus) error {
	tx := xcontext.DB(ctx).Model(&entity.Draw{}).
		Where("id=? AND status=?", id, from).
		Update("status", to)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// Activate moves a pending draw to active and records the size of its pool.
func (r *drawRepository) Activate(ctx context.Context, id int64, totalEntries int) error {
	tx := xcontext.DB(ctx).Model(&entity.Draw{}).
		Where("id=? AND status=?", id, entity.DrawPending).
		Updates(map[string]any{
			"status":        entity.DrawActive,
			"total_entries": totalEntries,
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
