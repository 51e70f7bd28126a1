package repository

import (
	"context"

	"github.com/airtime-lab/backend/internal/entity"
	"github.com/airtime-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type JackpotDrawRepository interface {
	Create(ctx context.Context, data *entity.JackpotDraw) error
	GetByID(ctx context.Context, id int64) (*entity.JackpotDraw, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*entity.JackpotDraw, error)
	GetList(ctx context.Context, filter GetListJackpotDrawFilter) ([]entity.JackpotDraw, error)
	UpdateByID(ctx context.Context, id int64, from entity.DrawStatus, data map[string]any) error
}

type GetListJackpotDrawFilter struct {
	StationID int64
	Status    entity.DrawStatus
	Offset    int
	Limit     int
}

type jackpotDrawRepository struct{}

func NewJackpotDrawRepository() *jackpotDrawRepository {
	return &jackpotDrawRepository{}
}

func (r *jackpotDrawRepository) Create(ctx context.Context, data *entity.JackpotDraw) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *jackpotDrawRepository) GetByID(ctx context.Context, id int64) (*entity.JackpotDraw, error) {
	var result entity.JackpotDraw
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *jackpotDrawRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entity.JackpotDraw, error) {
	var result entity.JackpotDraw
	err := xcontext.DB(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Take(&result, "id=?", id).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *jackpotDrawRepository) GetList(
	ctx context.Context, filter GetListJackpotDrawFilter,
) ([]entity.JackpotDraw, error) {
	tx := xcontext.DB(ctx).Model(&entity.JackpotDraw{})
	if filter.StationID != 0 {
		tx = tx.Where("station_id=?", filter.StationID)
	}

	if filter.Status != "" {
		tx = tx.Where("status=?", filter.Status)
	}

	if filter.Limit > 0 {
		tx = tx.Offset(filter.Offset).Limit(filter.Limit)
	}

	var result []entity.JackpotDraw
	if err := tx.Order("scheduled_at DESC, id DESC").Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

// UpdateByID applies data to the draw if it is still in status from.
func (r *jackpotDrawRepository) UpdateByID(
	ctx context.Context, id int64, from entity.DrawStatus, data map[string]any,
) error {
	tx := xcontext.DB(ctx).Model(&entity.JackpotDraw{}).
		Where("id=? AND status=?", id, from).
		Updates(data)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
