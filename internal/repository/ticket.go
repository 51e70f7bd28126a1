package repository

import (
	"context"
	"time"

	"github.com/airtime-lab/backend/internal/entity"
	"github.com/airtime-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type EligibleTicketFilter struct {
	StationID        int64
	CreatedFrom      time.Time
	CreatedBefore    time.Time
	ExcludeTicketIDs []int64
}

type PeriodTicketFilter struct {
	StationID   int64
	PeriodStart time.Time
	PeriodEnd   time.Time
}

// TicketWithOwner is a ticket joined with the public fields of its owner.
type TicketWithOwner struct {
	entity.Ticket

	UserName  string
	UserEmail string
}

type TicketRepository interface {
	Create(ctx context.Context, data *entity.Ticket) error
	CreateMany(ctx context.Context, data []*entity.Ticket) error
	GetByID(ctx context.Context, id int64) (*entity.Ticket, error)
	GetListByUserID(ctx context.Context, userID int64) ([]entity.Ticket, error)
	GetEligible(ctx context.Context, filter EligibleTicketFilter) ([]TicketWithOwner, error)
	GetInPeriod(ctx context.Context, filter PeriodTicketFilter) ([]entity.Ticket, error)
	CountByDrawID(ctx context.Context, drawID int64) (int64, error)
	IncreaseUsedCount(ctx context.Context, id int64) error
	DecreaseUsedCount(ctx context.Context, id int64) error
	Invalidate(ctx context.Context, id int64, at time.Time) error
}

type ticketRepository struct{}

func NewTicketRepository() *ticketRepository {
	return &ticketRepository{}
}

func (r *ticketRepository) Create(ctx context.Context, data *entity.Ticket) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *ticketRepository) CreateMany(ctx context.Context, data []*entity.Ticket) error {
	if len(data) == 0 {
		return nil
	}

	return xcontext.DB(ctx).Create(data).Error
}

func (r *ticketRepository) GetByID(ctx context.Context, id int64) (*entity.Ticket, error) {
	var result entity.Ticket
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *ticketRepository) GetListByUserID(ctx context.Context, userID int64) ([]entity.Ticket, error) {
	var result []entity.Ticket
	err := xcontext.DB(ctx).
		Where("user_id=?", userID).
		Order("created_at DESC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

// GetEligible returns the active, not invalidated and not expired tickets of a
// station created in [CreatedFrom, CreatedBefore), oldest first.
func (r *ticketRepository) GetEligible(
	ctx context.Context, filter EligibleTicketFilter,
) ([]TicketWithOwner, error) {
	tx := xcontext.DB(ctx).Model(&entity.Ticket{}).
		Select("tickets.*, COALESCE(users.name, '') AS user_name, COALESCE(users.email, '') AS user_email").
		Joins("LEFT JOIN users ON users.id = tickets.user_id").
		Where("tickets.station_id=?", filter.StationID).
		Where("tickets.is_active=?", true).
		Where("tickets.created_at >= ? AND tickets.created_at < ?", filter.CreatedFrom, filter.CreatedBefore).
		Where("tickets.invalidated_at IS NULL").
		Where("tickets.expires_at IS NULL OR tickets.expires_at > ?", filter.CreatedBefore)

	if len(filter.ExcludeTicketIDs) > 0 {
		tx = tx.Where("tickets.id NOT IN (?)", filter.ExcludeTicketIDs)
	}

	var result []TicketWithOwner
	if err := tx.Order("tickets.created_at ASC, tickets.id ASC").Scan(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

// GetInPeriod returns the active, not invalidated tickets of a station created
// in [PeriodStart, PeriodEnd].
func (r *ticketRepository) GetInPeriod(
	ctx context.Context, filter PeriodTicketFilter,
) ([]entity.Ticket, error) {
	var result []entity.Ticket
	err := xcontext.DB(ctx).
		Where("station_id=?", filter.StationID).
		Where("is_active=?", true).
		Where("invalidated_at IS NULL").
		Where("created_at >= ? AND created_at <= ?", filter.PeriodStart, filter.PeriodEnd).
		Order("created_at ASC, id ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *ticketRepository) CountByDrawID(ctx context.Context, drawID int64) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.Ticket{}).
		Where("draw_id=? AND invalidated_at IS NULL", drawID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// IncreaseUsedCount consumes one entry of the ticket. It returns
// gorm.ErrRecordNotFound if the ticket has no entry left.
func (r *ticketRepository) IncreaseUsedCount(ctx context.Context, id int64) error {
	tx := xcontext.DB(ctx).Model(&entity.Ticket{}).
		Where("id=? AND used_count < quantity", id).
		Update("used_count", gorm.Expr("used_count+?", 1))
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// DecreaseUsedCount gives back one entry of the ticket. It returns
// gorm.ErrRecordNotFound if no entry of the ticket is consumed.
func (r *ticketRepository) DecreaseUsedCount(ctx context.Context, id int64) error {
	tx := xcontext.DB(ctx).Model(&entity.Ticket{}).
		Where("id=? AND used_count > 0", id).
		Update("used_count", gorm.Expr("used_count-?", 1))
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *ticketRepository) Invalidate(ctx context.Context, id int64, at time.Time) error {
	tx := xcontext.DB(ctx).Model(&entity.Ticket{}).
		Where("id=? AND invalidated_at IS NULL", id).
		Updates(map[string]any{
			"invalidated_at": at,
			"is_active":      false,
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
