package model

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/shopspring/decimal"
)

var drawPeriods = []any{"daily", "weekly", "biweekly", "monthly", "quarterly", "custom"}

type CreateJackpotDrawRequest struct {
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	StationID       int64           `json:"station_id,string"`
	ShowID          int64           `json:"show_id,string"`
	DrawPeriod      string          `json:"draw_period"`
	PeriodStart     time.Time       `json:"period_start"`
	PeriodEnd       time.Time       `json:"period_end"`
	ScheduledAt     time.Time       `json:"scheduled_at"`
	PrizeAmount     decimal.Decimal `json:"prize_amount"`
	JackpotSettings map[string]any  `json:"jackpot_settings"`
}

func (r *CreateJackpotDrawRequest) Validate() error {
	return validation.ValidateStruct(
		r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.StationID, validation.Required),
		validation.Field(&r.DrawPeriod, validation.Required, validation.In(drawPeriods...)),
		validation.Field(&r.PeriodStart, validation.Required),
		validation.Field(&r.PeriodEnd, validation.Required, validation.By(func(any) error {
			if r.PeriodEnd.Before(r.PeriodStart) {
				return errors.New("must not be before period start")
			}
			return nil
		})),
		validation.Field(&r.ScheduledAt, validation.Required),
		validation.Field(&r.PrizeAmount, validation.By(func(any) error {
			if !r.PrizeAmount.IsPositive() {
				return errors.New("must be a positive amount")
			}
			return nil
		})),
	)
}

type CreateJackpotDrawResponse struct {
	Draw JackpotDraw `json:"draw"`
}

type ConductJackpotDrawRequest struct {
	DrawID int64 `json:"draw_id,string"`
	ShowID int64 `json:"show_id,string"`
}

type ConductJackpotDrawResponse struct {
	Draw JackpotDraw `json:"draw"`
}

type RedrawJackpotDrawRequest struct {
	DrawID int64 `json:"draw_id,string"`
}

type RedrawJackpotDrawResponse struct {
	Draw JackpotDraw `json:"draw"`
}

type CancelJackpotDrawRequest struct {
	DrawID int64 `json:"draw_id,string"`
}

type CancelJackpotDrawResponse struct {
	Draw JackpotDraw `json:"draw"`
}

type GetJackpotDrawRequest struct {
	DrawID int64 `form:"draw_id"`
}

type GetJackpotDrawResponse struct {
	Draw JackpotDraw `json:"draw"`
}

type GetListJackpotDrawRequest struct {
	StationID int64  `form:"station_id"`
	Status    string `form:"status"`
	Offset    int    `form:"offset"`
	Limit     int    `form:"limit"`
}

type GetListJackpotDrawResponse struct {
	Draws []JackpotDraw `json:"draws"`
}
