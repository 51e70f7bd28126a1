package entity

import (
	"database/sql"
	"database/sql/driver"
	"time"

	"github.com/airtime-lab/backend/pkg/enum"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type JackpotPeriod string

var (
	PeriodDaily     = enum.New(JackpotPeriod("daily"), "daily")
	PeriodWeekly    = enum.New(JackpotPeriod("weekly"), "weekly")
	PeriodBiweekly  = enum.New(JackpotPeriod("biweekly"), "biweekly")
	PeriodMonthly   = enum.New(JackpotPeriod("monthly"), "monthly")
	PeriodQuarterly = enum.New(JackpotPeriod("quarterly"), "quarterly")
	PeriodCustom    = enum.New(JackpotPeriod("custom"), "custom")
)

type JackpotDraw struct {
	Base

	Title       string
	Description string
	StationID   int64 `gorm:"index"`
	ShowID      sql.NullInt64
	DrawPeriod  JackpotPeriod

	PeriodStart time.Time
	PeriodEnd   time.Time
	ScheduledAt time.Time
	ConductedAt sql.NullTime

	PrizeAmount     decimal.Decimal `gorm:"type:decimal(10,2)"`
	Status          DrawStatus      `gorm:"index"`
	JackpotSettings datatypes.JSONMap

	WinningTicketID sql.NullInt64
	WinnerDetails   *JackpotWinner
	PreviousWinners Array[JackpotWinner]

	TotalTickets  int
	TotalEntries  int
	EligibleUsers int
}

type JackpotWinner struct {
	UserID   int64  `json:"userId,string"`
	TicketID int64  `json:"ticketId,string"`
	Phone    string `json:"phone"`
}

// Complete reports whether all identifying fields of the winner are set.
func (w *JackpotWinner) Complete() bool {
	return w != nil && w.UserID != 0 && w.TicketID != 0 && w.Phone != ""
}

func (w *JackpotWinner) Scan(obj any) error {
	return scanJSON(obj, w)
}

func (w JackpotWinner) Value() (driver.Value, error) {
	return valueJSON(w)
}

func (JackpotWinner) GormDataType() string {
	return "json"
}
