package entity

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/airtime-lab/backend/pkg/enum"
	"gorm.io/datatypes"
)

type DrawStatus string

var (
	DrawPending   = enum.New(DrawStatus("pending"), "pending")
	DrawActive    = enum.New(DrawStatus("active"), "active")
	DrawCompleted = enum.New(DrawStatus("completed"), "completed")
	DrawCancelled = enum.New(DrawStatus("cancelled"), "cancelled")
)

type Draw struct {
	Base

	Title       string
	Description string
	SessionID   int64 `gorm:"uniqueIndex:idx_draw_session_number,priority:1"`
	ShowID      int64 `gorm:"index"`
	DrawNumber  int   `gorm:"uniqueIndex:idx_draw_session_number,priority:2"`

	ScheduledAt     time.Time
	ConductedAt     sql.NullTime
	WinningTicketID sql.NullInt64
	Status          DrawStatus `gorm:"index"`

	MaxEntries    sql.NullInt64
	EntryDeadline sql.NullTime
	Prizes        datatypes.JSONMap
	DrawSettings  datatypes.JSONMap

	WinnerDetails *DrawWinnerDetails
	TotalEntries  int
}

type DrawWinnerDetails struct {
	TicketUUID   string    `json:"ticketUuid"`
	UserID       int64     `json:"userId,string"`
	UserName     string    `json:"userName"`
	UserEmail    string    `json:"userEmail"`
	SelectedAt   time.Time `json:"selectedAt"`
	EntryNumber  int       `json:"entryNumber"`
	TotalEntries int       `json:"totalEntries"`
}

func (d *DrawWinnerDetails) Scan(obj any) error {
	return scanJSON(obj, d)
}

func (d DrawWinnerDetails) Value() (driver.Value, error) {
	return valueJSON(d)
}

func (DrawWinnerDetails) GormDataType() string {
	return "json"
}

func scanJSON(obj any, dst any) error {
	switch t := obj.(type) {
	case string:
		return json.Unmarshal([]byte(t), dst)
	case []byte:
		return json.Unmarshal(t, dst)
	}

	return fmt.Errorf("cannot scan invalid data type %T", obj)
}

func valueJSON(v any) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	return string(b), nil
}
