package entity

import (
	"database/sql"
	"time"

	"github.com/airtime-lab/backend/pkg/enum"
)

type ShowSessionStatus string

var (
	SessionActive = enum.New(ShowSessionStatus("active"), "active")
	SessionPaused = enum.New(ShowSessionStatus("paused"), "paused")
	SessionEnded  = enum.New(ShowSessionStatus("ended"), "ended")
)

type ShowSession struct {
	Base

	ShowID    int64 `gorm:"index"`
	StationID int64 `gorm:"index"`
	UserID    int64

	StartTime   time.Time
	EndTime     sql.NullTime `gorm:"index"`
	Status      ShowSessionStatus
	SessionDate time.Time

	// OpenShowID equals ShowID until the session ends. The unique index keeps
	// a single open session per show.
	OpenShowID sql.NullInt64 `gorm:"uniqueIndex"`
}
