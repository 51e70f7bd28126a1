package entity

import (
	"database/sql"
)

type Ticket struct {
	Base

	TicketUUID string `gorm:"uniqueIndex;size:36"`
	UserID     int64  `gorm:"index"`
	StationID  int64  `gorm:"index"`
	DrawID     sql.NullInt64

	Quantity  int
	UsedCount int
	IsActive  bool

	ExpiresAt     sql.NullTime
	InvalidatedAt sql.NullTime
}

// AvailableEntries returns the number of entries the ticket still holds in
// the pool.
func (t *Ticket) AvailableEntries() int {
	if t.UsedCount >= t.Quantity {
		return 0
	}

	return t.Quantity - t.UsedCount
}
