package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateDrawRequest struct {
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	SessionID     int64          `json:"session_id,string"`
	ShowID        int64          `json:"show_id,string"`
	ScheduledAt   time.Time      `json:"scheduled_at"`
	MaxEntries    int            `json:"max_entries"`
	EntryDeadline *time.Time     `json:"entry_deadline"`
	Prizes        map[string]any `json:"prizes"`
	DrawSettings  map[string]any `json:"draw_settings"`
}

func (r *CreateDrawRequest) Validate() error {
	return validation.ValidateStruct(
		r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.SessionID, validation.Required),
		validation.Field(&r.ShowID, validation.Required),
		validation.Field(&r.MaxEntries, validation.Min(0)),
	)
}

type CreateDrawResponse struct {
	Draw Draw `json:"draw"`
}

type ConductDrawRequest struct {
	SessionID    int64          `json:"session_id,string"`
	ShowID       int64          `json:"show_id,string"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	MaxEntries   int            `json:"max_entries"`
	Prizes       map[string]any `json:"prizes"`
	DrawSettings map[string]any `json:"draw_settings"`
}

func (r *ConductDrawRequest) Validate() error {
	return validation.ValidateStruct(
		r,
		validation.Field(&r.SessionID, validation.Required),
		validation.Field(&r.ShowID, validation.Required),
		validation.Field(&r.Title, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.MaxEntries, validation.Min(0)),
	)
}

type ConductDrawResponse struct {
	Draw                 Draw          `json:"draw"`
	WinningTicket        Ticket        `json:"winning_ticket"`
	TotalEligibleTickets int           `json:"total_eligible_tickets"`
	WinnerDetails        WinnerDetails `json:"winner_details"`
}

type ConductPendingDrawRequest struct {
	DrawID int64 `json:"draw_id,string"`
}

type ConductPendingDrawResponse = ConductDrawResponse

type RedrawRequest struct {
	DrawID int64 `json:"draw_id,string"`
}

type RedrawResponse = ConductDrawResponse

type CompleteDrawRequest struct {
	DrawID int64 `json:"draw_id,string"`
}

type CompleteDrawResponse struct {
	Draw Draw `json:"draw"`
}

type CancelDrawRequest struct {
	DrawID int64 `json:"draw_id,string"`
}

type CancelDrawResponse struct {
	Draw Draw `json:"draw"`
}

type GetDrawRequest struct {
	DrawID int64 `form:"draw_id"`
}

type GetDrawResponse struct {
	Draw Draw `json:"draw"`
}

type GetDrawsBySessionRequest struct {
	SessionID int64 `form:"session_id"`
}

type GetDrawsBySessionResponse struct {
	Draws []Draw `json:"draws"`
	Total int    `json:"total"`
}

type GetDrawStatsRequest struct {
	DrawID int64 `form:"draw_id"`
}

type GetDrawStatsResponse struct {
	Draw            Draw           `json:"draw"`
	EligibleTickets int            `json:"eligible_tickets"`
	TotalEntries    int            `json:"total_entries"`
	WinnerDetails   *WinnerDetails `json:"winner_details"`
}
