package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

type IssueTicketsRequest struct {
	UserID    int64      `json:"user_id,string"`
	StationID int64      `json:"station_id,string"`
	DrawID    *int64     `json:"draw_id,string"`
	Quantity  int        `json:"quantity"`
	ExpiresAt *time.Time `json:"expires_at"`
}

func (r *IssueTicketsRequest) Validate() error {
	return validation.ValidateStruct(
		r,
		validation.Field(&r.UserID, validation.Required),
		validation.Field(&r.StationID, validation.Required),
		validation.Field(&r.Quantity, validation.Required, validation.Min(1), validation.Max(100)),
	)
}

type IssueTicketsResponse struct {
	Tickets []Ticket `json:"tickets"`
}

type IssueTicketsFromPaymentRequest struct {
	UserID      int64  `json:"user_id,string"`
	Description string `json:"description"`
}

type InvalidateTicketRequest struct {
	TicketID int64 `json:"ticket_id,string"`
}

type InvalidateTicketResponse struct{}

type GetMyTicketsRequest struct{}

type GetMyTicketsResponse struct {
	Tickets []Ticket `json:"tickets"`
}
