package model

type Ticket struct {
	ID            string `json:"id"`
	TicketUUID    string `json:"ticket_uuid"`
	UserID        string `json:"user_id"`
	StationID     string `json:"station_id"`
	DrawID        string `json:"draw_id,omitempty"`
	Quantity      int    `json:"quantity"`
	UsedCount     int    `json:"used_count"`
	IsActive      bool   `json:"is_active"`
	ExpiresAt     string `json:"expires_at,omitempty"`
	InvalidatedAt string `json:"invalidated_at,omitempty"`
	CreatedAt     string `json:"created_at"`
}

type ShowSession struct {
	ID          string `json:"id"`
	ShowID      string `json:"show_id"`
	StationID   string `json:"station_id"`
	UserID      string `json:"user_id"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time,omitempty"`
	Status      string `json:"status"`
	SessionDate string `json:"session_date"`
}

type WinnerDetails struct {
	TicketUUID   string `json:"ticket_uuid"`
	UserID       string `json:"user_id"`
	UserName     string `json:"user_name"`
	UserEmail    string `json:"user_email"`
	SelectedAt   string `json:"selected_at"`
	EntryNumber  int    `json:"entry_number"`
	TotalEntries int    `json:"total_entries"`
}

type Draw struct {
	ID              string         `json:"id"`
	Title           string         `json:"title"`
	Description     string         `json:"description"`
	SessionID       string         `json:"session_id"`
	ShowID          string         `json:"show_id"`
	DrawNumber      int            `json:"draw_number"`
	ScheduledAt     string         `json:"scheduled_at"`
	ConductedAt     string         `json:"conducted_at,omitempty"`
	WinningTicketID string         `json:"winning_ticket_id,omitempty"`
	Status          string         `json:"status"`
	MaxEntries      int            `json:"max_entries,omitempty"`
	EntryDeadline   string         `json:"entry_deadline,omitempty"`
	Prizes          map[string]any `json:"prizes,omitempty"`
	DrawSettings    map[string]any `json:"draw_settings,omitempty"`
	WinnerDetails   *WinnerDetails `json:"winner_details"`
	TotalEntries    int            `json:"total_entries"`
	CreatedAt       string         `json:"created_at"`
}

type JackpotWinner struct {
	UserID   string `json:"user_id"`
	TicketID string `json:"ticket_id"`
	Phone    string `json:"phone"`
}

type JackpotDraw struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	StationID       string          `json:"station_id"`
	ShowID          string          `json:"show_id,omitempty"`
	DrawPeriod      string          `json:"draw_period"`
	PeriodStart     string          `json:"period_start"`
	PeriodEnd       string          `json:"period_end"`
	ScheduledAt     string          `json:"scheduled_at"`
	ConductedAt     string          `json:"conducted_at,omitempty"`
	PrizeAmount     string          `json:"prize_amount"`
	Status          string          `json:"status"`
	JackpotSettings map[string]any  `json:"jackpot_settings,omitempty"`
	WinningTicketID string          `json:"winning_ticket_id,omitempty"`
	WinnerDetails   *JackpotWinner  `json:"winner_details"`
	PreviousWinners []JackpotWinner `json:"previous_winners"`
	TotalTickets    int             `json:"total_tickets"`
	TotalEntries    int             `json:"total_entries"`
	EligibleUsers   int             `json:"eligible_users"`
	CreatedAt       string          `json:"created_at"`
}
