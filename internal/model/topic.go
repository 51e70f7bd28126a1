package model

var (
	DrawWinnerTopic    = "DRAW_WINNER"
	JackpotWinnerTopic = "JACKPOT_WINNER"
	TicketIssuedTopic  = "TICKET_ISSUED"
)

type DrawWinnerEvent struct {
	DrawID        string        `json:"draw_id"`
	SessionID     string        `json:"session_id"`
	ShowID        string        `json:"show_id"`
	DrawNumber    int           `json:"draw_number"`
	TicketID      string        `json:"ticket_id"`
	WinnerDetails WinnerDetails `json:"winner_details"`
	Redraw        bool          `json:"redraw"`
}

type JackpotWinnerEvent struct {
	DrawID      string        `json:"draw_id"`
	StationID   string        `json:"station_id"`
	PrizeAmount string        `json:"prize_amount"`
	Winner      JackpotWinner `json:"winner"`
}

type TicketIssuedEvent struct {
	UserID    string   `json:"user_id"`
	StationID string   `json:"station_id"`
	TicketIDs []string `json:"ticket_ids"`
}
