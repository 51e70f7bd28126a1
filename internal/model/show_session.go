package model

type StartShowSessionRequest struct {
	ShowID    int64 `json:"show_id,string"`
	StationID int64 `json:"station_id,string"`
}

type StartShowSessionResponse struct {
	Session ShowSession `json:"session"`
}

type PauseShowSessionRequest struct {
	SessionID int64 `json:"session_id,string"`
}

type PauseShowSessionResponse struct{}

type ResumeShowSessionRequest struct {
	SessionID int64 `json:"session_id,string"`
}

type ResumeShowSessionResponse struct{}

type EndShowSessionRequest struct {
	SessionID int64 `json:"session_id,string"`
}

type EndShowSessionResponse struct {
	Session ShowSession `json:"session"`
}

type GetShowSessionRequest struct {
	SessionID int64 `form:"session_id"`
}

type ShowSessionStats struct {
	TotalDraws     int `json:"total_draws"`
	CompletedDraws int `json:"completed_draws"`
	PendingDraws   int `json:"pending_draws"`
	ActiveDraws    int `json:"active_draws"`
	CancelledDraws int `json:"cancelled_draws"`
	TotalWinners   int `json:"total_winners"`
	TotalEntries   int `json:"total_entries"`
}

type GetShowSessionResponse struct {
	Session ShowSession      `json:"session"`
	Draws   []Draw           `json:"draws"`
	Stats   ShowSessionStats `json:"stats"`
}
