package domain

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/airtime-lab/backend/internal/entity"
	"github.com/airtime-lab/backend/internal/model"
	"github.com/airtime-lab/backend/pkg/enum"
)

const defaultTimeLayout string = time.RFC3339Nano

func formatID(id int64) string {
	if id == 0 {
		return ""
	}

	return strconv.FormatInt(id, 10)
}

func formatNullID(id sql.NullInt64) string {
	if !id.Valid {
		return ""
	}

	return formatID(id.Int64)
}

func formatNullTime(t sql.NullTime) string {
	if !t.Valid {
		return ""
	}

	return t.Time.Format(defaultTimeLayout)
}

func convertTicket(ticket *entity.Ticket) model.Ticket {
	if ticket == nil {
		return model.Ticket{}
	}

	return model.Ticket{
		ID:            formatID(ticket.ID),
		TicketUUID:    ticket.TicketUUID,
		UserID:        formatID(ticket.UserID),
		StationID:     formatID(ticket.StationID),
		DrawID:        formatNullID(ticket.DrawID),
		Quantity:      ticket.Quantity,
		UsedCount:     ticket.UsedCount,
		IsActive:      ticket.IsActive,
		ExpiresAt:     formatNullTime(ticket.ExpiresAt),
		InvalidatedAt: formatNullTime(ticket.InvalidatedAt),
		CreatedAt:     ticket.CreatedAt.Format(defaultTimeLayout),
	}
}

func convertShowSession(session *entity.ShowSession) model.ShowSession {
	if session == nil {
		return model.ShowSession{}
	}

	return model.ShowSession{
		ID:          formatID(session.ID),
		ShowID:      formatID(session.ShowID),
		StationID:   formatID(session.StationID),
		UserID:      formatID(session.UserID),
		StartTime:   session.StartTime.Format(defaultTimeLayout),
		EndTime:     formatNullTime(session.EndTime),
		Status:      enum.ToString(session.Status),
		SessionDate: session.SessionDate.Format(time.DateOnly),
	}
}

func convertWinnerDetails(details *entity.DrawWinnerDetails) *model.WinnerDetails {
	if details == nil {
		return nil
	}

	return &model.WinnerDetails{
		TicketUUID:   details.TicketUUID,
		UserID:       formatID(details.UserID),
		UserName:     details.UserName,
		UserEmail:    details.UserEmail,
		SelectedAt:   details.SelectedAt.Format(defaultTimeLayout),
		EntryNumber:  details.EntryNumber,
		TotalEntries: details.TotalEntries,
	}
}

func convertDraw(draw *entity.Draw) model.Draw {
	if draw == nil {
		return model.Draw{}
	}

	return model.Draw{
		ID:              formatID(draw.ID),
		Title:           draw.Title,
		Description:     draw.Description,
		SessionID:       formatID(draw.SessionID),
		ShowID:          formatID(draw.ShowID),
		DrawNumber:      draw.DrawNumber,
		ScheduledAt:     draw.ScheduledAt.Format(defaultTimeLayout),
		ConductedAt:     formatNullTime(draw.ConductedAt),
		WinningTicketID: formatNullID(draw.WinningTicketID),
		Status:          enum.ToString(draw.Status),
		MaxEntries:      int(draw.MaxEntries.Int64),
		EntryDeadline:   formatNullTime(draw.EntryDeadline),
		Prizes:          draw.Prizes,
		DrawSettings:    draw.DrawSettings,
		WinnerDetails:   convertWinnerDetails(draw.WinnerDetails),
		TotalEntries:    draw.TotalEntries,
		CreatedAt:       draw.CreatedAt.Format(defaultTimeLayout),
	}
}

func convertJackpotWinner(winner entity.JackpotWinner) model.JackpotWinner {
	return model.JackpotWinner{
		UserID:   formatID(winner.UserID),
		TicketID: formatID(winner.TicketID),
		Phone:    winner.Phone,
	}
}

func convertJackpotDraw(draw *entity.JackpotDraw) model.JackpotDraw {
	if draw == nil {
		return model.JackpotDraw{}
	}

	var winner *model.JackpotWinner
	if draw.WinnerDetails != nil {
		w := convertJackpotWinner(*draw.WinnerDetails)
		winner = &w
	}

	previousWinners := []model.JackpotWinner{}
	for _, w := range draw.PreviousWinners {
		previousWinners = append(previousWinners, convertJackpotWinner(w))
	}

	return model.JackpotDraw{
		ID:              formatID(draw.ID),
		Title:           draw.Title,
		Description:     draw.Description,
		StationID:       formatID(draw.StationID),
		ShowID:          formatNullID(draw.ShowID),
		DrawPeriod:      enum.ToString(draw.DrawPeriod),
		PeriodStart:     draw.PeriodStart.Format(defaultTimeLayout),
		PeriodEnd:       draw.PeriodEnd.Format(defaultTimeLayout),
		ScheduledAt:     draw.ScheduledAt.Format(defaultTimeLayout),
		ConductedAt:     formatNullTime(draw.ConductedAt),
		PrizeAmount:     draw.PrizeAmount.StringFixed(2),
		Status:          enum.ToString(draw.Status),
		JackpotSettings: draw.JackpotSettings,
		WinningTicketID: formatNullID(draw.WinningTicketID),
		WinnerDetails:   winner,
		PreviousWinners: previousWinners,
		TotalTickets:    draw.TotalTickets,
		TotalEntries:    draw.TotalEntries,
		EligibleUsers:   draw.EligibleUsers,
		CreatedAt:       draw.CreatedAt.Format(defaultTimeLayout),
	}
}
