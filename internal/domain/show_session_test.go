package domain

import (
	"strconv"
	"testing"

	"github.com/airtime-lab/backend/internal/entity"
	"github.com/airtime-lab/backend/internal/model"
	"github.com/airtime-lab/backend/internal/repository"
	"github.com/airtime-lab/backend/pkg/errorx"
	"github.com/airtime-lab/backend/pkg/testutil"
	"github.com/airtime-lab/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func newTestShowSessionDomain() *showSessionDomain {
	return NewShowSessionDomain(
		repository.NewShowSessionRepository(),
		repository.NewDrawRepository(),
	)
}

func Test_showSessionDomain_Lifecycle(t *testing.T) {
	ctx := testutil.MockContextWithUserID(9)
	d := newTestShowSessionDomain()

	started, err := d.Start(ctx, &model.StartShowSessionRequest{ShowID: 100, StationID: 3})
	require.NoError(t, err)
	require.Equal(t, string(entity.SessionActive), started.Session.Status)
	require.Equal(t, "9", started.Session.UserID)
	require.Empty(t, started.Session.EndTime)

	_, err = d.Start(ctx, &model.StartShowSessionRequest{ShowID: 100, StationID: 3})
	require.True(t, errorx.Is(err, errorx.Conflict))
	require.Equal(t, "There is already an active session for this show", err.Error())

	sessionID, err := strconv.ParseInt(started.Session.ID, 10, 64)
	require.NoError(t, err)

	_, err = d.Resume(ctx, &model.ResumeShowSessionRequest{SessionID: sessionID})
	require.True(t, errorx.Is(err, errorx.InvalidState))

	_, err = d.Pause(ctx, &model.PauseShowSessionRequest{SessionID: sessionID})
	require.NoError(t, err)

	// A paused session still holds the show.
	_, err = d.Start(ctx, &model.StartShowSessionRequest{ShowID: 100, StationID: 3})
	require.True(t, errorx.Is(err, errorx.Conflict))

	_, err = d.Resume(ctx, &model.ResumeShowSessionRequest{SessionID: sessionID})
	require.NoError(t, err)

	ended, err := d.End(ctx, &model.EndShowSessionRequest{SessionID: sessionID})
	require.NoError(t, err)
	require.Equal(t, string(entity.SessionEnded), ended.Session.Status)
	require.NotEmpty(t, ended.Session.EndTime)

	_, err = d.End(ctx, &model.EndShowSessionRequest{SessionID: sessionID})
	require.True(t, errorx.Is(err, errorx.InvalidState))

	_, err = d.Pause(ctx, &model.PauseShowSessionRequest{SessionID: sessionID})
	require.True(t, errorx.Is(err, errorx.InvalidState))

	// Ending the session frees the show.
	restarted, err := d.Start(ctx, &model.StartShowSessionRequest{ShowID: 100, StationID: 3})
	require.NoError(t, err)
	require.NotEqual(t, started.Session.ID, restarted.Session.ID)

	last, err := repository.NewShowSessionRepository().GetLastEndedByStationID(ctx, 3)
	require.NoError(t, err)
	require.Equal(t, sessionID, last.ID)
}

func Test_showSessionDomain_Start_Failed(t *testing.T) {
	_, err := newTestShowSessionDomain().Start(testutil.MockContext(),
		&model.StartShowSessionRequest{ShowID: 1, StationID: 1})
	require.True(t, errorx.Is(err, errorx.Unauthenticated))

	_, err = newTestShowSessionDomain().Start(testutil.MockContextWithUserID(1),
		&model.StartShowSessionRequest{StationID: 1})
	require.True(t, errorx.Is(err, errorx.BadRequest))
}

func Test_showSessionDomain_Get(t *testing.T) {
	ctx := testutil.MockContext()
	session := testutil.SampleShowSession(ctx, nil)

	testutil.SampleDraw(ctx, &entity.Draw{SessionID: session.ID, ShowID: session.ShowID, DrawNumber: 1})
	testutil.SampleDraw(ctx, &entity.Draw{
		SessionID:    session.ID,
		ShowID:       session.ShowID,
		DrawNumber:   2,
		Status:       entity.DrawCompleted,
		TotalEntries: 4,
	})
	testutil.SampleDraw(ctx, &entity.Draw{
		SessionID:    session.ID,
		ShowID:       session.ShowID,
		DrawNumber:   3,
		Status:       entity.DrawCancelled,
		TotalEntries: 2,
	})

	d := newTestShowSessionDomain()
	resp, err := d.Get(ctx, &model.GetShowSessionRequest{SessionID: session.ID})
	require.NoError(t, err)
	require.Equal(t, formatID(session.ID), resp.Session.ID)
	require.Len(t, resp.Draws, 3)
	require.Equal(t, model.ShowSessionStats{
		TotalDraws:     3,
		CompletedDraws: 1,
		PendingDraws:   1,
		CancelledDraws: 1,
		TotalEntries:   6,
	}, resp.Stats)

	_, err = d.Get(ctx, &model.GetShowSessionRequest{SessionID: session.ID + 1})
	require.True(t, errorx.Is(err, errorx.NotFound))
}

func Test_showSessionDomain_OneOpenSessionPerShow(t *testing.T) {
	ctx := testutil.MockContext()
	session := testutil.SampleShowSession(ctx, nil)

	// The storage refuses a second open session even when the check is
	// bypassed.
	duplicate := &entity.ShowSession{
		Base:       entity.Base{ID: session.ID + 1},
		ShowID:     session.ShowID,
		StationID:  session.StationID,
		Status:     entity.SessionActive,
		OpenShowID: session.OpenShowID,
	}
	err := xcontext.DB(ctx).Create(duplicate).Error
	require.Error(t, err)
}
