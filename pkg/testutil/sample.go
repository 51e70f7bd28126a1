package testutil

import (
	"context"
	"reflect"
	"time"

	"github.com/airtime-lab/backend/internal/entity"
	"github.com/airtime-lab/backend/internal/repository"
	"github.com/airtime-lab/backend/pkg/idutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SampleUser creates a new user in database with random name and email. The
// sample user can be overwritten by non-zero fields of init.
func SampleUser(ctx context.Context, init *entity.User) entity.User {
	sample := &entity.User{
		Base:  entity.Base{ID: idutil.NewID()},
		Name:  uuid.NewString(),
		Email: uuid.NewString() + "@example.com",
		Phone: "+234800" + uuid.NewString()[:7],
	}

	if init != nil {
		overwriteFields(sample, *init)
	}

	if err := repository.NewUserRepository().Create(ctx, sample); err != nil {
		panic(err)
	}

	return *sample
}

// SampleTicket creates an active single-entry ticket created one hour ago.
func SampleTicket(ctx context.Context, init *entity.Ticket) entity.Ticket {
	createdAt := time.Now().UTC().Add(-time.Hour)
	sample := &entity.Ticket{
		Base:       entity.Base{ID: idutil.NewID(), CreatedAt: createdAt, UpdatedAt: createdAt},
		TicketUUID: uuid.NewString(),
		Quantity:   1,
		IsActive:   true,
	}

	if init != nil {
		overwriteFields(sample, *init)
	}

	if err := repository.NewTicketRepository().Create(ctx, sample); err != nil {
		panic(err)
	}

	return *sample
}

// SampleShowSession creates a session started two hours ago. It is active
// unless init says otherwise.
func SampleShowSession(ctx context.Context, init *entity.ShowSession) entity.ShowSession {
	startTime := time.Now().UTC().Add(-2 * time.Hour)
	sample := &entity.ShowSession{
		Base:        entity.Base{ID: idutil.NewID()},
		ShowID:      idutil.NewID(),
		StationID:   idutil.NewID(),
		UserID:      idutil.NewID(),
		StartTime:   startTime,
		Status:      entity.SessionActive,
		SessionDate: startTime.Truncate(24 * time.Hour),
	}

	if init != nil {
		overwriteFields(sample, *init)
	}

	if sample.Status != entity.SessionEnded && !sample.OpenShowID.Valid {
		sample.OpenShowID.Int64 = sample.ShowID
		sample.OpenShowID.Valid = true
	}

	if err := repository.NewShowSessionRepository().Create(ctx, sample); err != nil {
		panic(err)
	}

	return *sample
}

// SampleDraw creates a pending draw. SessionID and DrawNumber should be set
// by init.
func SampleDraw(ctx context.Context, init *entity.Draw) entity.Draw {
	sample := &entity.Draw{
		Base:        entity.Base{ID: idutil.NewID()},
		Title:       uuid.NewString(),
		DrawNumber:  1,
		ScheduledAt: time.Now().UTC(),
		Status:      entity.DrawPending,
	}

	if init != nil {
		overwriteFields(sample, *init)
	}

	if err := repository.NewDrawRepository().Create(ctx, sample); err != nil {
		panic(err)
	}

	return *sample
}

// SampleJackpotDraw creates an active weekly jackpot draw covering the last
// seven days.
func SampleJackpotDraw(ctx context.Context, init *entity.JackpotDraw) entity.JackpotDraw {
	now := time.Now().UTC()
	sample := &entity.JackpotDraw{
		Base:        entity.Base{ID: idutil.NewID()},
		Title:       uuid.NewString(),
		StationID:   idutil.NewID(),
		DrawPeriod:  entity.PeriodWeekly,
		PeriodStart: now.Add(-7 * 24 * time.Hour),
		PeriodEnd:   now,
		ScheduledAt: now,
		PrizeAmount: decimal.NewFromInt(50000),
		Status:      entity.DrawActive,
	}

	if init != nil {
		overwriteFields(sample, *init)
	}

	if err := repository.NewJackpotDrawRepository().Create(ctx, sample); err != nil {
		panic(err)
	}

	return *sample
}

func overwriteFields[T any](origin *T, overwrite T) {
	overwriteStruct(reflect.ValueOf(origin).Elem(), reflect.ValueOf(overwrite))
}

// overwriteStruct copies non-zero fields, descending into embedded structs so
// that a partially set Base keeps the generated id.
func overwriteStruct(originValue, overwriteValue reflect.Value) {
	for i := 0; i < overwriteValue.NumField(); i++ {
		overwriteField := overwriteValue.Field(i)
		if overwriteValue.Type().Field(i).Anonymous && overwriteField.Kind() == reflect.Struct {
			overwriteStruct(originValue.Field(i), overwriteField)
			continue
		}

		if !overwriteField.IsZero() {
			originValue.Field(i).Set(overwriteField)
		}
	}
}
