package entity

import (
	"context"

	"github.com/airtime-lab/backend/pkg/xcontext"
)

func MigrateTable(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&User{},
		&Ticket{},
		&ShowSession{},
		&Draw{},
		&JackpotDraw{},
	)
}
