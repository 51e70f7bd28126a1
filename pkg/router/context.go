package router

import (
	"context"

	"github.com/airtime-lab/backend/pkg/xcontext"
)

// inherit copies the shared dependencies of root into the request context.
func inherit(ctx context.Context, root context.Context) context.Context {
	ctx = xcontext.WithConfigs(ctx, xcontext.Configs(root))
	ctx = xcontext.WithLogger(ctx, xcontext.Logger(root))
	ctx = xcontext.WithDB(ctx, xcontext.DB(root))
	return ctx
}
