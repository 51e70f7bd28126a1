package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/airtime-lab/backend/pkg/errorx"
	"github.com/airtime-lab/backend/pkg/xcontext"
)

// UserIDHeader carries the caller id resolved by the upstream gateway.
const UserIDHeader = "X-User-ID"

// ResolveUserID stores the caller id of the request into the context. A
// request without the header stays anonymous.
func ResolveUserID(ctx context.Context, r *http.Request) (context.Context, error) {
	value := r.Header.Get(UserIDHeader)
	if value == "" {
		return ctx, nil
	}

	userID, err := strconv.ParseInt(value, 10, 64)
	if err != nil || userID <= 0 {
		return nil, errorx.New(errorx.Unauthenticated, "Invalid user id")
	}

	return xcontext.WithRequestUserID(ctx, userID), nil
}

func Authenticate(ctx context.Context, r *http.Request) (context.Context, error) {
	if xcontext.RequestUserID(ctx) == 0 {
		return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
	}

	return ctx, nil
}
