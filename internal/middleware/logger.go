package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/airtime-lab/backend/pkg/errorx"
	"github.com/airtime-lab/backend/pkg/xcontext"
)

func Logger(ctx context.Context, r *http.Request, status int, err error) {
	info := fmt.Sprintf("%s | %s | %d", r.Method, r.URL.Path, status)
	if err != nil {
		var errx errorx.Error
		if errors.As(err, &errx) {
			xcontext.Logger(ctx).Warnf("%s | %d", info, errx.Code)
		} else {
			xcontext.Logger(ctx).Errorf("%s | %v", info, err)
		}
	} else {
		xcontext.Logger(ctx).Infof("%s", info)
	}
}
