package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/airtime-lab/backend/internal/common"
	"github.com/airtime-lab/backend/pkg/errorx"
	"github.com/airtime-lab/backend/pkg/xcontext"
)

func WithStartTime(ctx context.Context, r *http.Request) (context.Context, error) {
	return xcontext.WithStartTime(ctx, time.Now()), nil
}

// Prometheus counts requests by path and error code. The code is 0 on
// success and -1 for errors outside errorx.
func Prometheus(ctx context.Context, r *http.Request, status int, err error) {
	code := 0
	if err != nil {
		var errx errorx.Error
		if errors.As(err, &errx) {
			code = int(errx.Code)
		} else {
			code = -1
		}
	}

	path := r.URL.Path
	common.PromCounters[common.HTTPRequestTotal].WithLabelValues(path, fmt.Sprint(code)).Inc()

	startTime := xcontext.StartTime(ctx)
	if startTime.IsZero() {
		return
	}

	common.PromHistograms[common.HTTPRequestDurationSeconds].
		WithLabelValues(path, fmt.Sprint(code)).
		Observe(time.Since(startTime).Seconds())
}
