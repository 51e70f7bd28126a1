package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/airtime-lab/backend/pkg/errorx"
	"github.com/airtime-lab/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func TestResolveUserID(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    int64
		wantErr bool
	}{
		{name: "anonymous"},
		{name: "valid id", header: "42", want: 42},
		{name: "not a number", header: "abc", wantErr: true},
		{name: "negative", header: "-1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(UserIDHeader, tt.header)
			}

			ctx, err := ResolveUserID(context.Background(), req)
			if tt.wantErr {
				require.True(t, errorx.Is(err, errorx.Unauthenticated))
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.want, xcontext.RequestUserID(ctx))

			_, err = Authenticate(ctx, req)
			require.Equal(t, tt.want == 0, err != nil)
		})
	}
}

func TestAllowCors(t *testing.T) {
	handler := AllowCors([]string{"https://studio.example.com"})(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) },
	))

	req := httptest.NewRequest(http.MethodOptions, "/conductDraw", nil)
	req.Header.Set("Origin", "https://studio.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", UserIDHeader)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	require.Equal(t, "https://studio.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/getDraw", nil)
	req.Header.Set("Origin", "https://evil.example.com")

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	require.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
