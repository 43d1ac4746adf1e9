package openweather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/solarcook/internal/infra/httpretry"
)

func TestStationName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		require.Equal(t, "13.08", q.Get("lat"))
		require.Equal(t, "80.27", q.Get("lon"))
		require.Equal(t, "metric", q.Get("units"))
		_, _ = w.Write([]byte(`{"name":"Chennai","main":{"temp":31.2}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "key", httpretry.New(httpretry.Options{Provider: "weather", Timeout: time.Second, MaxAttempts: 1}, nil, nil))
	name, err := client.StationName(context.Background(), 13.08, 80.27)
	require.NoError(t, err)
	require.Equal(t, "Chennai", name)
}

func TestStationNameUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"cod":401}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "key", httpretry.New(httpretry.Options{Provider: "weather", Timeout: time.Second, MaxAttempts: 1}, nil, nil))
	_, err := client.StationName(context.Background(), 0, 0)
	require.Error(t, err)
}
