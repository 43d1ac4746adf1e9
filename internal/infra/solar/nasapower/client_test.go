package nasapower

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/solarcook/internal/infra/httpretry"
)

func TestHourly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		require.Equal(t, "20240601", q.Get("start"))
		require.Equal(t, "20240601", q.Get("end"))
		require.Equal(t, "ALLSKY_SFC_SW_DWN", q.Get("parameters"))
		require.Equal(t, "re", q.Get("community"))
		_, _ = w.Write([]byte(`{"properties":{"parameter":{"ALLSKY_SFC_SW_DWN":{"2024060109":410.5,"2024060110":-999}}}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, httpretry.New(httpretry.Options{Provider: "irradiance", Timeout: time.Second, MaxAttempts: 1}, nil, nil))
	hourly, err := client.Hourly(context.Background(), 13.08, 80.27, "20240601")
	require.NoError(t, err)
	require.Equal(t, 410.5, hourly["2024060109"])
	require.Equal(t, -999.0, hourly["2024060110"])
}

func TestHourlyMissingParameter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"properties":{"parameter":{}}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, httpretry.New(httpretry.Options{Provider: "irradiance", Timeout: time.Second, MaxAttempts: 1}, nil, nil))
	hourly, err := client.Hourly(context.Background(), 0, 0, "20240601")
	require.NoError(t, err)
	require.Empty(t, hourly)
}
