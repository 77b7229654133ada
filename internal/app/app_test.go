package app

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/matchday/internal/config"
	"github.com/riskibarqy/matchday/internal/platform/logging"
	"github.com/stretchr/testify/require"
)

func newUpstream(t *testing.T) *httptest.Server {
	t.Helper()

	today := time.Now().UTC().Format("2006-01-02")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/eventspastleague.php"):
			fmt.Fprintf(w, `{"events":[{"idEvent":"2070001","strEvent":"Arsenal vs Chelsea","idLeague":"4328",
				"strLeague":"English Premier League","strHomeTeam":"Arsenal","strAwayTeam":"Chelsea",
				"intHomeScore":"1","intAwayScore":"0","strStatus":"FT","dateEvent":%q,"strTime":"00:05:00"}]}`, today)
		case strings.HasSuffix(r.URL.Path, "/eventsnextleague.php"):
			_, _ = w.Write([]byte(`{"events":null}`))
		case strings.HasSuffix(r.URL.Path, "/eventsseason.php"):
			_, _ = w.Write([]byte(`{"events":[]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func testConfig(t *testing.T, upstreamURL string) config.Config {
	t.Helper()

	t.Setenv("APP_ENV", config.EnvDev)
	t.Setenv("APP_HTTP_ADDR", "127.0.0.1:0")
	t.Setenv("UPSTREAM_BASE_URL", upstreamURL)
	t.Setenv("UPSTREAM_MAX_ATTEMPTS", "1")
	t.Setenv("UPSTREAM_RATE_PER_MINUTE", "0")
	cfg, err := config.Load()
	require.NoError(t, err)
	return cfg
}

func TestApp_ServesReconciledFixtures(t *testing.T) {
	upstream := newUpstream(t)
	cfg := testConfig(t, upstream.URL)

	application, err := New(cfg, logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(application.services.Close)

	rec := httptest.NewRecorder()
	application.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/leagues/4328/fixtures", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Data []struct {
			ID    string `json:"id"`
			Phase string `json:"phase"`
		} `json:"data"`
	}
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	require.Equal(t, "2070001", body.Data[0].ID)
	require.Equal(t, "finished", body.Data[0].Phase)
}

func TestApp_RunStopsOnContextCancel(t *testing.T) {
	upstream := newUpstream(t)
	cfg := testConfig(t, upstream.URL)
	cfg.WatchLeagueIDs = []string{"4328"}

	application, err := New(cfg, logging.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- application.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatalf("app did not stop after cancel")
	}
}

func TestNewUpstreamClient_RejectsUnknownTransport(t *testing.T) {
	cfg := config.Config{UpstreamTransport: "grpc"}
	if _, err := NewUpstreamClient(cfg, logging.NewNop()); err == nil {
		t.Fatalf("expected unknown transport to be rejected")
	}
}
