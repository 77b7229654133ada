package observability

import (
	"context"
	"net/http"
	"testing"

	"github.com/riskibarqy/matchday/internal/config"
	"github.com/riskibarqy/matchday/internal/platform/logging"
)

func TestStart_AllDisabled(t *testing.T) {
	rt, err := Start(config.Config{
		ServiceName:    "matchday-api",
		ServiceVersion: "dev",
		AppEnv:         config.EnvDev,
	}, logging.NewNop())
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if rt.PprofAddr() != nil {
		t.Fatalf("expected no pprof listener")
	}
	if err := rt.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestStart_UptraceWithoutDSNStaysOff(t *testing.T) {
	rt, err := Start(config.Config{UptraceEnabled: true, UptraceLogsEnabled: true}, logging.NewNop())
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if rt.shutdownTracing != nil {
		t.Fatalf("expected tracing to stay off without a DSN")
	}
}

func TestStart_PprofServesIndex(t *testing.T) {
	rt, err := Start(config.Config{PprofEnabled: true, PprofAddr: "127.0.0.1:0"}, logging.NewNop())
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(func() { _ = rt.Shutdown(context.Background()) })

	resp, err := http.Get("http://" + rt.PprofAddr().String() + "/debug/pprof/")
	if err != nil {
		t.Fatalf("get pprof index: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}

func TestStart_PprofPortTaken(t *testing.T) {
	first, err := Start(config.Config{PprofEnabled: true, PprofAddr: "127.0.0.1:0"}, logging.NewNop())
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(func() { _ = first.Shutdown(context.Background()) })

	_, err = Start(config.Config{PprofEnabled: true, PprofAddr: first.PprofAddr().String()}, logging.NewNop())
	if err == nil {
		t.Fatalf("expected bind error for a taken port")
	}
}
