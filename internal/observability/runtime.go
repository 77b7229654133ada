// Package observability wires tracing, log export, continuous profiling and the pprof
// listener. Each part is off unless its config flag is set.
package observability

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/riskibarqy/matchday/internal/config"
	"github.com/riskibarqy/matchday/internal/platform/logging"
)

// Runtime holds whatever Start enabled. The zero value shuts down cleanly.
type Runtime struct {
	logger          *logging.Logger
	shutdownTracing func(context.Context) error
	stopProfiler    func() error
	pprof           *http.Server
	pprofAddr       net.Addr
}

func Start(cfg config.Config, logger *logging.Logger) (*Runtime, error) {
	if logger == nil {
		logger = logging.Default()
	}

	rt := &Runtime{logger: logger}
	rt.shutdownTracing = initUptrace(cfg, logger)

	stop, err := initPyroscope(cfg, logger)
	if err != nil {
		_ = rt.Shutdown(context.Background())
		return nil, err
	}
	rt.stopProfiler = stop

	srv, addr, err := startPprof(cfg, logger)
	if err != nil {
		_ = rt.Shutdown(context.Background())
		return nil, err
	}
	rt.pprof, rt.pprofAddr = srv, addr

	return rt, nil
}

// PprofAddr is the bound debug address, or nil when pprof is off.
func (r *Runtime) PprofAddr() net.Addr {
	return r.pprofAddr
}

// Shutdown stops pprof, then the profiler, then flushes traces and logs. Every step
// runs even when an earlier one fails.
func (r *Runtime) Shutdown(ctx context.Context) error {
	var errs []error
	if r.pprof != nil {
		errs = append(errs, r.pprof.Shutdown(ctx))
		r.pprof = nil
	}
	if r.stopProfiler != nil {
		errs = append(errs, r.stopProfiler())
		r.stopProfiler = nil
	}
	if r.shutdownTracing != nil {
		errs = append(errs, r.shutdownTracing(ctx))
		r.shutdownTracing = nil
	}
	return errors.Join(errs...)
}
