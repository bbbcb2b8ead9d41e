package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// Status is the body of GET /status.
type Status struct {
	Running   bool `json:"running"`
	Animating int  `json:"animating"`
	Queued    int  `json:"queued"`
}

// A StatusSource reports the current animation state.
type StatusSource interface {
	Status() Status
}

// StatusFunc adapts a function to a StatusSource.
type StatusFunc func() Status

// Status calls f.
func (f StatusFunc) Status() Status {
	return f()
}

// Api serves the daemon's status.
type Api struct {
	addr   string
	source StatusSource
	logger *zap.Logger
}

// NewApi creates an Api listening on addr.
func NewApi(addr string, source StatusSource, logger *zap.Logger) *Api {
	a := new(Api)
	a.addr = addr
	a.source = source
	a.logger = logger
	return a
}

// Handler returns the HTTP routes.
func (a *Api) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/status", a.handleStatus)
	return mux
}

func (a *Api) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(a.source.Status()); err != nil {
		a.logger.Warn("status not written", zap.Error(err))
	}
}

// Serve listens until ctx is done.
func (a *Api) Serve(ctx context.Context) error {
	srv := &http.Server{Addr: a.addr, Handler: a.Handler()}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	a.logger.Info("Listening", zap.String("addr", a.addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrapf(err, "listen on %s", a.addr)
	}

	return nil
}
