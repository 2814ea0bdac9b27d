// Package health serves the HTTP endpoints the hosting platform probes.
//
// "/" and "/health" answer 200 with a plain liveness line; "/status" answers
// JSON with the channel configuration, prediction statistics and the metrics
// snapshot.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/appolinair2355/Plus-ou-moins-prediction/internal/logger"
	"github.com/appolinair2355/Plus-ou-moins-prediction/internal/prediction"
)

const shutdownGrace = 5 * time.Second

// Status is the /status response body.
type Status struct {
	Status           string                 `json:"status"`
	StatChannel      int64                  `json:"stat_channel"`
	DisplayChannel   int64                  `json:"display_channel"`
	ExcelPredictions prediction.Stats       `json:"excel_predictions"`
	Metrics          map[string]interface{} `json:"metrics"`
}

// StatusFunc supplies the current status on each request.
type StatusFunc func() Status

// Server is the health HTTP server.
type Server struct {
	srv *http.Server
}

// New builds a server listening on port.
func New(port int, status StatusFunc) *Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/", handleHealth)
	mux.HandleFunc("/health", handleHealth)
	mux.HandleFunc("/status", handleStatus(status))

	return &Server{
		srv: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errc <- err
		}
	}()
	logger.Info("serveur web démarré", logger.Fields{"addr": s.srv.Addr})

	select {
	case err := <-errc:
		return fmt.Errorf("health server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("health server shutdown: %w", err)
	}
	return nil
}

// Handler exposes the mux for tests.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/health" {
		http.NotFound(w, r)
		return
	}
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "Bot is running")
}

func handleStatus(status StatusFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(status()); err != nil {
			logger.Error("encodage statut échoué", nil, err)
		}
	}
}
