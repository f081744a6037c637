// Package metrics defines the listener's prometheus counters and the
// optional /metrics endpoint.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// EventsTotal counts inbound events as eligible or ignored.
var EventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "groundhog_events_total",
	Help: "Inbound events read from the chat platform, by outcome",
}, []string{"result"})

// URLsRecorded counts first sightings written to the store.
var URLsRecorded = promauto.NewCounter(prometheus.CounterOpts{
	Name: "groundhog_urls_recorded_total",
	Help: "URLs recorded on first sighting",
})

// DuplicatesTotal counts reposts that drew a duplicate notice.
var DuplicatesTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "groundhog_duplicates_total",
	Help: "Reposts of already recorded URLs",
})

// RulesFired counts rule matches by trigger.
var RulesFired = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "groundhog_rules_fired_total",
	Help: "Rule matches, by trigger",
}, []string{"trigger"})

// CommandsTotal counts mention commands by name; unmatched ones count as "unknown".
var CommandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "groundhog_commands_total",
	Help: "Direct-mention commands handled, by command",
}, []string{"command"})

// DispatchErrors counts failed outbound calls by API call.
var DispatchErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "groundhog_dispatch_errors_total",
	Help: "Outbound chat API calls that failed and were dropped",
}, []string{"call"})

// DroppedActions counts actions abandoned before dispatch by reason.
var DroppedActions = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "groundhog_dropped_actions_total",
	Help: "Actions dropped before dispatch, by reason",
}, []string{"reason"})

// Serve exposes /metrics on addr until ctx is cancelled. An empty addr
// disables the listener.
func Serve(ctx context.Context, addr string, log *slog.Logger) error {
	if addr == "" {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown metrics server", "error", err)
		}
	}()

	log.Info("metrics server listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
