package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/relabs-tech/gamepad/internal/axis"
	"github.com/relabs-tech/gamepad/internal/calibration"
	"github.com/relabs-tech/gamepad/internal/transport"
)

// AxisStatus is one entry of GET /api/calibration.
type AxisStatus struct {
	Axis string `json:"axis"`
	axis.Calibration
}

func newWebMux(ws *transport.WebSocket, cal *calibration.Context, log *zap.Logger) *http.ServeMux {
	mux := http.NewServeMux()

	// live frames and inbound commands
	mux.Handle("/ws", ws)

	// JSON API endpoint: current calibration
	mux.HandleFunc("/api/calibration", func(w http.ResponseWriter, r *http.Request) {
		snap := cal.Snapshot()
		status := make([]AxisStatus, 0, len(snap))
		for _, a := range axis.All {
			status = append(status, AxisStatus{Axis: a.String(), Calibration: snap[a]})
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(status); err != nil {
			log.Warn("json encode error", zap.Error(err))
		}
	})

	return mux
}

// startWebServer serves the websocket endpoint and the API until ctx ends.
func startWebServer(ctx context.Context, port int, ws *transport.WebSocket, cal *calibration.Context, log *zap.Logger) *http.Server {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: newWebMux(ws, cal, log),
	}

	go func() {
		log.Info("web server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("web server failed", zap.Error(err))
		}
	}()
	go func() {
		<-ctx.Done()
		srv.Close()
	}()

	return srv
}
