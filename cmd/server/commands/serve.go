package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/spf13/cobra"

	"github.com/inamate/rectboard/internal/auth"
	"github.com/inamate/rectboard/internal/board"
	"github.com/inamate/rectboard/internal/collab"
	mw "github.com/inamate/rectboard/internal/middleware"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the board API and live editing sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}
	cmd.Flags().IntVar(&port, "port", 8080, "listen port (overrides PORT)")
	return cmd
}

func serve() error {
	tokens := auth.NewService(cfg.TokenSecret)
	boards := board.NewService(tokens, engineOptions())
	boardHandler := board.NewHandler(boards)

	hub := collab.NewHub(boards.Get)
	go hub.Run()

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(cfg.Origins()))

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	boardHandler.Mount(api, tokens.RequireBoardToken)

	// WebSocket endpoint
	r.HandleFunc("/ws/board/{boardId}", func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(w, r, hub, tokens)
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")
		hub.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func handleWebSocket(w http.ResponseWriter, r *http.Request, hub *collab.Hub, tokens *auth.Service) {
	boardID := mux.Vars(r)["boardId"]

	// Browsers can't set headers on websocket upgrades, so the token rides in the query.
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}
	if err := tokens.Authorize(token, boardID); err != nil {
		http.Error(w, "invalid token", http.StatusForbidden)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: cfg.Origins(),
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	client := collab.NewClient(hub, conn, boardID, uuid.New().String())
	hub.Register(client)

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}
