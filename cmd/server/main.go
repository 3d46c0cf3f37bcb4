package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vladimirvolkov/courtside/internal/config"
	"github.com/vladimirvolkov/courtside/internal/logging"
	"github.com/vladimirvolkov/courtside/internal/middleware"
	"github.com/vladimirvolkov/courtside/internal/room"
	"github.com/vladimirvolkov/courtside/internal/store"
	"github.com/vladimirvolkov/courtside/internal/ws"
)

var (
	configPath string
	addr       string
	logLevel   string
	watch      bool
)

var rootCmd = &cobra.Command{
	Use:   "courtside-server",
	Short: "Headless websocket host for courtside matches",
	Long: `Serves one single-player match per websocket connection on /ws,
hub stats on /health, recent results on /results and the web client as
static files.`,
	SilenceUsage: true,
	RunE:         runServer,
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "courtside.yaml", "Config file (missing file uses defaults)")
	rootCmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides config and PORT)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level (overrides config)")
	rootCmd.Flags().BoolVar(&watch, "watch", true, "Reload match config when the file changes")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, syncLog, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer syncLog()

	var (
		results  *store.ResultStore
		recorder room.Recorder
	)
	if cfg.Store.Path != "" {
		results, err = store.Open(cfg.Store.Path)
		if err != nil {
			return err
		}
		defer results.Close()
		recorder = results
	}

	limiter := middleware.NewIPRateLimiter(cfg.Server.MaxConnsPerIP, cfg.Server.MsgRate, time.Second)
	defer limiter.Close()

	manager := room.NewManager(cfg.Tuning, cfg.Match, recorder, log.Named("room"))
	defer manager.Shutdown()

	hub := ws.NewHub(manager, limiter, ws.HubConfig{
		MaxSessions:    cfg.Server.MaxSessions,
		OriginPatterns: cfg.Server.AllowedOrigins,
	}, log.Named("ws"))

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           middleware.SecurityHeaders(routes(hub, results, cfg.Server.StaticDir, log)),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 16, // 64KB
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("courtside server starting",
			zap.String("addr", cfg.Server.Addr),
			zap.String("static", cfg.Server.StaticDir),
			zap.Bool("results", results != nil))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	if watch {
		g.Go(func() error {
			err := config.Watch(ctx, configPath, log.Named("config"), func(c *config.Config) {
				manager.Configure(c.Tuning, c.Match)
			})
			if err != nil {
				// The server keeps running on the config it started with.
				log.Warn("config watch disabled", zap.Error(err))
			}
			return nil
		})
	}

	err = g.Wait()
	log.Info("server stopped")
	return err
}

func routes(hub *ws.Hub, results *store.ResultStore, staticDir string, log *zap.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.HandleWS)

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, hub.Stats(), log)
	})

	mux.HandleFunc("/results", func(w http.ResponseWriter, r *http.Request) {
		if results == nil {
			http.Error(w, "results store disabled", http.StatusNotFound)
			return
		}
		limit := 20
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				http.Error(w, "bad limit", http.StatusBadRequest)
				return
			}
			limit = n
		}
		recent, err := results.Recent(r.Context(), limit)
		if err != nil {
			log.Error("failed to list results", zap.Error(err))
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, recent, log)
	})

	// Static files with no-cache headers (prevents stale JS in browser)
	fs := http.FileServer(http.Dir(staticDir))
	mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")
		fs.ServeHTTP(w, r)
	}))
	return mux
}

func writeJSON(w http.ResponseWriter, v any, log *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debug("failed to write response", zap.Error(err))
	}
}
