package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/matching-cli/internal/model"
	"github.com/sells-group/matching-cli/internal/server"
	"github.com/sells-group/matching-cli/internal/session"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the matching API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		// Embed any unindexed corpus cases so the finder can rank them.
		indexed, err := env.Precedent.Index(ctx, env.Provider.Embed)
		if err != nil {
			zap.L().Warn("precedent indexing incomplete, fallback cases remain in use", zap.Error(err))
		} else if indexed > 0 {
			zap.L().Info("indexed precedent cases", zap.Int("cases", indexed))
		}

		sessions, err := initSessions(ctx)
		if err != nil {
			return err
		}
		defer sessions.Close()

		srv := server.New(env.Engine, sessions, env.Finder,
			server.WithUploadDir(cfg.Server.UploadDir),
			server.WithMaxUploadMB(cfg.Server.MaxUploadMB),
			server.WithCORSOrigins(cfg.Server.CORSOrigins),
		)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		httpSrv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: srv.Router(),
		}

		// Graceful shutdown. The signal context is already cancelled by the
		// time we get here, so drain on a fresh deadline.
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := httpSrv.Shutdown(shutdownCtx); err != nil {
				zap.L().Warn("shutdown incomplete", zap.Error(err))
			}
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// initSessions builds the configured session backend. Expired sessions take
// their upload files with them: the in-memory store via its eviction hook,
// the postgres store via a periodic sweep.
func initSessions(ctx context.Context) (session.Store, error) {
	ttl := time.Duration(cfg.Session.TTLMinutes) * time.Minute
	uploadDir := cfg.Server.UploadDir

	switch cfg.Session.Backend {
	case "memory", "":
		return session.NewMemory(ttl, session.WithEvictionHook(func(id string, state *model.SessionState) {
			removeSessionUploads(uploadDir, id)
		})), nil
	case "postgres":
		if cfg.Session.DatabaseURL == "" {
			return nil, fmt.Errorf("session.database_url is required for the postgres backend")
		}
		store, err := session.NewPostgres(ctx, cfg.Session.DatabaseURL, ttl)
		if err != nil {
			return nil, err
		}
		go sweepExpiredSessions(ctx, store, ttl, uploadDir)
		return store, nil
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.Session.Backend)
	}
}

// sweepExpiredSessions periodically deletes expired postgres sessions and
// unlinks their upload files.
func sweepExpiredSessions(ctx context.Context, store *session.PostgresStore, ttl time.Duration, uploadDir string) {
	interval := ttl / 10
	if interval < time.Minute {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ids, err := store.DeleteExpired(ctx)
			if err != nil {
				zap.L().Warn("session sweep failed", zap.Error(err))
				continue
			}
			for _, id := range ids {
				removeSessionUploads(uploadDir, id)
			}
			if len(ids) > 0 {
				zap.L().Info("expired sessions swept", zap.Int("count", len(ids)))
			}
		}
	}
}

func removeSessionUploads(uploadDir, sessionID string) {
	entries, err := os.ReadDir(uploadDir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasPrefix(entry.Name(), sessionID+"_") {
			_ = os.Remove(filepath.Join(uploadDir, entry.Name()))
		}
	}
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
