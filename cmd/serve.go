package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/abhisek/learnassist/internal/assistant"
	"github.com/abhisek/learnassist/internal/config"
	"github.com/abhisek/learnassist/internal/server"
	"github.com/abhisek/learnassist/internal/store"
	"github.com/abhisek/learnassist/internal/study"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve study sessions over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Addr = addr
		}
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		cfg.DBPath = dbPath
		if cfg.Log.Level != "debug" {
			gin.SetMode(gin.ReleaseMode)
		}

		app := fx.New(
			fx.Supply(cfg),
			fx.Provide(
				newStore,
				newEventRepo,
				newStudyFactory,
				newAssistantFactory,
				newServer,
				server.NewEngine,
			),
			fx.Invoke(RegisterRoutesAndStartServer),
			fx.NopLogger,
		)

		if err := app.Start(context.Background()); err != nil {
			return fmt.Errorf("start server: %w", err)
		}

		<-app.Done()
		log.Info().Msg("shutting down gracefully")

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return app.Stop(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides LEARNASSIST_ADDR, default :8080)")
}

func newStore(lc fx.Lifecycle, cfg config.Config) (*store.Store, error) {
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error { return st.Close() },
	})
	return st, nil
}

func newEventRepo(st *store.Store) store.EventRepo {
	return st.EventRepo()
}

func newStudyFactory(cfg config.Config, events store.EventRepo) (*study.Factory, error) {
	return study.NewFactory(cfg, optionalProvider(context.Background(), events))
}

// newAssistantFactory returns nil when no provider is configured, which
// the server reports as 503 on the chat endpoint.
func newAssistantFactory(f *study.Factory) server.AssistantFactory {
	provider := f.Provider()
	if provider == nil {
		return nil
	}
	return func() (*assistant.Assistant, error) {
		return assistant.New(provider, assistant.Options{})
	}
}

func newServer(f *study.Factory, events store.EventRepo, newAssistant server.AssistantFactory) *server.Server {
	return server.New(server.Deps{
		Factory:      f,
		Events:       events,
		NewAssistant: newAssistant,
	})
}

// RegisterRoutesAndStartServer mounts the API and ties the HTTP server to
// the fx lifecycle.
func RegisterRoutesAndStartServer(lc fx.Lifecycle, engine *gin.Engine, srv *server.Server, cfg config.Config) {
	srv.Register(engine)

	httpServer := &http.Server{
		Addr:    cfg.Addr,
		Handler: engine,
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			log.Info().Str("addr", cfg.Addr).Str("db", cfg.DBPath).Msg("starting HTTP server")
			go func() {
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal().Err(err).Msg("HTTP server failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("stopping HTTP server")
			ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			err := httpServer.Shutdown(ctx)
			srv.Shutdown(ctx)
			return err
		},
	})
}
