package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"roadmap/backend/config"
	"roadmap/backend/middleware"
	"roadmap/backend/models"
	"roadmap/backend/routes"
	"roadmap/backend/storage"
	"roadmap/backend/store"
	"roadmap/backend/utils"
	"roadmap/backend/views"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type globalFlags struct {
	debug      bool
	configPath string
}

// session bundles everything a command needs once configuration is loaded.
type session struct {
	cfg      *config.Config
	logger   *zap.Logger
	adapter  storage.Adapter
	store    *store.Store
	registry *prometheus.Registry
}

func openSession(ctx context.Context, flags *globalFlags, logOutput io.Writer) (*session, error) {
	cfg, err := config.LoadConfig(flags.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	level := cfg.LogLevel
	if flags.debug {
		level = "debug"
	}

	var logger *zap.Logger
	if logOutput == nil {
		logger = zap.NewNop()
	} else {
		logger, err = utils.InitLogger(utils.LoggerConfig{Level: level, Format: cfg.LogFormat, Output: logOutput})
		if err != nil {
			return nil, err
		}
	}

	catalog := models.DefaultCatalog()
	if err := catalog.Validate(); err != nil {
		return nil, fmt.Errorf("invalid roadmap: %w", err)
	}

	adapter, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	registry := prometheus.NewRegistry()
	s := store.New(adapter, catalog, logger, store.WithMetrics(utils.NewMetrics(registry)))
	s.Init(ctx)

	return &session{cfg: cfg, logger: logger, adapter: adapter, store: s, registry: registry}, nil
}

func (s *session) Close() {
	if err := s.adapter.Close(); err != nil {
		s.logger.Warn("Failed to close storage", zap.Error(err))
	}
	_ = s.logger.Sync()
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "roadmap",
		Short:         "Track your progress through the MLOps Mastery Roadmap",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, flags, false)
		},
	}
	root.PersistentFlags().BoolVar(&flags.debug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "Path to a YAML config file")

	root.AddCommand(newServeCmd(flags))
	root.AddCommand(newShowCmd(flags))
	root.AddCommand(newToggleCmd(flags))
	root.AddCommand(newTUICmd(flags))
	return root
}

func newShowCmd(flags *globalFlags) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the roadmap with your progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, flags, all)
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Show the steps of every phase")
	return cmd
}

func runShow(cmd *cobra.Command, flags *globalFlags, all bool) error {
	sess, err := openSession(cmd.Context(), flags, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer sess.Close()

	out := views.Render(sess.store.Catalog(), sess.store.Overview(), views.Options{ExpandAll: all})
	_, err = fmt.Fprint(cmd.OutOrStdout(), out)
	return err
}

func newToggleCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle PHASE STEP",
		Short: "Mark a step complete, or incomplete if it already is",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			phase, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid phase number %q", args[0])
			}
			step, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid step number %q", args[1])
			}

			sess, err := openSession(cmd.Context(), flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer sess.Close()

			state := sess.store.Toggle(cmd.Context(), phase, step)
			verb := "Reopened"
			if state.IsCompleted(phase, step) {
				verb = "Completed"
			}
			overview := sess.store.Overview()

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s phase %d step %d. %d / %d steps, %d%% complete\n",
				verb, phase, step, overview.Done, overview.Total, overview.Percent)
			return err
		},
	}
}

func newTUICmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive checklist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// logs would corrupt the alternate screen
			sess, err := openSession(cmd.Context(), flags, nil)
			if err != nil {
				return err
			}
			defer sess.Close()

			p := tea.NewProgram(views.NewModel(cmd.Context(), sess.store), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}
}

func newServeCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the roadmap and progress over a local JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			sess, err := openSession(ctx, flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer sess.Close()

			return serve(ctx, sess)
		},
	}
}

func serve(ctx context.Context, sess *session) error {
	app := fiber.New(fiber.Config{
		ErrorHandler:          utils.ErrorHandler,
		DisableStartupMessage: true,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))
	app.Use(middleware.LoggingMiddleware(sess.logger))

	routes.SetupRoutes(app, sess.store, sess.registry)

	ln, err := net.Listen("tcp", ":"+sess.cfg.ServerPort)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sess.logger.Info("Listening", zap.String("addr", ln.Addr().String()))
		return app.Listener(ln)
	})

	g.Go(func() error {
		<-ctx.Done()
		sess.logger.Info("Shutting down")
		err := app.Shutdown()
		// Shutdown is a no-op if Listener has not started serving yet
		_ = ln.Close()
		return err
	})

	if fa, ok := sess.adapter.(*storage.FileAdapter); ok && sess.cfg.WatchStorage {
		w, err := storage.NewWatcher(fa.Path(), sess.logger)
		if err != nil {
			sess.logger.Warn("Storage watcher disabled", zap.Error(err))
		} else {
			g.Go(func() error {
				return w.Run(ctx, func() { sess.store.Reload(ctx) })
			})
		}
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
