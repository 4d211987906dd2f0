package bootstrap

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	hclog "github.com/hashicorp/go-hclog"

	analyticsinadapter "engagemon/internal/modules/analytics/adapter/in"
	analyticsdomain "engagemon/internal/modules/analytics/domain"
	analyticsservice "engagemon/internal/modules/analytics/service"
	analyticsusecase "engagemon/internal/modules/analytics/usecase"
	exportinadapter "engagemon/internal/modules/export/adapter/in"
	exportoutadapter "engagemon/internal/modules/export/adapter/out"
	exportservice "engagemon/internal/modules/export/service"
	exportusecase "engagemon/internal/modules/export/usecase"
	sensinginadapter "engagemon/internal/modules/sensing/adapter/in"
	sensingoutadapter "engagemon/internal/modules/sensing/adapter/out"
	sensingdomain "engagemon/internal/modules/sensing/domain"
	sensingout "engagemon/internal/modules/sensing/port/out"
	sensingservice "engagemon/internal/modules/sensing/service"
	sensingusecase "engagemon/internal/modules/sensing/usecase"
	sessioninadapter "engagemon/internal/modules/session/adapter/in"
	sessionservice "engagemon/internal/modules/session/service"
	sessionusecase "engagemon/internal/modules/session/usecase"
	"engagemon/internal/platform/clock"
	"engagemon/internal/platform/config"
	"engagemon/internal/platform/id"
	uiapp "engagemon/internal/ui/app"
)

// staleTicks is how many tick intervals a plugin sample stays usable.
const staleTicks = 3

type App struct {
	SensingCLI   sensinginadapter.CLIHandler
	SessionCLI   sessioninadapter.CLIHandler
	AnalyticsCLI analyticsinadapter.CLIHandler
	ExportCLI    exportinadapter.CLIHandler

	cfg    config.Config
	logger hclog.Logger
}

// New wires every module. Plugin pumps run until ctx is cancelled or Close
// is called.
func New(ctx context.Context, cfg config.Config, logger hclog.Logger) (*App, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	clk := clock.SystemClock{}
	ids := id.UUID{}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	simulated := map[sensingdomain.Kind]sensingout.Source{
		sensingdomain.KindAudio:  sensingoutadapter.NewSimulatedSource(sensingdomain.KindAudio, seed, clk),
		sensingdomain.KindScreen: sensingoutadapter.NewSimulatedSource(sensingdomain.KindScreen, seed+1, clk),
	}
	var factory sensingout.Factory
	if !cfg.Simulated {
		factory = pluginFactory(cfg, logger.Named("plugin"))
	}
	sensingSvc := sensingservice.NewSensingService(logger.Named("sensing"), simulated, factory)
	if err := sensingSvc.Open(ctx); err != nil {
		return nil, fmt.Errorf("open sample sources: %w", err)
	}
	sensingUC := sensingusecase.NewInteractor(sensingSvc)

	analyticsSvc, err := analyticsservice.NewAnalyticsService(analyticsdomain.Params{
		Weights: analyticsdomain.Weights{
			Engagement: cfg.Weights.Engagement,
			Context:    cfg.Weights.Context,
			Sentiment:  cfg.Weights.Sentiment,
		},
		Window: cfg.ScoreWindow,
	})
	if err != nil {
		_ = sensingSvc.Close()
		return nil, fmt.Errorf("new analytics: %w", err)
	}
	analyticsUC := analyticsusecase.NewInteractor(analyticsSvc)

	sessionSvc, err := sessionservice.NewSessionService(clk, ids, logger.Named("session"), sessionservice.Options{
		Capacity:      cfg.Capacity,
		Threshold:     cfg.ConfidenceThreshold,
		TickInterval:  cfg.TickInterval(),
		AudioEnabled:  cfg.AudioEnabled,
		ScreenEnabled: cfg.ScreenEnabled,
	})
	if err != nil {
		_ = sensingSvc.Close()
		return nil, fmt.Errorf("new session: %w", err)
	}
	sessionUC := sessionusecase.NewInteractor(sessionSvc, sensingUC, analyticsUC)

	exportSvc := exportservice.NewExportService(clk, exportoutadapter.NewFileWriter(cfg.ExportDir), logger.Named("export"))
	exportUC := exportusecase.NewInteractor(exportSvc, sessionUC)

	return &App{
		SensingCLI:   sensinginadapter.NewCLIHandler(sensingUC),
		SessionCLI:   sessioninadapter.NewCLIHandler(sessionUC),
		AnalyticsCLI: analyticsinadapter.NewCLIHandler(analyticsUC),
		ExportCLI:    exportinadapter.NewCLIHandler(exportUC),
		cfg:          cfg,
		logger:       logger,
	}, nil
}

// pluginFactory opens configured sensor plugins behind an async pump so a
// slow model never blocks the tick.
func pluginFactory(cfg config.Config, logger hclog.Logger) sensingout.Factory {
	lockDir := filepath.Join(cfg.StateDir, "locks")
	open := sensingoutadapter.Factory(map[sensingdomain.Kind]sensingoutadapter.PluginOptions{
		sensingdomain.KindAudio: {
			Binary:  cfg.Audio.Binary,
			SHA256:  cfg.Audio.SHA256,
			LockDir: lockDir,
			Logger:  logger.Named("audio"),
		},
		sensingdomain.KindScreen: {
			Binary:  cfg.Screen.Binary,
			SHA256:  cfg.Screen.SHA256,
			LockDir: lockDir,
			Logger:  logger.Named("screen"),
		},
	})
	every := cfg.TickInterval()
	return func(ctx context.Context, kind sensingdomain.Kind) (sensingout.Source, error) {
		src, err := open(ctx, kind)
		if err != nil {
			return nil, err
		}
		async := sensingoutadapter.NewAsyncSource(src, every, staleTicks*every)
		async.Start(ctx)
		return async, nil
	}
}

// Close stops plugin pumps and kills plugin processes.
func (a *App) Close() error {
	return a.SensingCLI.Close()
}

func RunTUI(app *App) error {
	model := uiapp.NewModel(app.SessionCLI, app.SensingCLI, app.ExportCLI, app.cfg.TickInterval(), app.cfg.AutoStart)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
