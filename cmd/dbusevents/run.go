package dbusevents

import (
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/arthur-debert/dbusevents/pkg/config"
	"github.com/arthur-debert/dbusevents/pkg/dispatcher"
	"github.com/arthur-debert/dbusevents/pkg/logging"
	"github.com/arthur-debert/dbusevents/pkg/metrics"
	"github.com/arthur-debert/dbusevents/pkg/paths"
	"github.com/arthur-debert/dbusevents/pkg/router"
	"github.com/arthur-debert/dbusevents/pkg/rules"
	"github.com/arthur-debert/dbusevents/pkg/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// run loads settings and rules, connects to the bus and runs the router
// until it stops. An empty rules file ends the run before connecting.
func run(cmd *cobra.Command, deps Deps, f *runFlags) error {
	logger := logging.GetLogger("cmd.run")

	p, err := paths.New(f.configFile)
	if err != nil {
		return err
	}

	created, err := p.EnsureRulesFile()
	if err != nil {
		return err
	}
	if created {
		logger.Info().Str("path", p.RulesFile()).Msg(MsgRulesFileCreated)
	}

	settings, err := config.LoadSettings(p.SettingsFile(), f.overrides(cmd))
	if err != nil {
		return err
	}

	set, empty, err := loadRules(logger, p.RulesFile())
	if err != nil {
		return err
	}
	if empty {
		logger.Warn().Str("path", p.RulesFile()).Msg(MsgConfigEmpty)
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var m *metrics.Metrics
	if settings.MetricsAddr != "" {
		m = metrics.New()
		srv, err := metrics.Listen(settings.MetricsAddr, m)
		if err != nil {
			return err
		}
		go srv.Serve(ctx)
	}

	conn, err := deps.Dial(settings.Bus)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	out := cmd.OutOrStdout()
	watcher := ui.NewWatcher(out, useColor(settings.Color, out))

	opts := router.Options{
		Mode:    settings.Mode,
		Rules:   set,
		Printer: watcher,
		Metrics: m,
		Ready:   func() { _ = watcher.Banner(MsgListening) },
	}
	if settings.Mode == config.ModeEvent {
		opts.Dispatcher = dispatcher.New(deps.Processes, deps.Signaler, deps.Runner, dispatcher.Options{
			Shell:         settings.Shell,
			MaxConcurrent: settings.MaxConcurrentActions,
			DryRun:        f.dryRun,
			Metrics:       m,
		})
	}

	logger.Info().
		Str("bus", settings.Bus).
		Str("mode", settings.Mode).
		Int("rules", set.Len()).
		Bool("dryRun", f.dryRun).
		Msg("Starting")

	return router.New(conn, opts).Run(ctx)
}

func loadRules(logger zerolog.Logger, path string) (*rules.RuleSet, bool, error) {
	done := logging.LogOperationStart(logger, "load-rules")
	defer done()

	decls, empty, err := config.LoadRuleDecls(path)
	if err != nil || empty {
		return nil, empty, err
	}

	set, err := rules.Compile(decls)
	if err != nil {
		return nil, false, err
	}
	return set, false, nil
}

func useColor(setting string, w io.Writer) bool {
	if file, ok := w.(*os.File); ok {
		return ui.UseColor(setting, file)
	}
	return setting == config.ColorAlways
}
