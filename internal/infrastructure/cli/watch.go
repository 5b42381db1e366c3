package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/loadline/internal/infrastructure/config"
	"github.com/felixgeelhaar/loadline/internal/infrastructure/watch"
	"github.com/felixgeelhaar/loadline/internal/infrastructure/wiring"
	"github.com/felixgeelhaar/loadline/pkg/application"
	"github.com/felixgeelhaar/loadline/pkg/domain/bottleneck"
	"github.com/felixgeelhaar/loadline/pkg/storage"
)

var (
	watchFlags  queryFlags
	watchWindow time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Recompute bottlenecks whenever the workspace data changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := watchFlags.query(cmd)
		if err != nil {
			return err
		}
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		defer services.Close()

		logger := services.Logger.With().Str("component", "watch").Logger()

		out := cmd.OutOrStdout()
		check := func(reason string) {
			report, err := services.Utilization.Bottlenecks(cmd.Context(), q)
			stamp := time.Now().Format("15:04:05")
			if err != nil {
				fmt.Fprintf(out, "[%s] %s: %v\n", stamp, reason, MapError(err))
				return
			}
			summary := summarizeBottlenecks(report)
			logger.Debug().Str("reason", reason).Str("summary", summary).Msg("bottlenecks recomputed")
			if watchFlags.json {
				_ = writeJSON(out, report)
				return
			}
			fmt.Fprintf(out, "[%s] %s: %s\n", stamp, reason, summary)
		}

		check("initial")
		if os.Getenv("LOADLINE_WATCH_ONCE") == "true" {
			return nil
		}

		dir, files := watchTargets(services)
		w, err := watch.NewDataWatcher(dir, files, watchWindow, func(changed []string) {
			check(strings.Join(changed, ", ") + " changed")
		}, logger)
		if err != nil {
			return NewCLIError("cannot watch workspace", "Run 'loadline init' first", err)
		}

		fmt.Fprintf(out, "Watching %s for changes... (Ctrl+C to stop)\n", dir)
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

// watchTargets returns the directory and file names that feed the forecast
// for the configured backend.
func watchTargets(services *wiring.AppServices) (string, []string) {
	ws := services.Workspace
	if ws.Config.Storage.Backend == config.BackendSQLite {
		path := ws.Config.SQLitePath(ws.Root)
		base := filepath.Base(path)
		return filepath.Dir(path), []string{base, base + "-wal", base + "-journal"}
	}
	return ws.Repo.Dir(), storage.DataFiles
}

func summarizeBottlenecks(r *application.BottleneckReport) string {
	critical := 0
	for _, b := range r.ResourceBottlenecks {
		if b.Level == bottleneck.LevelCritical {
			critical++
		}
	}
	risky := 0
	for _, p := range r.ProjectBottlenecks {
		if p.RiskLevel == bottleneck.RiskHigh {
			risky++
		}
	}

	resources := plural(len(r.ResourceBottlenecks), "resource bottleneck")
	if critical > 0 {
		resources += fmt.Sprintf(" (%d critical)", critical)
	}
	return fmt.Sprintf("%s, %s, %s",
		resources,
		plural(len(r.RoleBottlenecks), "role bottleneck"),
		plural(risky, "high-risk project"))
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func init() {
	watchFlags.register(watchCmd, false)
	watchCmd.Flags().DurationVar(&watchWindow, "debounce", watch.DefaultWindow, "Quiet period before recomputing")
	RootCmd.AddCommand(watchCmd)
}
