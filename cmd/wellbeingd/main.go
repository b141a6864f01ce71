// Package main is the CLI entry point for wellbeingd.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/eliteGoblin/wellbeingd/internal/config"
	"github.com/eliteGoblin/wellbeingd/internal/daemon"
	"github.com/eliteGoblin/wellbeingd/internal/domain"
	"github.com/eliteGoblin/wellbeingd/internal/infra"
	"github.com/eliteGoblin/wellbeingd/internal/store"
	"github.com/eliteGoblin/wellbeingd/internal/usecase"
)

var (
	// Version info (set via ldflags)
	Version   = "0.1.0"
	Commit    = "dev"
	BuildTime = "unknown"
)

var configPath string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "wellbeingd",
	Short: "Usage tracking and screen-time policy daemon",
	Long: `wellbeingd tracks which application holds the foreground, stores usage
in an encrypted local database, and enforces the limits, focus sessions,
and goals you configure. All data stays on this machine.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/wellbeingd/config.yaml)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(limitCmd)
	rootCmd.AddCommand(categoryCmd)
	rootCmd.AddCommand(focusCmd)
	rootCmd.AddCommand(goalCmd)
	rootCmd.AddCommand(breakCmd)
	rootCmd.AddCommand(notifyCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(emergencyCmd)
	rootCmd.AddCommand(cleanupCmd)
}

func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	return config.Load(path)
}

// openService opens the store for a one-shot CLI command. The caller must
// invoke the returned closer.
func openService() (*usecase.Service, *config.Config, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	logger := zap.NewNop()
	st, err := store.Open(cfg.DataDir, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	return usecase.NewService(st, logger), cfg, func() { st.Close() }, nil
}

func createLogger(logFile string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{logFile}
	cfg.ErrorOutputPaths = []string{logFile}
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build()
	if err != nil {
		// Fallback to stderr if file logging fails
		logger, _ = zap.NewProduction()
	}
	return logger
}

func formatMinutes(seconds int64) string {
	m := seconds / 60
	if m < 60 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %dm", m/60, m%60)
}

// --- run ---

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the tracking daemon in the foreground",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		logger := createLogger(cfg.LogFile)
		defer logger.Sync()

		st, err := store.Open(cfg.DataDir, logger)
		if err != nil {
			return err
		}
		defer st.Close()

		daemon.Version = Version
		d, err := daemon.New(cfg, st,
			infra.NewWindowQuerier(),
			infra.NewProcessManager(),
			infra.NewDesktopNotifier(),
			logger)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return d.Run(ctx)
	},
}

// --- status ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon liveness and today's usage",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, closeFn, err := openService()
		if err != nil {
			return err
		}
		defer closeFn()

		state, alive, err := svc.DaemonStatus(time.Now(), 2*time.Minute)
		if err != nil {
			return err
		}
		switch {
		case state == nil:
			fmt.Println("Daemon: never started")
		case alive:
			fmt.Printf("Daemon: running (pid %d, since %s)\n",
				state.PID, time.Unix(state.StartedAt, 0).Format("2006-01-02 15:04"))
		default:
			fmt.Printf("Daemon: not running (last heartbeat %s)\n",
				time.Unix(state.LastHeartbeat, 0).Format("2006-01-02 15:04"))
		}

		usage, err := svc.DailyUsage()
		if err != nil {
			return err
		}
		if len(usage) == 0 {
			fmt.Println("No usage recorded today.")
			return nil
		}
		fmt.Println("\nToday:")
		for _, u := range usage {
			fmt.Printf("  %-30s %8s  (%d sessions)\n", u.AppName, formatMinutes(u.DurationSeconds), u.SessionCount)
		}
		return nil
	},
}

// --- report ---

var reportRange string

var reportCmd = &cobra.Command{
	Use:   "report [daily|weekly|hourly|category]",
	Short: "Usage reports",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, closeFn, err := openService()
		if err != nil {
			return err
		}
		defer closeFn()

		kind := "daily"
		if len(args) > 0 {
			kind = args[0]
		}

		if reportRange != "" {
			parts := strings.SplitN(reportRange, ":", 2)
			if len(parts) != 2 {
				return fmt.Errorf("--range wants START:END (YYYY-MM-DD:YYYY-MM-DD)")
			}
			days, err := svc.RangeReport(parts[0], parts[1])
			if err != nil {
				return err
			}
			for _, d := range days {
				fmt.Printf("%s  %s\n", d.Date, formatMinutes(d.TotalSeconds))
			}
			return nil
		}

		switch kind {
		case "daily":
			usage, err := svc.DailyUsage()
			if err != nil {
				return err
			}
			for _, u := range usage {
				fmt.Printf("%-30s %8s  (%d sessions)\n", u.AppName, formatMinutes(u.DurationSeconds), u.SessionCount)
			}
		case "weekly":
			days, err := svc.WeeklyStats()
			if err != nil {
				return err
			}
			for _, d := range days {
				fmt.Printf("%s  %s\n", d.Date, formatMinutes(d.TotalSeconds))
			}
		case "hourly":
			hours, err := svc.HourlyUsage()
			if err != nil {
				return err
			}
			for _, h := range hours {
				fmt.Printf("%02d:00  %s\n", h.Hour, formatMinutes(h.TotalSeconds))
			}
		case "category":
			cats, err := svc.CategoryUsage()
			if err != nil {
				return err
			}
			for _, c := range cats {
				fmt.Printf("%-20s %8s  (%d apps)\n", c.Category, formatMinutes(c.TotalSeconds), c.AppCount)
			}
		default:
			return fmt.Errorf("unknown report %q", kind)
		}
		return nil
	},
}

// --- limit ---

var (
	limitMinutes int
	limitBlock   bool
)

var limitCmd = &cobra.Command{
	Use:   "limit",
	Short: "Manage daily app limits",
}

var limitSetCmd = &cobra.Command{
	Use:   "set <app>",
	Short: "Set a daily limit for an app",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, closeFn, err := openService()
		if err != nil {
			return err
		}
		defer closeFn()

		if err := svc.SetLimit(args[0], limitMinutes, limitBlock); err != nil {
			return err
		}
		fmt.Printf("Limit set: %s, %d minutes/day (block: %v)\n", args[0], limitMinutes, limitBlock)
		return nil
	},
}

var limitRemoveCmd = &cobra.Command{
	Use:   "remove <app>",
	Short: "Remove an app's limit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, closeFn, err := openService()
		if err != nil {
			return err
		}
		defer closeFn()
		if err := svc.RemoveLimit(args[0]); err != nil {
			return err
		}
		fmt.Printf("Limit removed: %s\n", args[0])
		return nil
	},
}

var limitListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show limits and today's usage against them",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, closeFn, err := openService()
		if err != nil {
			return err
		}
		defer closeFn()

		statuses, err := svc.LimitStatus()
		if err != nil {
			return err
		}
		if len(statuses) == 0 {
			fmt.Println("No limits configured.")
			return nil
		}
		for _, st := range statuses {
			used := st.UsedSeconds / 60
			marker := ""
			if used >= int64(st.DailyLimitMinutes) {
				marker = "  EXCEEDED"
			}
			fmt.Printf("%-30s %4dm / %4dm%s\n", st.AppName, used, st.DailyLimitMinutes, marker)
		}
		return nil
	},
}

var limitBlockCmd = &cobra.Command{
	Use:   "block <app>",
	Short: "Ask the daemon to block an app now",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, closeFn, err := openService()
		if err != nil {
			return err
		}
		defer closeFn()
		if err := svc.RequestBlock(args[0]); err != nil {
			return err
		}
		fmt.Printf("Block requested for %s; the daemon applies it within its next evaluation.\n", args[0])
		return nil
	},
}

var limitBlockedCmd = &cobra.Command{
	Use:   "blocked",
	Short: "List apps currently under a durable block",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, closeFn, err := openService()
		if err != nil {
			return err
		}
		defer closeFn()
		blocked, err := svc.BlockedApps()
		if err != nil {
			return err
		}
		if len(blocked) == 0 {
			fmt.Println("Nothing is blocked.")
			return nil
		}
		for _, name := range blocked {
			fmt.Println(name)
		}
		return nil
	},
}

func init() {
	limitSetCmd.Flags().IntVar(&limitMinutes, "minutes", 60, "daily limit in minutes")
	limitSetCmd.Flags().BoolVar(&limitBlock, "block", false, "terminate the app once exceeded")
	limitCmd.AddCommand(limitSetCmd, limitRemoveCmd, limitListCmd, limitBlockCmd, limitBlockedCmd)
}

// --- category ---

var categoryCmd = &cobra.Command{
	Use:   "category",
	Short: "Manage app categories",
}

var categorySetCmd = &cobra.Command{
	Use:   "set <app> <category>",
	Short: "Assign an app to a category",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, closeFn, err := openService()
		if err != nil {
			return err
		}
		defer closeFn()
		if err := svc.SetCategory(args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("%s -> %s\n", args[0], args[1])
		return nil
	},
}

var categoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List known apps and their categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, closeFn, err := openService()
		if err != nil {
			return err
		}
		defer closeFn()
		apps, err := svc.Apps()
		if err != nil {
			return err
		}
		for _, a := range apps {
			cat := a.Category
			if cat == "" {
				cat = "-"
			}
			fmt.Printf("%-30s %s\n", a.Name, cat)
		}
		return nil
	},
}

var categoryProductiveCmd = &cobra.Command{
	Use:   "productive [category ...]",
	Short: "Show or set which categories count as productive",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, closeFn, err := openService()
		if err != nil {
			return err
		}
		defer closeFn()

		if len(args) > 0 {
			if err := svc.SaveProductiveCategories(args); err != nil {
				return err
			}
		}
		cats, err := svc.ProductiveCategories()
		if err != nil {
			return err
		}
		fmt.Printf("Productive categories: %s\n", strings.Join(cats, ", "))
		return nil
	},
}

func init() {
	categoryCmd.AddCommand(categorySetCmd, categoryListCmd, categoryProductiveCmd)
}

// --- focus ---

var focusMinutes int

var focusCmd = &cobra.Command{
	Use:   "focus",
	Short: "Manage focus sessions and schedules",
}

var focusStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a manual focus session",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, closeFn, err := openService()
		if err != nil {
			return err
		}
		defer closeFn()
		if err := svc.RequestFocusStart(focusMinutes); err != nil {
			return err
		}
		fmt.Println("Focus start requested.")
		return nil
	},
}

var focusStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the active focus session",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, closeFn, err := openService()
		if err != nil {
			return err
		}
		defer closeFn()
		if err := svc.RequestFocusStop(); err != nil {
			return err
		}
		fmt.Println("Focus stop requested.")
		return nil
	},
}

var focusExtendCmd = &cobra.Command{
	Use:   "extend",
	Short: "Extend the active focus session",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, closeFn, err := openService()
		if err != nil {
			return err
		}
		defer closeFn()
		if err := svc.RequestFocusExtend(focusMinutes); err != nil {
			return err
		}
		fmt.Printf("Focus extension by %d minutes requested.\n", focusMinutes)
		return nil
	},
}

var focusStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current focus session",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, closeFn, err := openService()
		if err != nil {
			return err
		}
		defer closeFn()

		_, alive, err := svc.DaemonStatus(time.Now(), 2*time.Minute)
		if err != nil {
			return err
		}
		if !alive {
			fmt.Println("Daemon is not running; focus state unknown.")
			return nil
		}

		fs, err := svc.FocusState()
		if err != nil {
			return err
		}
		if !fs.IsActive {
			fmt.Println("No focus session active.")
			return nil
		}
		kind := "manual"
		if fs.IsScheduled {
			kind = fmt.Sprintf("scheduled (%s)", fs.ScheduleName)
		}
		length := "open-ended"
		if fs.EndTime > 0 {
			remaining := (fs.EndTime - time.Now().Unix()) / 60
			if remaining < 0 {
				remaining = 0
			}
			length = fmt.Sprintf("%dm remaining of %dm", remaining, fs.DurationMinutes)
		}
		fmt.Printf("Focus session active: %s, %s\n", kind, length)
		if len(fs.BlockedApps) > 0 {
			fmt.Printf("Blocking: %s\n", strings.Join(fs.BlockedApps, ", "))
		}
		return nil
	},
}

var (
	focusDefaultMinutes int
	focusBlockApps      []string
	focusNotifyStart    bool
	focusNotifyEnd      bool
)

var focusConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Configure focus session defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, closeFn, err := openService()
		if err != nil {
			return err
		}
		defer closeFn()

		fs, err := svc.FocusSettings()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("minutes") {
			fs.DefaultDurationMinutes = focusDefaultMinutes
		}
		if cmd.Flags().Changed("block") {
			fs.BlockedApps = focusBlockApps
		}
		if cmd.Flags().Changed("notify-start") {
			fs.NotifyOnStart = focusNotifyStart
		}
		if cmd.Flags().Changed("notify-end") {
			fs.NotifyOnEnd = focusNotifyEnd
		}
		if err := svc.SaveFocusSettings(fs); err != nil {
			return err
		}
		fmt.Printf("Focus defaults: %dm, blocks %s\n",
			fs.DefaultDurationMinutes, strings.Join(fs.BlockedApps, ", "))
		return nil
	},
}

var (
	scheduleDays  []int
	scheduleStart string
	scheduleEnd   string
	scheduleApps  []string
)

var focusScheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Manage recurring focus schedules",
}

var focusScheduleAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a recurring focus window",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, closeFn, err := openService()
		if err != nil {
			return err
		}
		defer closeFn()

		days := make([]time.Weekday, 0, len(scheduleDays))
		for _, d := range scheduleDays {
			if d < 0 || d > 6 {
				return fmt.Errorf("day %d out of range 0 (Sunday) to 6 (Saturday)", d)
			}
			days = append(days, time.Weekday(d))
		}

		sc, err := svc.AddSchedule(args[0], scheduleStart, scheduleEnd, days, scheduleApps)
		if err != nil {
			return err
		}
		fmt.Printf("Schedule added: %s (%s)\n", sc.Name, sc.ID)
		return nil
	},
}

var focusScheduleRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a focus schedule",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, closeFn, err := openService()
		if err != nil {
			return err
		}
		defer closeFn()
		if err := svc.DeleteSchedule(args[0]); err != nil {
			return err
		}
		fmt.Println("Schedule removed.")
		return nil
	},
}

var focusScheduleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List focus schedules",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, closeFn, err := openService()
		if err != nil {
			return err
		}
		defer closeFn()
		schedules, err := svc.Schedules()
		if err != nil {
			return err
		}
		for _, sc := range schedules {
			state := "enabled"
			if !sc.Enabled {
				state = "disabled"
			}
			fmt.Printf("%s  %-20s %s-%s  blocks %s  [%s]\n",
				sc.ID, sc.Name, sc.StartTime, sc.EndTime,
				strings.Join(sc.BlockedApps, ","), state)
		}
		return nil
	},
}

func init() {
	focusStartCmd.Flags().IntVar(&focusMinutes, "minutes", 0, "session length (0 = your default)")
	focusExtendCmd.Flags().IntVar(&focusMinutes, "minutes", 10, "minutes to add")
	focusScheduleAddCmd.Flags().IntSliceVar(&scheduleDays, "days", nil, "weekdays, 0=Sunday (empty = every day)")
	focusScheduleAddCmd.Flags().StringVar(&scheduleStart, "from", "09:00", "window start HH:MM")
	focusScheduleAddCmd.Flags().StringVar(&scheduleEnd, "to", "10:00", "window end HH:MM")
	focusScheduleAddCmd.Flags().StringSliceVar(&scheduleApps, "block", nil, "apps to block during the window")
	focusConfigCmd.Flags().IntVar(&focusDefaultMinutes, "minutes", 25, "default session length (0 = open-ended)")
	focusConfigCmd.Flags().StringSliceVar(&focusBlockApps, "block", nil, "apps to block during sessions")
	focusConfigCmd.Flags().BoolVar(&focusNotifyStart, "notify-start", true, "notify when a session starts")
	focusConfigCmd.Flags().BoolVar(&focusNotifyEnd, "notify-end", true, "notify when a session ends")
	focusScheduleCmd.AddCommand(focusScheduleAddCmd, focusScheduleRemoveCmd, focusScheduleListCmd)
	focusCmd.AddCommand(focusStartCmd, focusStopCmd, focusExtendCmd, focusStatusCmd, focusConfigCmd, focusScheduleCmd)
}

// --- goal ---

var (
	goalType     string
	goalTarget   int
	goalApp      string
	goalCategory string
	goalDays     []int
)

var goalCmd = &cobra.Command{
	Use:   "goal",
	Short: "Manage usage goals and achievements",
}

var goalAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a goal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, closeFn, err := openService()
		if err != nil {
			return err
		}
		defer closeFn()

		days := make([]time.Weekday, 0, len(goalDays))
		for _, d := range goalDays {
			if d < 0 || d > 6 {
				return fmt.Errorf("day %d out of range 0 (Sunday) to 6 (Saturday)", d)
			}
			days = append(days, time.Weekday(d))
		}

		g, err := svc.AddGoal(args[0], domain.GoalType(goalType), goalTarget, goalApp, goalCategory, days)
		if err != nil {
			return err
		}
		fmt.Printf("Goal added: %s (%s)\n", g.Name, g.ID)
		return nil
	},
}

var goalRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a goal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, closeFn, err := openService()
		if err != nil {
			return err
		}
		defer closeFn()
		if err := svc.DeleteGoal(args[0]); err != nil {
			return err
		}
		fmt.Println("Goal removed.")
		return nil
	},
}

var goalListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show goals and today's progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cfg, closeFn, err := openService()
		if err != nil {
			return err
		}
		defer closeFn()

		progress, err := svc.GoalReport(cfg.WarningThresholdPercent)
		if err != nil {
			return err
		}
		if len(progress) == 0 {
			fmt.Println("No goals apply today.")
			return nil
		}
		for _, p := range progress {
			fmt.Printf("%-25s %4dm / %4dm  %3d%%  %s\n",
				p.GoalName, p.CurrentMinutes, p.TargetMinutes, p.ProgressPercent, p.Status)
		}
		return nil
	},
}

var goalAchievementsCmd = &cobra.Command{
	Use:   "achievements",
	Short: "Show achievements and streaks",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, closeFn, err := openService()
		if err != nil {
			return err
		}
		defer closeFn()

		achievements, stats, err := svc.Achievements()
		if err != nil {
			return err
		}
		fmt.Printf("Streak: %d days (best %d), goals met %d times, focus sessions %d\n\n",
			stats.CurrentStreak, stats.LongestStreak, stats.TotalGoalsMet, stats.FocusSessionsCompleted)
		for _, a := range achievements {
			mark := " "
			if a.EarnedAt != "" {
				mark = "*"
			}
			fmt.Printf("%s %-20s %3d/%3d  %s\n", mark, a.Name, a.Progress, a.Target, a.Description)
		}
		return nil
	},
}

func init() {
	goalAddCmd.Flags().StringVar(&goalType, "type", "app_limit", "daily_limit | app_limit | category_limit | minimum_productive")
	goalAddCmd.Flags().IntVar(&goalTarget, "minutes", 60, "target minutes")
	goalAddCmd.Flags().StringVar(&goalApp, "app", "", "app name (app_limit)")
	goalAddCmd.Flags().StringVar(&goalCategory, "category", "", "category (category_limit / minimum_productive)")
	goalAddCmd.Flags().IntSliceVar(&goalDays, "days", nil, "weekdays, 0=Sunday (empty = every day)")
	goalCmd.AddCommand(goalAddCmd, goalRemoveCmd, goalListCmd, goalAchievementsCmd)
}

// --- break ---

var (
	breakWork    int
	breakLength  int
	breakEnabled bool
)

var breakCmd = &cobra.Command{
	Use:   "break",
	Short: "Manage break reminders",
}

var breakConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Configure break reminders",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, closeFn, err := openService()
		if err != nil {
			return err
		}
		defer closeFn()

		bs := domain.BreakSettings{
			Enabled:      breakEnabled,
			WorkMinutes:  breakWork,
			BreakMinutes: breakLength,
			Notify:       true,
		}
		if err := svc.SaveBreakSettings(bs); err != nil {
			return err
		}
		fmt.Printf("Breaks: enabled=%v, %dm work / %dm break\n", bs.Enabled, bs.WorkMinutes, bs.BreakMinutes)
		return nil
	},
}

var breakStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a break now",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, closeFn, err := openService()
		if err != nil {
			return err
		}
		defer closeFn()
		if err := svc.RequestBreakStart(); err != nil {
			return err
		}
		fmt.Println("Break requested.")
		return nil
	},
}

var breakEndCmd = &cobra.Command{
	Use:   "end",
	Short: "End the current break",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, closeFn, err := openService()
		if err != nil {
			return err
		}
		defer closeFn()
		if err := svc.RequestBreakEnd(); err != nil {
			return err
		}
		fmt.Println("Break end requested.")
		return nil
	},
}

var breakResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset the work stretch counter",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, closeFn, err := openService()
		if err != nil {
			return err
		}
		defer closeFn()
		if err := svc.RequestBreakReset(); err != nil {
			return err
		}
		fmt.Println("Break counter reset requested.")
		return nil
	},
}

func init() {
	breakConfigCmd.Flags().BoolVar(&breakEnabled, "enabled", true, "enable reminders")
	breakConfigCmd.Flags().IntVar(&breakWork, "work", 50, "work stretch in minutes")
	breakConfigCmd.Flags().IntVar(&breakLength, "length", 10, "break length in minutes")
	breakCmd.AddCommand(breakConfigCmd, breakStartCmd, breakEndCmd, breakResetCmd)
}

// --- notify ---

var (
	dndStart int
	dndEnd   int
	dndOn    bool
	muteAll  bool
	warnAt   int
	exceedAt int
)

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Configure threshold notifications and DND hours",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, closeFn, err := openService()
		if err != nil {
			return err
		}
		defer closeFn()

		ns, err := svc.NotificationSettings()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("mute") {
			ns.Enabled = !muteAll
		}
		if cmd.Flags().Changed("dnd") {
			ns.DNDEnabled = dndOn
		}
		if cmd.Flags().Changed("dnd-from") {
			ns.DNDStartHour = dndStart
		}
		if cmd.Flags().Changed("dnd-to") {
			ns.DNDEndHour = dndEnd
		}
		if cmd.Flags().Changed("warn-at") {
			ns.WarningThreshold = warnAt
		}
		if cmd.Flags().Changed("exceed-at") {
			ns.ExceededThreshold = exceedAt
		}
		if err := svc.SaveNotificationSettings(ns); err != nil {
			return err
		}
		fmt.Printf("Notifications: enabled=%v, warn at %d%%, exceeded at %d%%, DND=%v %02d:00-%02d:00\n",
			ns.Enabled, ns.WarningThreshold, ns.ExceededThreshold,
			ns.DNDEnabled, ns.DNDStartHour, ns.DNDEndHour)
		return nil
	},
}

func init() {
	notifyCmd.Flags().BoolVar(&muteAll, "mute", false, "mute all notifications")
	notifyCmd.Flags().BoolVar(&dndOn, "dnd", false, "enable do-not-disturb hours")
	notifyCmd.Flags().IntVar(&dndStart, "dnd-from", 22, "DND start hour (0-23)")
	notifyCmd.Flags().IntVar(&dndEnd, "dnd-to", 6, "DND end hour (0-23)")
	notifyCmd.Flags().IntVar(&warnAt, "warn-at", 80, "warn at this percent of a limit")
	notifyCmd.Flags().IntVar(&exceedAt, "exceed-at", 100, "treat a limit as exceeded at this percent")
}

// --- export ---

var (
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export <start> <end>",
	Short: "Export usage for a date range (YYYY-MM-DD, inclusive)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, closeFn, err := openService()
		if err != nil {
			return err
		}
		defer closeFn()

		out, err := svc.ExportUsage(args[0], args[1], exportFormat)
		if err != nil {
			return err
		}
		if exportOut == "" {
			fmt.Print(out)
			return nil
		}
		if err := os.WriteFile(exportOut, []byte(out), 0644); err != nil {
			return err
		}
		fmt.Printf("Exported to %s\n", exportOut)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "csv or json")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "write to file instead of stdout")
}

// --- emergency ---

var emergencyCmd = &cobra.Command{
	Use:   "emergency <app>",
	Short: "Request temporary access to a blocked app",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cfg, closeFn, err := openService()
		if err != nil {
			return err
		}
		defer closeFn()
		if err := svc.RequestEmergency(args[0]); err != nil {
			return err
		}
		fmt.Printf("Emergency access to %s requested; the daemon grants %d minutes within its next evaluation.\n",
			args[0], cfg.EmergencyGrantMinutes)
		return nil
	},
}

// --- cleanup ---

var cleanupDays int

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete usage sessions past the retention window",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cfg, closeFn, err := openService()
		if err != nil {
			return err
		}
		defer closeFn()

		days := cleanupDays
		if days == 0 {
			days = cfg.RetentionDays
		}
		deleted, err := svc.Cleanup(days)
		if err != nil {
			return err
		}
		stats, err := svc.StorageStats()
		if err != nil {
			return err
		}
		fmt.Printf("Deleted %d sessions; %d retained, database %d KiB\n",
			deleted, stats.SessionCount, stats.SizeBytes/1024)
		return nil
	},
}

func init() {
	cleanupCmd.Flags().IntVar(&cleanupDays, "days", 0, "retention in days (0 = config default)")
}

// --- version ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("wellbeingd %s (commit %s, built %s)\n", Version, Commit, BuildTime)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
