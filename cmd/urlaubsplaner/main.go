package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/username/urlaubsplaner/internal/config"
	"github.com/username/urlaubsplaner/internal/export"
	"github.com/username/urlaubsplaner/internal/holiday"
	"github.com/username/urlaubsplaner/internal/planner"
	"github.com/username/urlaubsplaner/internal/schoolholiday"
	"github.com/username/urlaubsplaner/internal/storage"
	"github.com/username/urlaubsplaner/pkg/dateutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	configPath string
	logger     *zap.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "urlaubsplaner",
		Short: "Urlaubsplaner Pro",
		Long:  "Plan vacation days around German public holidays, bridge days and school holidays",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg, err := config.Load(configPath)
			if err == nil && cfg.Logging.LogFile != "" {
				logger, err = initFileLogger(cfg.Logging.LogFile, cfg.Logging.LogLevel)
				if err != nil {
					initLogger()
				}
			} else {
				initLogger()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path")

	rootCmd.AddCommand(holidaysCmd())
	rootCmd.AddCommand(schoolCmd())
	rootCmd.AddCommand(markCmd())
	rootCmd.AddCommand(unmarkCmd())
	rootCmd.AddCommand(removeCmd())
	rootCmd.AddCommand(editCmd())
	rootCmd.AddCommand(noteCmd())
	rootCmd.AddCommand(setCmd())
	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(importCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app bundles the assembled components behind every subcommand
type app struct {
	cfg     *config.Config
	planner *planner.Planner
	store   *storage.Store
	saver   *storage.DebouncedSaver
}

// loadApp builds the planner from config defaults and the plan file.
// Changes are saved through the debounced saver; Close flushes them.
func loadApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	p := planner.New(
		cfg.Planner.GetYear(),
		holiday.Region(cfg.Planner.FederalState),
		cfg.Planner.TotalEntitlement,
		logger,
	)

	store := storage.NewStore(cfg.Storage.PlanFile, logger)
	data, found, err := store.Load()
	if err != nil {
		return nil, err
	}
	if found {
		p.Apply(data)
	}

	saver := storage.NewDebouncedSaver(store, cfg.Storage.GetSaveDebounce(), p.Data, logger)
	p.OnChange(saver.Notify)

	return &app{cfg: cfg, planner: p, store: store, saver: saver}, nil
}

// Close flushes any pending save
func (a *app) Close() {
	a.saver.Close()
}

func (a *app) resolver() *schoolholiday.Resolver {
	client := schoolholiday.NewClient(
		a.cfg.HolidayAPI.BaseURL,
		a.cfg.HolidayAPI.Language,
		a.cfg.HolidayAPI.GetTimeout(),
		logger,
	)
	cache := schoolholiday.NewCache(
		a.cfg.Storage.CacheFile,
		a.cfg.HolidayAPI.GetCacheTTL(),
		logger,
	)
	return schoolholiday.NewResolver(client, cache, logger)
}

func holidaysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "holidays",
		Short: "List public holidays and bridge days of the planning year",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.Close()

			p := a.planner
			fmt.Printf("Feiertage %d (%s)\n", p.Year(), p.Region().Name())
			printDayMap(p.Holidays())

			if bridges := p.BridgeDays(); len(bridges) > 0 {
				fmt.Println("\nBrückentage:")
				printDayMap(bridges)
			}
			return nil
		},
	}
}

func schoolCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "school",
		Short: "List school holidays of the planning year",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := a.planner.RefreshSchoolHolidays(ctx, a.resolver()); err != nil {
				return fmt.Errorf("failed to resolve school holidays: %w", err)
			}

			p := a.planner
			fmt.Printf("Schulferien %d (%s)\n", p.Year(), p.Region().Name())
			printPeriods(p.SchoolHolidays())
			return nil
		},
	}
}

func markCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mark (vacation|blocked) <date> [date]",
		Short: "Select a day or an inclusive date range",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := parseCategory(args[0])
			if err != nil {
				return err
			}

			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.Close()

			start := args[1]
			end := start
			if len(args) == 3 {
				end = args[2]
			}

			result, err := toggleRange(a.planner, cat, start, end)
			if err != nil {
				return err
			}

			switch result {
			case planner.ToggleAdded:
				fmt.Printf("Marked %s %s..%s\n", cat, start, end)
			case planner.ToggleRemoved:
				fmt.Printf("Unmarked %s %s..%s\n", cat, start, end)
			default:
				fmt.Printf("Nothing to mark: %s is a holiday or weekend\n", start)
			}
			return nil
		},
	}
	return cmd
}

func unmarkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unmark (vacation|blocked) <date> [date]",
		Short: "Deselect a day or an inclusive date range",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := parseCategory(args[0])
			if err != nil {
				return err
			}

			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.Close()

			start := args[1]
			end := start
			if len(args) == 3 {
				end = args[2]
			}

			// The removal gesture needs a selected start date
			if !a.planner.Has(cat, start) {
				return fmt.Errorf("%s is not a selected %s day", start, cat)
			}
			if _, err := toggleRange(a.planner, cat, start, end); err != nil {
				return err
			}
			fmt.Printf("Unmarked %s %s..%s\n", cat, start, end)
			return nil
		},
	}
}

// toggleRange drives the two-click gesture for a start/end pair
func toggleRange(p *planner.Planner, cat planner.Category, start, end string) (planner.ToggleResult, error) {
	result, err := p.Toggle(cat, start)
	if err != nil || result == planner.ToggleRejected {
		return planner.ToggleRejected, err
	}
	return p.Toggle(cat, end)
}

func removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove (vacation|blocked) <date>",
		Short: "Remove the whole block containing a date",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := parseCategory(args[0])
			if err != nil {
				return err
			}

			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.Close()

			for _, group := range a.planner.Groups(cat) {
				for _, key := range group {
					if key == args[1] {
						a.planner.RemoveGroup(cat, group)
						fmt.Printf("Removed %s block %s..%s\n", cat, group[0], group[len(group)-1])
						return nil
					}
				}
			}
			return fmt.Errorf("no %s block contains %s", cat, args[1])
		},
	}
}

func editCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <date> <new-start> <new-end>",
		Short: "Move or resize the vacation block containing a date",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.Close()

			for _, group := range a.planner.Groups(planner.CategoryVacation) {
				for _, key := range group {
					if key == args[0] {
						if err := a.planner.EditVacationGroup(group, args[1], args[2]); err != nil {
							return err
						}
						fmt.Printf("Moved vacation block to %s..%s\n", args[1], args[2])
						return nil
					}
				}
			}
			return fmt.Errorf("no vacation block contains %s", args[0])
		},
	}
}

func noteCmd() *cobra.Command {
	var blocked bool

	cmd := &cobra.Command{
		Use:   "note <date> [text]",
		Short: "Attach a note to the block starting at a date (empty text removes it)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.Close()

			cat := planner.CategoryVacation
			if blocked {
				cat = planner.CategoryBlocked
			}

			text := ""
			if len(args) == 2 {
				text = args[1]
			}
			a.planner.SetNote(cat, args[0], text)

			if text == "" {
				fmt.Printf("Removed note on %s\n", args[0])
			} else {
				fmt.Printf("Noted %s: %s\n", args[0], text)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&blocked, "blocked", false, "Annotate a blocked block instead of a vacation block")
	return cmd
}

func setCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set (year|state|entitlement) <value>",
		Short: "Change the planning year, federal state or leave entitlement",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.Close()

			switch args[0] {
			case "year":
				year, err := strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("invalid year: %s", args[1])
				}
				a.planner.SetYear(year)
			case "state":
				region := holiday.Region(args[1])
				if !region.Valid() {
					return fmt.Errorf("unknown federal state: %s", args[1])
				}
				a.planner.SetRegion(region)
			case "entitlement":
				days, err := strconv.Atoi(args[1])
				if err != nil || days <= 0 {
					return fmt.Errorf("invalid entitlement: %s", args[1])
				}
				a.planner.SetEntitlement(days)
			default:
				return fmt.Errorf("unknown setting: %s", args[0])
			}

			fmt.Printf("Set %s to %s\n", args[0], args[1])
			return nil
		},
	}
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the planned blocks and the entitlement balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.Close()

			p := a.planner
			year := p.Year()
			fmt.Printf("Urlaubsplanung %d (%s)\n\n", year, p.Region().Name())

			notes := p.Notes(planner.CategoryVacation)
			fmt.Println("Urlaub:")
			for _, group := range p.GroupsForYear(planner.CategoryVacation, year) {
				line := fmt.Sprintf("  %s .. %s (%d Tage)", group[0], group[len(group)-1], len(group))
				if note := notes[group[0]]; note != "" {
					line += "  " + note
				}
				fmt.Println(line)
			}

			if groups := p.GroupsForYear(planner.CategoryBlocked, year); len(groups) > 0 {
				fmt.Println("\nGesperrt:")
				for _, group := range groups {
					fmt.Printf("  %s .. %s\n", group[0], group[len(group)-1])
				}
			}

			fmt.Printf("\nVerbraucht: %.1f von %d Tagen (%.1f übrig)\n",
				p.UsedDays(year), p.Entitlement(), p.RemainingDays(year))
			return nil
		},
	}
}

func exportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export (ics|csv|json)",
		Short: "Export the plan as an ICS calendar, CSV summary or JSON document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.Close()

			p := a.planner
			year := p.Year()

			switch args[0] {
			case "json":
				if output == "" {
					output = export.JSONFilename(year)
				}
				if err := storage.Export(output, p.Data()); err != nil {
					return err
				}
			case "ics", "csv":
				if output == "" {
					if args[0] == "ics" {
						output = export.ICSFilename(year)
					} else {
						output = export.CSVFilename(year)
					}
				}
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create export file: %w", err)
				}
				defer f.Close()

				if args[0] == "ics" {
					err = export.WriteICS(f, p, year)
				} else {
					err = export.WriteCSV(f, p, year)
				}
				if err != nil {
					return err
				}
			default:
				return fmt.Errorf("unknown export format: %s", args[0])
			}

			fmt.Printf("Exported to %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path")
	return cmd
}

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import a plan document, merging present fields over the current plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.Close()

			data, err := storage.Import(args[0])
			if err != nil {
				return err
			}
			a.planner.Apply(data)

			fmt.Printf("Imported %s\n", args[0])
			return nil
		},
	}
}

func parseCategory(s string) (planner.Category, error) {
	switch s {
	case "vacation":
		return planner.CategoryVacation, nil
	case "blocked":
		return planner.CategoryBlocked, nil
	default:
		return "", fmt.Errorf("category must be 'vacation' or 'blocked', got '%s'", s)
	}
}

// printDayMap prints a date keyed map sorted by date
func printDayMap(m holiday.Map) {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Printf("  %s  %s\n", key, m[key])
	}
}

// printPeriods collapses a per-day map back into contiguous ranges per name
func printPeriods(m holiday.Map) {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var start, prev, name string
	flush := func() {
		if start != "" {
			fmt.Printf("  %s .. %s  %s\n", start, prev, name)
		}
	}
	for _, key := range keys {
		if start == "" || m[key] != name || !isNextDay(prev, key) {
			flush()
			start, name = key, m[key]
		}
		prev = key
	}
	flush()
}

func isNextDay(prev, key string) bool {
	d, err := dateutil.Parse(prev)
	if err != nil {
		return false
	}
	return dateutil.Format(dateutil.AddDays(d, 1)) == key
}

func initLogger() {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var err error
	logger, err = config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
}

func initFileLogger(logFile string, level string) (*zap.Logger, error) {
	logWriter := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(logWriter),
		zapLevel,
	)

	return zap.New(core), nil
}
