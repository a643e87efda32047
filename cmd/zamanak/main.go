package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zamanak-app/zamanak/config"
	"github.com/zamanak-app/zamanak/internal/jalali"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:           "zamanak",
		Short:         "Jalali calendar planner: events, tasks and reminders",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file")

	root.AddCommand(serveCmd(), convertCmd(), todayCmd(), exportCmd(), importCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	zapCfg := zap.NewProductionConfig()
	if err := zapCfg.Level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", cfg.Log.Level, err)
	}
	logger, err := zapCfg.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}

	return cfg, logger, nil
}

func convertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <date>",
		Short: "Convert between Jalali (YYYY/MM/DD) and Gregorian (YYYY-MM-DD) dates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arg := args[0]
			if strings.Contains(arg, "/") {
				d, err := jalali.Parse(arg)
				if err != nil {
					return err
				}
				g := d.Time(time.UTC)
				fmt.Printf("%s → %s (%s)\n", d, g.Format("2006-01-02"), jalali.WeekdayName(d.Weekday()))
				return nil
			}

			g, err := time.Parse("2006-01-02", arg)
			if err != nil {
				return fmt.Errorf("parse gregorian date %q: %w", arg, err)
			}
			d := jalali.FromTime(g)
			fmt.Printf("%s → %s %s %d (%s)\n",
				g.Format("2006-01-02"), d, jalali.MonthName(d.Month), d.Year,
				jalali.WeekdayName(d.Weekday()))
			return nil
		},
	}
}

func todayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Show today's Jalali date, season and holidays",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}

			d := jalali.Today(cfg.Location())
			fmt.Printf("%s %s، %d %s %d\n",
				jalali.WeekdayName(d.Weekday()), d.String(), d.Day, jalali.MonthName(d.Month), d.Year)
			fmt.Printf("Season: %s (%s)", jalali.SeasonOf(d.Month), jalali.SeasonOf(d.Month).PersianName())
			if jalali.IsLeapYear(d.Year) {
				fmt.Print(" (leap year)")
			}
			fmt.Println()

			for _, h := range jalali.Holidays(d.Month) {
				if h.Day == d.Day {
					fmt.Printf("Holiday: %s\n", h.Description)
				}
			}
			return nil
		},
	}
}
