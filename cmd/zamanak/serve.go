package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zamanak-app/zamanak/internal/clients/caldav"
	"github.com/zamanak-app/zamanak/internal/domain"
	"github.com/zamanak-app/zamanak/internal/export"
	"github.com/zamanak-app/zamanak/internal/notify"
	"github.com/zamanak-app/zamanak/internal/scheduler"
	"github.com/zamanak-app/zamanak/internal/service"
	"github.com/zamanak-app/zamanak/internal/storage"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the reminder dispatch loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			defer logger.Sync()

			store, err := storage.New(cfg.DatabasePath)
			if err != nil {
				return fmt.Errorf("init storage: %w", err)
			}
			defer store.Close()

			sched := service.NewScheduler(store, logger, cfg.Location())
			sched.SetAnchor(cfg.Anchor())

			disp := scheduler.New(store, sched, logger, cfg.Location(), cfg.PollInterval)

			var notifier scheduler.Notifier
			if cfg.Telegram.Token != "" {
				tg, err := notify.NewTelegramNotifier(cfg.Telegram.Token, cfg.Telegram.ChatID)
				if err != nil {
					return fmt.Errorf("init telegram notifier: %w", err)
				}
				notifier = tg
				logger.Info("using telegram delivery", zap.Int64("chat_id", cfg.Telegram.ChatID))
			} else {
				notifier = notify.NewLogNotifier(logger)
				logger.Info("no telegram token configured, logging reminders")
			}
			disp.SetNotifier(notifier)

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			errCh := make(chan error, 1)
			go func() {
				errCh <- disp.Start(ctx)
			}()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			select {
			case sig := <-sigCh:
				logger.Info("shutting down", zap.String("signal", sig.String()))
				cancel()
				<-errCh
			case err := <-errCh:
				if err != nil {
					return err
				}
			}

			disp.Stop()
			return nil
		},
	}
}

func exportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export events and tasks as an iCalendar (.ics) stream",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			defer logger.Sync()

			store, err := storage.New(cfg.DatabasePath)
			if err != nil {
				return fmt.Errorf("init storage: %w", err)
			}
			defer store.Close()

			events, err := store.ListEvents(cfg.OwnerID, 0)
			if err != nil {
				return fmt.Errorf("list events: %w", err)
			}
			tasks, err := store.ListTasks(cfg.OwnerID, true)
			if err != nil {
				return fmt.Errorf("list tasks: %w", err)
			}

			reminders, err := collectReminders(store, cfg.OwnerID, events, tasks)
			if err != nil {
				return fmt.Errorf("collect reminders: %w", err)
			}

			var w io.Writer = os.Stdout
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("create output file: %w", err)
				}
				defer f.Close()
				w = f
			}

			return export.NewExporter(cfg.Location()).WriteICS(w, events, tasks, reminders)
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "write to file instead of stdout")
	return cmd
}

// collectReminders maps each source id to its pending reminder so the
// exporter can attach alarms.
func collectReminders(store *storage.Storage, ownerID string, events []*domain.Event, tasks []*domain.Task) (map[string]*domain.Reminder, error) {
	out := make(map[string]*domain.Reminder)
	for _, e := range events {
		rs, err := store.RemindersForSource(ownerID, domain.SourceEvent, e.ID)
		if err != nil {
			return nil, err
		}
		if len(rs) > 0 {
			out[e.ID] = rs[0]
		}
	}
	for _, t := range tasks {
		rs, err := store.RemindersForSource(ownerID, domain.SourceTask, t.ID)
		if err != nil {
			return nil, err
		}
		if len(rs) > 0 {
			out[t.ID] = rs[0]
		}
	}
	return out, nil
}

func importCmd() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import events from the configured CalDAV calendar",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			defer logger.Sync()

			client := caldav.NewClient(cfg.CalDAV.URL, cfg.CalDAV.Username, cfg.CalDAV.Password)
			if !client.IsConfigured() {
				return fmt.Errorf("caldav is not configured (set caldav.url, caldav.username, caldav.password)")
			}
			if cfg.CalDAV.Calendar != "" {
				client.SetCalendarPath(cfg.CalDAV.Calendar)
			}

			store, err := storage.New(cfg.DatabasePath)
			if err != nil {
				return fmt.Errorf("init storage: %w", err)
			}
			defer store.Close()

			sync := service.NewSyncService(client, store, logger, cfg.Location())

			now := time.Now().In(cfg.Location())
			created, err := sync.ImportEvents(cmd.Context(), cfg.OwnerID, now, now.AddDate(0, 0, days))
			if err != nil {
				return err
			}

			fmt.Printf("Imported %d events\n", created)
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 30, "import window in days from today")
	return cmd
}
