package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/stunor/origo-organiser/internal/api"
	"github.com/stunor/origo-organiser/internal/config"
	"github.com/stunor/origo-organiser/internal/domain"
	"github.com/stunor/origo-organiser/internal/iof"
	"github.com/stunor/origo-organiser/internal/repository"
	"github.com/stunor/origo-organiser/internal/repository/dao"
	"github.com/stunor/origo-organiser/internal/service"
)

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "organiser",
		Short:        "Origo organiser backend",
		Long:         "Imports IOF course data and federation entry lists into the race database and serves them over HTTP.",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to the yaml config file")

	root.AddCommand(
		serveCmd(&configPath),
		migrateCmd(&configPath),
		coursesCmd(&configPath),
		entriesCmd(&configPath),
		eventorsCmd(&configPath),
		eventsCmd(&configPath),
	)

	return root
}

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, postgresDB, err := bootstrap(*configPath)
			if err != nil {
				return err
			}

			if conf.Sync.Enabled {
				scheduler, err := newSyncScheduler(conf, api.NewEntryService(conf, postgresDB))
				if err != nil {
					return fmt.Errorf("failed to initialize entry sync -> %w", err)
				}
				scheduler.Start()
				defer func() {
					if err := scheduler.Shutdown(); err != nil {
						zap.L().Warn("entry sync scheduler shutdown", zap.Error(err))
					}
				}()
			}

			s := api.NewServer(conf, postgresDB)

			addr := ":" + s.Config.API.Port
			zap.L().Info(fmt.Sprintf("starting server at %v", addr))
			if err = s.Router.Run(addr); err != nil {
				return fmt.Errorf("failed to start the server -> %w", err)
			}

			return nil
		},
	}
}

func newSyncScheduler(conf *config.AppConfig, svc service.EntryDownloader) (*service.EntrySyncScheduler, error) {
	eventIDs, err := parseEventIDs(conf.Sync.EventIDs)
	if err != nil {
		return nil, err
	}

	return service.NewEntrySyncScheduler(svc, eventIDs, conf.Sync.Interval, conf.Sync.Interval)
}

func parseEventIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("invalid sync event id %q -> %w", s, err)
		}
		ids = append(ids, id)
	}

	return ids, nil
}

func migrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, postgresDB, err := bootstrap(*configPath)
			if err != nil {
				return err
			}

			if err = dao.InitTables(postgresDB); err != nil {
				return fmt.Errorf("dao.InitTables -> %w", err)
			}
			zap.L().Info("database tables are up to date")

			return nil
		},
	}
}

func coursesCmd(configPath *string) *cobra.Command {
	courses := &cobra.Command{Use: "courses", Short: "Manage race courses"}

	var raceID, mapName, file string
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Import an IOF CourseData file for a race",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(raceID)
			if err != nil {
				return fmt.Errorf("invalid race id -> %w", err)
			}

			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("os.Open -> %w", err)
			}
			defer f.Close()

			data, err := iof.ParseCourseData(f)
			if err != nil {
				return err
			}

			_, postgresDB, err := bootstrap(*configPath)
			if err != nil {
				return err
			}

			if err = api.NewCourseService(postgresDB).SaveCourse(cmd.Context(), id, mapName, data); err != nil {
				return fmt.Errorf("SaveCourse -> %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %s as map %q\n", file, mapName)

			return nil
		},
	}
	importCmd.Flags().StringVar(&raceID, "race", "", "race id")
	importCmd.Flags().StringVar(&mapName, "map-name", "", "name of the imported map")
	importCmd.Flags().StringVar(&file, "file", "", "path to the CourseData xml file")
	_ = importCmd.MarkFlagRequired("race")
	_ = importCmd.MarkFlagRequired("map-name")
	_ = importCmd.MarkFlagRequired("file")

	courses.AddCommand(importCmd)

	return courses
}

func entriesCmd(configPath *string) *cobra.Command {
	entries := &cobra.Command{Use: "entries", Short: "Manage race entries"}

	var eventID string
	syncCmd := &cobra.Command{
		Use:   "sync",
		Short: "Download the entry list of an event from its federation server",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(eventID)
			if err != nil {
				return fmt.Errorf("invalid event id -> %w", err)
			}

			conf, postgresDB, err := bootstrap(*configPath)
			if err != nil {
				return err
			}

			result, err := api.NewEntryService(conf, postgresDB).DownloadEntryList(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("DownloadEntryList -> %w", err)
			}
			renderImportResult(cmd.OutOrStdout(), id, result)

			return nil
		},
	}
	syncCmd.Flags().StringVar(&eventID, "event", "", "event id")
	_ = syncCmd.MarkFlagRequired("event")

	entries.AddCommand(syncCmd)

	return entries
}

func eventorsCmd(configPath *string) *cobra.Command {
	eventors := &cobra.Command{Use: "eventors", Short: "Inspect federation servers"}

	var eventor domain.Eventor
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add or update a federation server",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, postgresDB, err := bootstrap(*configPath)
			if err != nil {
				return err
			}

			saved, err := repository.NewEventRepository(dao.NewEventDAO(postgresDB)).SaveEventor(cmd.Context(), eventor)
			if err != nil {
				return fmt.Errorf("SaveEventor -> %w", err)
			}
			renderEventors(cmd.OutOrStdout(), []domain.Eventor{saved})

			return nil
		},
	}
	addCmd.Flags().StringVar(&eventor.ID, "id", "", "federation server id")
	addCmd.Flags().StringVar(&eventor.Name, "name", "", "display name")
	addCmd.Flags().StringVar(&eventor.Federation, "federation", "", "federation the server belongs to")
	addCmd.Flags().StringVar(&eventor.BaseURL, "base-url", "", "base url, e.g. https://eventor.orientering.no")
	addCmd.Flags().StringVar(&eventor.APIKey, "api-key", "", "api key sent in the ApiKey header")
	for _, name := range []string{"id", "name", "base-url", "api-key"} {
		_ = addCmd.MarkFlagRequired(name)
	}
	eventors.AddCommand(addCmd)

	eventors.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the configured federation servers",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, postgresDB, err := bootstrap(*configPath)
			if err != nil {
				return err
			}

			list, err := repository.NewEventRepository(dao.NewEventDAO(postgresDB)).ListEventors(cmd.Context())
			if err != nil {
				return fmt.Errorf("ListEventors -> %w", err)
			}
			renderEventors(cmd.OutOrStdout(), list)

			return nil
		},
	})

	return eventors
}

func eventsCmd(configPath *string) *cobra.Command {
	events := &cobra.Command{Use: "events", Short: "Manage events"}

	var eventorID, ref, name string
	var classes, races []string
	addCmd := &cobra.Command{
		Use:     "add",
		Short:   "Add an event with its classes and races",
		Example: "  organiser events add --eventor NOR --ref 17654 --name \"Spring Cup\" \\\n" +
			"    --class 1=H21 --class 2=D21 --race 1=Sprint@2026-05-01 --race 2=Long@2026-05-02",
		RunE: func(cmd *cobra.Command, args []string) error {
			event := domain.Event{ID: uuid.New(), EventorID: eventorID, EventorRef: ref, Name: name}
			for _, c := range classes {
				classRef, className, _, err := parseRef(c)
				if err != nil {
					return err
				}
				event.Classes = append(event.Classes, domain.EventClass{ID: uuid.New(), EventorRef: classRef, Name: className})
			}

			var eventRaces []domain.Race
			for _, r := range races {
				raceRef, raceName, date, err := parseRef(r)
				if err != nil {
					return err
				}
				eventRaces = append(eventRaces, domain.Race{ID: uuid.New(), EventorRef: raceRef, Name: raceName, Date: date, EventID: event.ID})
			}

			_, postgresDB, err := bootstrap(*configPath)
			if err != nil {
				return err
			}

			repo := repository.NewEventRepository(dao.NewEventDAO(postgresDB))
			err = dao.NewTransactor(postgresDB).WithinTransaction(cmd.Context(), func(ctx context.Context) error {
				if _, err := repo.FindEventorByID(ctx, eventorID); err != nil {
					return fmt.Errorf("FindEventorByID -> %w", err)
				}
				if _, err := repo.SaveEvent(ctx, event); err != nil {
					return fmt.Errorf("SaveEvent -> %w", err)
				}
				for _, race := range eventRaces {
					if _, err := repo.SaveRace(ctx, race); err != nil {
						return fmt.Errorf("SaveRace -> %w", err)
					}
				}
				return nil
			})
			if err != nil {
				return err
			}
			renderEvent(cmd.OutOrStdout(), event, eventRaces)

			return nil
		},
	}
	addCmd.Flags().StringVar(&eventorID, "eventor", "", "federation server id")
	addCmd.Flags().StringVar(&ref, "ref", "", "event id on the federation server")
	addCmd.Flags().StringVar(&name, "name", "", "event name")
	addCmd.Flags().StringArrayVar(&classes, "class", nil, "class as ref=name, repeatable")
	addCmd.Flags().StringArrayVar(&races, "race", nil, "race as ref=name[@YYYY-MM-DD], repeatable")
	for _, flag := range []string{"eventor", "ref", "name", "race"} {
		_ = addCmd.MarkFlagRequired(flag)
	}
	events.AddCommand(addCmd)

	return events
}

// parseRef splits "ref=name" with an optional "@YYYY-MM-DD" suffix.
func parseRef(s string) (string, string, *time.Time, error) {
	ref, name, ok := strings.Cut(s, "=")
	ref, name = strings.TrimSpace(ref), strings.TrimSpace(name)
	if !ok || ref == "" || name == "" {
		return "", "", nil, fmt.Errorf("%q must look like ref=name", s)
	}

	var date *time.Time
	if i := strings.LastIndex(name, "@"); i >= 0 {
		d, err := time.Parse(time.DateOnly, strings.TrimSpace(name[i+1:]))
		if err != nil {
			return "", "", nil, fmt.Errorf("invalid date in %q -> %w", s, err)
		}
		date = &d
		name = strings.TrimSpace(name[:i])
	}

	return ref, name, date, nil
}

func renderEvent(w io.Writer, event domain.Event, races []domain.Race) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetTitle(fmt.Sprintf("%s (%s)", event.Name, event.ID))
	tw.AppendHeader(table.Row{"Race", "Race id", "Date"})
	for _, r := range races {
		date := ""
		if r.Date != nil {
			date = r.Date.Format(time.DateOnly)
		}
		tw.AppendRow(table.Row{r.Name, r.ID, date})
	}
	tw.AppendFooter(table.Row{"Classes", len(event.Classes), ""})
	tw.Render()
}

func renderImportResult(w io.Writer, eventID uuid.UUID, result service.ImportResult) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetTitle(fmt.Sprintf("Event %s: %d saved, %d failed", eventID, result.Saved, len(result.Failures)))
	tw.AppendHeader(table.Row{"Kind", "Eventor ref", "Name", "Error"})
	for _, f := range result.Failures {
		tw.AppendRow(table.Row{f.Kind, f.EventorRef, f.Name, f.Err})
	}
	tw.Render()
}

func renderEventors(w io.Writer, eventors []domain.Eventor) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"ID", "Name", "Federation", "Base URL"})
	for _, e := range eventors {
		tw.AppendRow(table.Row{e.ID, e.Name, e.Federation, e.BaseURL})
	}
	tw.Render()
}
