package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/rankwatch/rankwatch/pkg/artifact"
	"github.com/rankwatch/rankwatch/pkg/collector"
	"github.com/rankwatch/rankwatch/pkg/config"
	"github.com/rankwatch/rankwatch/pkg/db"
	"github.com/rankwatch/rankwatch/pkg/fetch"
	"github.com/rankwatch/rankwatch/pkg/scheduler"
	"github.com/rankwatch/rankwatch/pkg/server"
	"github.com/rankwatch/rankwatch/pkg/server/endpoints"
	"github.com/rankwatch/rankwatch/pkg/server/store"
	gormstore "github.com/rankwatch/rankwatch/pkg/server/store/gorm"
	"github.com/rankwatch/rankwatch/pkg/sheets"
)

func defaultBindAddress() string {
	if addr := os.Getenv("BIND_ADDRESS"); addr != "" {
		return addr
	}
	return "0.0.0.0"
}

func defaultPort() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return "8000"
}

func defaultPortInt() int {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			return p
		}
	}
	return 8000
}

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the Rankwatch collection server",
	Long: `Run the Rankwatch collection server.

To run the server requires the environment variable DATABASE_URL and a
configured spreadsheet (spreadsheet_id in the config file or
RANKWATCH_SPREADSHEET_ID).

By default, database migrations are run on startup. Use --no-migrate to skip.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Validate required environment variables first (fail fast)
		if os.Getenv("DATABASE_URL") == "" {
			fmt.Fprintln(os.Stderr, "DATABASE_URL environment variable is required")
			os.Exit(1)
		}

		cfg := config.Get()
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
			os.Exit(1)
		}
		if cfg.SpreadsheetID == "" {
			fmt.Fprintln(os.Stderr, "spreadsheet_id is required (config file or RANKWATCH_SPREADSHEET_ID)")
			os.Exit(1)
		}

		// Run migrations unless --no-migrate is set
		noMigrate, _ := cmd.Flags().GetBool("no-migrate")
		if !noMigrate {
			log.Println("Running database migrations...")
			if err := runMigrations(); err != nil {
				fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
				os.Exit(1)
			}
		}

		database, err := db.Connect(db.Config{})
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to connect to DB:", err)
			os.Exit(1)
		}

		if err := seedTargets(database, cfg); err != nil {
			fmt.Fprintln(os.Stderr, "Unable to seed targets:", err)
			os.Exit(1)
		}

		ctx := context.Background()
		sheet, err := sheets.NewClient(ctx, cfg.CredentialsPath, cfg.SpreadsheetID, cfg.Worksheet)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to create Sheets client:", err)
			os.Exit(1)
		}

		location, err := cfg.Location()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Bad timezone:", err)
			os.Exit(1)
		}

		files := artifact.NewFSStore(cfg.ArtifactDir)
		c := collector.New(collector.Options{
			Runs:         gormstore.NewRunsStore(database),
			Rows:         gormstore.NewRowsStore(database),
			Artifacts:    gormstore.NewArtifactsStore(database),
			Targets:      gormstore.NewTargetsStore(database),
			Fetcher:      buildFetcher(cfg),
			Sheet:        sheet,
			Files:        files,
			Location:     location,
			FetchTimeout: cfg.FetchTimeoutDuration(),
			FetcherName:  cfg.Fetcher,

			SpreadsheetID: cfg.SpreadsheetID,
			Worksheet:     cfg.Worksheet,
		})

		sched, err := scheduler.New(cfg.Schedule, c)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Bad schedule:", err)
			os.Exit(1)
		}
		sched.Start()
		defer sched.Stop()
		log.Printf("Scheduled collection runs: %s (%s)\n", cfg.Schedule, cfg.Timezone)

		host, _ := cmd.Flags().GetString("bind-address")
		port, _ := cmd.Flags().GetString("port")
		s := server.NewServer(database, cfg, c, files, host, port)

		endpoints.RegisterAll(s)

		log.Printf("Running server at http://%s:%s...\n", host, port)
		log.Fatal(s.Start())
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	// Here you will define your flags and configuration settings.

	// Cobra supports Persistent Flags which will work for this command
	// and all subcommands, e.g.:
	// serverCmd.PersistentFlags().String("foo", "", "A help for foo")

	// Cobra supports local flags which will only run when this command
	// is called directly, e.g.:
	serverCmd.Flags().StringP("port", "p", defaultPort(), "server listen port")
	serverCmd.Flags().StringP("bind-address", "b", defaultBindAddress(), "server bind address")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
}

// buildFetcher constructs the page fetcher named by the configuration.
func buildFetcher(cfg *config.Config) fetch.Fetcher {
	if cfg.Fetcher == "browser" {
		return fetch.NewBrowserFetcher(cfg.FetchTimeoutDuration(), cfg.UserAgent)
	}
	return fetch.NewHTTPFetcher(cfg.FetchTimeoutDuration(), cfg.UserAgent)
}

// seedTargets upserts the configured targets into the database. Targets
// already present keep their enabled flag only if they are not listed in
// the config; listed targets are (re-)enabled.
func seedTargets(database *gorm.DB, cfg *config.Config) error {
	targets := gormstore.NewTargetsStore(database)
	for i, tc := range cfg.Targets {
		err := targets.UpsertTarget(&store.Target{
			Slug:     tc.Slug,
			Name:     tc.Name,
			URL:      tc.URL,
			Kind:     tc.Kind,
			Columns:  tc.Columns,
			Position: i,
			Enabled:  true,
		})
		if err != nil {
			return fmt.Errorf("failed to upsert target %s: %w", tc.Slug, err)
		}
	}
	return nil
}
