package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/rankwatch/rankwatch/pkg/config"
	"github.com/rankwatch/rankwatch/pkg/db"
	"github.com/rankwatch/rankwatch/pkg/server/store"
	gormstore "github.com/rankwatch/rankwatch/pkg/server/store/gorm"
)

// targetsWatchCmd represents the targets watch command
var targetsWatchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Watch a targets file and sync it into the database",
	Long: `Watch a YAML targets file and upsert its targets when it changes.

The watched file holds a YAML list of targets:

  - slug: paper
    name: The Book
    url: https://www.amazon.co.jp/dp/...
    kind: book
    columns: 3

Example:
  rankwatchctl targets watch /etc/rankwatch/targets.yml`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		filename := args[0]

		if err := watchTargets(filename); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to watch targets: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	targetsCmd.AddCommand(targetsWatchCmd)
}

func watchTargets(filename string) error {
	// Connect to database
	database, err := db.Connect(db.Config{})
	if err != nil {
		return err
	}

	// Sync once on startup so the watcher starts from the file's state
	if err := syncTargetsFromFile(database, filename); err != nil {
		fmt.Fprintf(os.Stderr, "Error syncing targets: %v\n", err)
	}

	// Create file watcher
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Add file to watcher
	if err := watcher.Add(filename); err != nil {
		return fmt.Errorf("failed to watch file %s: %w", filename, err)
	}

	fmt.Printf("Watching %s for target changes\n", filename)

	// Handle signals for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				fmt.Printf("[%s] File modified, syncing targets...\n", time.Now().Format(time.RFC3339))

				if err := syncTargetsFromFile(database, filename); err != nil {
					fmt.Fprintf(os.Stderr, "Error syncing targets: %v\n", err)
				} else {
					fmt.Printf("Targets synced from %s\n", filename)
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "Watcher error: %v\n", err)
		case <-sigChan:
			fmt.Println("\nShutting down...")
			return nil
		}
	}
}

func syncTargetsFromFile(database *gorm.DB, filename string) error {
	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read targets file: %w", err)
	}

	var configs []config.TargetConfig
	if err := yaml.Unmarshal(content, &configs); err != nil {
		return fmt.Errorf("failed to parse targets file: %w", err)
	}

	targets := gormstore.NewTargetsStore(database)
	for i, tc := range configs {
		if tc.Slug == "" || tc.URL == "" {
			return fmt.Errorf("target %d is missing a slug or url", i)
		}
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
