package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Elmoro10/Fagerborg-BK-Kamper/internal/assets"
	"github.com/Elmoro10/Fagerborg-BK-Kamper/internal/config"
	"github.com/Elmoro10/Fagerborg-BK-Kamper/internal/logger"
	"github.com/Elmoro10/Fagerborg-BK-Kamper/internal/pipeline"
	"github.com/Elmoro10/Fagerborg-BK-Kamper/internal/publisher"
	"github.com/Elmoro10/Fagerborg-BK-Kamper/internal/scraper"
	"github.com/Elmoro10/Fagerborg-BK-Kamper/internal/server"
	"github.com/Elmoro10/Fagerborg-BK-Kamper/internal/storage"
)

var (
	flagDataDir   string
	flagAssetsDir string
	flagFormat    string
	flagDryRun    bool
	flagVerbose   bool
	flagAddr      string
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "terminliste",
		Short: "Fetch Fagerborg BK fixtures from fotball.no and publish JSON + ICS feeds",
		Long: `Fetches the terminliste for each tracked team from fotball.no, normalizes
the rows into a canonical fixture dataset, and generates one calendar feed
per team plus a combined one. Designed to run unattended on a schedule: the
fetch command always exits zero and keeps the previous snapshot when a parse
looks broken.`,
	}

	cmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "Data directory for matches.json and calendars (default \"data\")")
	cmd.PersistentFlags().StringVar(&flagAssetsDir, "assets-dir", "", "Directory for downloaded club logos (default \"assets/logos\")")
	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")

	cmd.AddCommand(newFetchCmd(), newServeCmd())
	return cmd
}

func newFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Run one fetch/normalize/publish pass over all tracked scopes",
		RunE:  runFetch,
	}
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Parse and validate without writing any files")
	return cmd
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the published dataset and calendars over HTTP",
		RunE:  runServe,
	}
	cmd.Flags().StringVar(&flagAddr, "addr", ":8080", "Listen address")
	return cmd
}

// runFetch never returns an error: this runs unattended on a schedule and a
// failed fetch must not fail the surrounding automation. Failures are logged
// and the previous snapshot stays published.
func runFetch(cmd *cobra.Command, args []string) error {
	if flagVerbose {
		logger.SetDefault(logger.New(logger.LevelDebug, os.Stderr))
	}

	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		logger.Warn("invalid format, falling back to text", logger.Fields{"format": flagFormat})
		format = FormatText
	}

	cfg := loadConfig()

	store, err := storage.New(cfg.DataDir)
	if err != nil {
		logger.Error("initializing storage", logger.Fields{"dir": cfg.DataDir}, err)
		return nil
	}
	logos, err := assets.New(cfg.AssetsDir, cfg.AssetsRef, scraper.UserAgent)
	if err != nil {
		logger.Error("initializing asset store", logger.Fields{"dir": cfg.AssetsDir}, err)
		return nil
	}

	var pub publisher.Publisher = publisher.NewFilePublisher(store)
	if flagDryRun {
		pub = publisher.NewDryRunPublisher(os.Stdout)
	}

	pipe := pipeline.New(cfg, scraper.New(), store, logos, pub, time.Now)
	result, err := pipe.Run()
	if err != nil {
		logger.Error("run aborted", nil, err)
		return nil
	}

	if err := WriteOutput(os.Stdout, &result, format); err != nil {
		logger.Error("writing output", nil, err)
	}
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	store, err := storage.New(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	return server.New(store).ListenAndServe(flagAddr)
}

func loadConfig() config.Config {
	cfg := config.FromEnv()
	if flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}
	if flagAssetsDir != "" {
		cfg.AssetsDir = flagAssetsDir
	}
	return cfg
}
