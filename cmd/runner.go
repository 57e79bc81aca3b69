package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songs/internal/repositories"
	"github.com/desertthunder/songs/internal/services"
	"github.com/desertthunder/songs/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// The config and catalog are resolved lazily from the global flags the first time a command needs them.
type Runner struct {
	config  *shared.Config
	catalog *services.CatalogService
	db      *sql.DB
	logger  *log.Logger
	output  io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
//
// A nil Config is read from --config when a command runs. A nil Catalog is opened from the config.
type RunnerOpts struct {
	Config  *shared.Config
	Catalog *services.CatalogService
	Logger  *log.Logger
	Output  io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:  opts.Config,
		catalog: opts.Catalog,
		logger:  opts.Logger,
		output:  opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		serveCommand, setupCommand, listCommand, findCommand, rateCommand, historyCommand, exportCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the logger used by the runner and any catalog it opens afterwards.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// Close releases the history database, if one was opened.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

// loadConfig resolves the configuration, applies flag overrides and the log level.
func (r *Runner) loadConfig(cmd *cli.Command) (*shared.Config, error) {
	if r.config == nil {
		config, err := shared.ResolveConfig(cmd.String("config"))
		if err != nil {
			return nil, err
		}
		r.config = config
	}

	if path := cmd.String("catalog"); path != "" {
		r.config.Catalog.Path = path
	}

	if err := r.config.Validate(); err != nil {
		return nil, err
	}

	level, err := r.config.LogLevel()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidConfig, err)
	}
	shared.SetLogLevel(r.logger, level)

	return r.config, nil
}

// openCatalog loads the song table and, when configured, the rating history database.
func (r *Runner) openCatalog(cmd *cli.Command) (*services.CatalogService, error) {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	if r.catalog != nil {
		return r.catalog, nil
	}

	songs, err := repositories.NewSongRepository(repositories.NewFileStore(config.Catalog.Path))
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	r.logger.Info("catalog loaded", "path", config.Catalog.Path, "songs", songs.Len())

	opts := services.CatalogOpts{Songs: songs, Logger: r.logger}
	if config.HistoryEnabled() {
		db, err := shared.OpenHistoryDatabase(config.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to open history database: %w", err)
		}
		r.db = db
		opts.History = repositories.NewRatingEventRepository(db)
	}

	r.catalog = services.NewCatalogService(opts)
	return r.catalog, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
