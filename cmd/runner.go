package main

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tapedeck/internal/api"
	"github.com/desertthunder/tapedeck/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config *shared.Config
	client *api.Client
	logger *log.Logger
	output io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config *shared.Config
	Client *api.Client
	Logger *log.Logger
	Output io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Client == nil {
		opts.Client = api.NewClient(api.ClientOpts{
			BaseURL:     opts.Config.API.BaseURL,
			AccessToken: opts.Config.API.AccessToken,
			RateLimit:   opts.Config.API.RateLimit,
		})
	}

	return &Runner{
		config: opts.Config,
		client: opts.Client,
		logger: opts.Logger,
		output: opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, mixtapeCommand, draftsCommand, editCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the runner's logger; used to redirect logs to a file
// while the TUI owns the terminal.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// openDraftDB opens the draft cache database configured in config.toml.
func (r *Runner) openDraftDB() (*sql.DB, error) {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open draft database: %w", err)
	}

	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)
	return db, nil
}

// authTokenPath returns the path the sign-in flow persists the API token to.
func authTokenPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".tapedeck", "token"), nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return err
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

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
