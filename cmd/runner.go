package main

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytpm/internal/controller"
	"github.com/desertthunder/ytpm/internal/repositories"
	"github.com/desertthunder/ytpm/internal/services"
	"github.com/desertthunder/ytpm/internal/session"
	"github.com/desertthunder/ytpm/internal/shared"
	"github.com/desertthunder/ytpm/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// Storage, the session manager and the playlist client are built on first use so that
// commands like `setup config` never touch the database.
type Runner struct {
	config      *shared.Config
	httpClient  *http.Client
	logger      *log.Logger
	output      io.Writer
	input       io.Reader
	openBrowser shared.BrowserOpener

	db       *sql.DB
	ownsDB   bool
	store    *repositories.StorageRepository
	provider session.Provider
	session  *session.Manager
	client   *services.PlaylistClient
	ctrl     *controller.Controller
	engine   *tasks.Engine
}

// RunnerOpts contains configuration options for creating a Runner.
//
// Config is resolved from the --config flag when nil. DB and Provider replace the sqlite
// database and the Google provider, mostly for tests.
type RunnerOpts struct {
	Config      *shared.Config
	HTTPClient  *http.Client
	Logger      *log.Logger
	Output      io.Writer
	Input       io.Reader
	OpenBrowser shared.BrowserOpener
	DB          *sql.DB
	Provider    session.Provider
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.OpenBrowser == nil {
		opts.OpenBrowser = shared.OpenBrowser
	}

	return &Runner{
		config:      opts.Config,
		httpClient:  opts.HTTPClient,
		logger:      opts.Logger,
		output:      opts.Output,
		input:       opts.Input,
		openBrowser: opts.OpenBrowser,
		db:          opts.DB,
		provider:    opts.Provider,
	}
}

// App builds the root command.
func (r *Runner) App() *cli.Command {
	return &cli.Command{
		Name:      "ytpm",
		Usage:     "Manage a YouTube playlist through the playlist service",
		Version:   "0.1.0",
		Writer:    r.output,
		ErrWriter: r.output,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
			},
		},
		Before:   r.Configure,
		After:    r.Close,
		Commands: r.register(),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, playlistCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Configure resolves the config file and environment overlay and applies the log level.
func (r *Runner) Configure(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if r.config == nil {
		config, err := shared.ResolveConfig(cmd.String("config"))
		if err != nil {
			return ctx, err
		}
		r.config = config
	}

	level := r.config.Log.Level
	if cmd.IsSet("log-level") {
		level = cmd.String("log-level")
	}
	if level != "" {
		shared.SetLogLevel(r.logger, level)
	}
	return ctx, nil
}

// Close releases the database when the runner opened it.
func (r *Runner) Close(ctx context.Context, cmd *cli.Command) error {
	if r.db != nil && r.ownsDB {
		err := r.db.Close()
		r.db = nil
		return err
	}
	return nil
}

// SetLogger replaces the logger used by components built after the call.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) cfg() *shared.Config {
	if r.config == nil {
		r.config = shared.DefaultConfig()
	}
	return r.config
}

func (r *Runner) database() (*sql.DB, error) {
	if r.db != nil {
		return r.db, nil
	}

	db, err := shared.OpenStorage(r.cfg().Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	r.db = db
	r.ownsDB = true
	return db, nil
}

func (r *Runner) sessionManager() (*session.Manager, error) {
	if r.session != nil {
		return r.session, nil
	}

	db, err := r.database()
	if err != nil {
		return nil, err
	}
	r.store = repositories.NewStorageRepository(db)

	if r.provider == nil {
		config := r.cfg()
		r.provider = session.NewGoogleProvider(session.GoogleProviderOpts{
			ClientID:     config.Credentials.Google.ClientID,
			ClientSecret: config.Credentials.Google.ClientSecret,
			Scopes:       config.Credentials.Google.Scopes,
			Addr:         config.Server.Addr(),
			Timeout:      config.Server.SignInTimeout(),
			OpenBrowser:  r.openBrowser,
			Out:          r.output,
			Logger:       r.logger,
		})
	}

	r.session = session.NewManager(r.provider, r.store, r.logger)
	return r.session, nil
}

func (r *Runner) controller() (*controller.Controller, error) {
	if r.ctrl != nil {
		return r.ctrl, nil
	}

	manager, err := r.sessionManager()
	if err != nil {
		return nil, err
	}

	config := r.cfg()
	httpClient := r.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.API.Timeout()}
	}

	r.client = services.NewPlaylistClient(services.PlaylistClientOpts{
		BaseURL:    config.API.BaseURL,
		HTTPClient: httpClient,
		Session:    manager,
		RateLimit:  config.API.RequestsPerSecond,
		Logger:     r.logger,
	})
	r.ctrl = controller.New(r.client, manager, r.logger)
	return r.ctrl, nil
}

func (r *Runner) taskEngine() (*tasks.Engine, error) {
	if r.engine != nil {
		return r.engine, nil
	}
	if _, err := r.controller(); err != nil {
		return nil, err
	}
	r.engine = tasks.NewEngine(r.client, r.logger)
	return r.engine, nil
}

// confirm asks a yes/no question on the runner's input. Anything but y/yes is a no.
func (r *Runner) confirm(question string) (bool, error) {
	if err := r.writePlain("%s [y/N]: ", question); err != nil {
		return false, err
	}

	answer, err := bufio.NewReader(r.input).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	return r.writePlain(format+"\n", args...)
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
