package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/spin/internal/guard"
	"github.com/desertthunder/spin/internal/library"
	"github.com/desertthunder/spin/internal/models"
	"github.com/desertthunder/spin/internal/notify"
	"github.com/desertthunder/spin/internal/playback"
	"github.com/desertthunder/spin/internal/recent"
	"github.com/desertthunder/spin/internal/repositories"
	"github.com/desertthunder/spin/internal/services"
	"github.com/desertthunder/spin/internal/shared"
	"github.com/urfave/cli/v3"
)

// Auth is the sign-in provider the CLI drives.
type Auth interface {
	guard.Authenticator
	Login(ctx context.Context, email, password string) (*models.Session, error)
}

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// Dependencies not supplied through [RunnerOpts] are built from the config on first use.
type Runner struct {
	config     *shared.Config
	configPath string
	catalog    services.Catalog
	lyrics     services.LyricsProvider
	streamer   services.Streamer
	transports playback.TransportFactory
	auth       Auth
	kv         repositories.KVStore
	db         *sql.DB
	httpClient *http.Client
	notifier   notify.Notifier
	logger     *log.Logger
	output     io.Writer
	clipboard  func(string) error
	browser    func(string) error

	closers []io.Closer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Catalog    services.Catalog
	Lyrics     services.LyricsProvider
	Streamer   services.Streamer
	Transports playback.TransportFactory
	Auth       Auth
	KV         repositories.KVStore
	DB         *sql.DB
	HTTPClient *http.Client
	Notifier   notify.Notifier
	Logger     *log.Logger
	Output     io.Writer
	Clipboard  func(string) error
	Browser    func(string) error
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if opts.ConfigPath == "" {
		opts.ConfigPath = "config.toml"
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}
	if opts.Browser == nil {
		opts.Browser = shared.OpenBrowser
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		catalog:    opts.Catalog,
		lyrics:     opts.Lyrics,
		streamer:   opts.Streamer,
		transports: opts.Transports,
		auth:       opts.Auth,
		kv:         opts.KV,
		db:         opts.DB,
		httpClient: opts.HTTPClient,
		notifier:   opts.Notifier,
		logger:     opts.Logger,
		output:     opts.Output,
		clipboard:  opts.Clipboard,
		browser:    opts.Browser,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, searchCommand, trendingCommand, playCommand, lyricsCommand,
		recentCommand, likesCommand, playlistCommand, historyCommand, shareCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the logger, e.g. with a file logger while the TUI owns the terminal.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// Load is the root [cli.BeforeFunc]. It resolves the config and wires the services every command shares.
func (r *Runner) Load(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if path := cmd.String("config"); path != "" {
		r.configPath = path
	}

	if r.config == nil {
		config, err := r.loadConfig()
		if err != nil {
			return ctx, err
		}
		r.config = config
	}

	level := r.config.Log.Level
	if cmd.Bool("verbose") {
		level = "debug"
	}
	shared.SetLogLevel(r.logger, shared.ParseLogLevel(level))

	if r.notifier == nil {
		notifiers := notify.Multi{notify.NewLogNotifier(r.logger)}
		if r.config.Notify.Desktop {
			notifiers = append(notifiers, notify.NewDesktopNotifier("spin", r.logger))
		}
		r.notifier = notifiers
	}

	if r.catalog == nil || r.lyrics == nil {
		saavn := services.NewSaavnServiceFromConfig(r.config.Catalog, r.logger)
		if r.catalog == nil {
			r.catalog = saavn
		}
		if r.lyrics == nil {
			r.lyrics = saavn
		}
	}
	if r.streamer == nil {
		r.streamer = services.NewStreamClient(r.httpClient)
	}
	if r.transports == nil {
		r.transports = playback.NewBeepFactory(r.streamer, r.config.Player.SampleRate, r.logger)
	}

	return ctx, nil
}

// loadConfig reads the config file, falling back to defaults when it does not exist.
func (r *Runner) loadConfig() (*shared.Config, error) {
	if _, err := os.Stat(r.configPath); err != nil {
		r.logger.Debug("config file not found, using defaults", "path", r.configPath)
		return shared.DefaultConfig(), nil
	}
	return shared.LoadConfig(r.configPath)
}

// Close is the root [cli.AfterFunc]. It releases the database and key-value connections.
func (r *Runner) Close(ctx context.Context, cmd *cli.Command) error {
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i].Close(); err != nil {
			r.logger.Warn("failed to close resource", "error", err)
		}
	}
	r.closers = nil
	return nil
}

func (r *Runner) database() (*sql.DB, error) {
	if r.db != nil {
		return r.db, nil
	}

	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	r.db = db
	r.closers = append(r.closers, db)
	return db, nil
}

func (r *Runner) keyValue(ctx context.Context) (repositories.KVStore, error) {
	if r.kv != nil {
		return r.kv, nil
	}

	switch r.config.Recent.Backend {
	case "redis":
		kv, err := repositories.NewRedisKV(ctx, r.config.Recent.RedisAddr, r.config.Recent.RedisDB, "spin:")
		if err != nil {
			return nil, err
		}
		r.kv = kv
		r.closers = append(r.closers, kv)
	default:
		db, err := r.database()
		if err != nil {
			return nil, err
		}
		r.kv = repositories.NewSQLiteKV(db)
	}
	return r.kv, nil
}

func (r *Runner) authProvider(ctx context.Context) (Auth, error) {
	if r.auth != nil {
		return r.auth, nil
	}

	kv, err := r.keyValue(ctx)
	if err != nil {
		return nil, err
	}
	r.auth = services.NewAuthService(r.config.Auth, kv, r.httpClient, r.logger)
	return r.auth, nil
}

func (r *Runner) recentCache(ctx context.Context) (*recent.Cache, error) {
	kv, err := r.keyValue(ctx)
	if err != nil {
		return nil, err
	}
	return recent.New(kv, r.logger), nil
}

func (r *Runner) store() (*library.Store, error) {
	db, err := r.database()
	if err != nil {
		return nil, err
	}
	return library.NewStore(db), nil
}

// requireSession is the [cli.BeforeFunc] for commands that need a signed-in user.
func (r *Runner) requireSession(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	auth, err := r.authProvider(ctx)
	if err != nil {
		return ctx, err
	}
	return guard.New(auth, r.notifier, r.logger).Before(ctx, cmd)
}

// library binds the signed-in user's library. The session comes from [Runner.requireSession].
func (r *Runner) library(ctx context.Context) (*library.Library, error) {
	session, ok := guard.FromContext(ctx)
	if !ok {
		return nil, shared.ErrNotAuthenticated
	}

	store, err := r.store()
	if err != nil {
		return nil, err
	}

	lib := store.ForUser(session.UserID, r.notifier, r.logger)
	if err := lib.LoadLikes(); err != nil {
		return nil, err
	}
	return lib, nil
}

func (r *Runner) newSession(lib *library.Library, notifier notify.Notifier) *playback.Session {
	if notifier == nil {
		notifier = r.notifier
	}
	return playback.NewSession(playback.Options{
		Transports:  r.transports,
		Lyrics:      r.lyrics,
		Streamer:    r.streamer,
		Notifier:    notifier,
		Recorder:    lib,
		DownloadDir: r.config.Player.DownloadDir,
		Volume:      r.config.Player.Volume,
		Logger:      r.logger,
	})
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

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
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
