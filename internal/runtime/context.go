// Package runtime provides the application runtime context for undoctl.
package runtime

import (
	"context"

	"github.com/manav03panchal/undoctl/internal/config"
	"github.com/manav03panchal/undoctl/internal/errors"
	"github.com/manav03panchal/undoctl/internal/journal"
	"github.com/manav03panchal/undoctl/internal/logging"
	"github.com/manav03panchal/undoctl/internal/output"
	"github.com/manav03panchal/undoctl/internal/parser"
	"github.com/manav03panchal/undoctl/internal/session"
	"github.com/manav03panchal/undoctl/internal/storage"
)

// MemoryPath as the storage path keeps the journal in memory.
const MemoryPath = ":memory:"

// Context holds the application runtime context.
type Context struct {
	Config    config.Config
	Formatter *output.Formatter

	// DB and JournalRepo are nil when the journal is disabled.
	DB          *storage.DB
	JournalRepo *storage.JournalRepo

	// Debug mode
	Debug bool

	ctx       context.Context
	recorders []*journal.Recorder
}

// Options configures the runtime context.
type Options struct {
	ConfigPath string
	// DBPath overrides the configured journal path.
	DBPath    string
	InMemory  bool
	NoJournal bool
	Format    output.Format
	ColorMode output.ColorMode
	Debug     bool
}

// DefaultOptions returns default runtime options.
func DefaultOptions() Options {
	return Options{
		Format:    output.FormatCLI,
		ColorMode: output.ColorAuto,
	}
}

// New loads configuration, initializes logging and opens the journal.
func New(opts Options) (*Context, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	if opts.Debug {
		logging.InitDebug()
	} else {
		logging.Init(cfg.Log.LoggingConfig())
	}

	c := &Context{
		Config: cfg,
		Debug:  opts.Debug,
		ctx:    logging.NewSessionContext(),
	}

	if cfg.Storage.Journal && !opts.NoJournal {
		path := cfg.Storage.Path
		if opts.DBPath != "" {
			path = opts.DBPath
		}
		inMemory := opts.InMemory || path == MemoryPath
		if inMemory {
			path = ""
		}
		db, err := storage.Open(storage.Options{Path: path, InMemory: inMemory})
		if err != nil {
			return nil, err
		}
		c.DB = db
		c.JournalRepo = storage.NewJournalRepo(db)
	}

	formatter := output.NewFormatter()
	formatter.Format = opts.Format
	formatter.ColorMode = opts.ColorMode
	c.Formatter = formatter

	logging.LoggerFromContext(c.ctx).Debug("runtime ready",
		"config", cfg.File,
		"journal", c.JournalRepo != nil,
	)
	return c, nil
}

// Ctx returns the context carrying this run's session ID.
func (c *Context) Ctx() context.Context {
	return c.ctx
}

// SessionID returns this run's session ID.
func (c *Context) SessionID() string {
	return logging.SessionIDFromContext(c.ctx)
}

// NewSession creates an editing session from the configured undo settings
// and the script's overrides. Its history is journaled when the journal
// is enabled.
func (c *Context) NewSession(overrides parser.ScriptOptions) (*session.Session, error) {
	opts, err := c.Config.Undo.Apply(overrides).ManagerOptions()
	if err != nil {
		return nil, err
	}
	s := session.New(c.ctx, opts)
	if c.JournalRepo != nil {
		rec := journal.NewRecorder(c.ctx, c.JournalRepo)
		rec.Attach(s.Manager())
		c.recorders = append(c.recorders, rec)
	}
	return s, nil
}

// JournalErr returns the first journal write failure of any session.
func (c *Context) JournalErr() error {
	for _, rec := range c.recorders {
		if err := rec.Err(); err != nil {
			path := ""
			if c.DB != nil {
				path = c.DB.Path()
			}
			return WrapDiskFullError(err, "journal append", path)
		}
	}
	return nil
}

// RequireJournal returns the journal repository or an error when the
// journal is disabled.
func (c *Context) RequireJournal() (*storage.JournalRepo, error) {
	if c.JournalRepo == nil {
		return nil, errors.ErrJournalDisabled
	}
	return c.JournalRepo, nil
}

// Close closes the runtime context.
func (c *Context) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

// CLIFormatter returns a CLI formatter.
func (c *Context) CLIFormatter() *output.CLIFormatter {
	return output.NewCLIFormatter(c.Formatter)
}

// JSONFormatter returns a JSON formatter.
func (c *Context) JSONFormatter() *output.JSONFormatter {
	return output.NewJSONFormatter(c.Formatter)
}

// IsJSON returns true if output format is JSON.
func (c *Context) IsJSON() bool {
	return c.Formatter.IsJSON()
}

// PrintError prints err in the configured format. In debug mode CLI output
// carries the error chain and any captured stack.
func (c *Context) PrintError(err error) {
	switch {
	case c.IsJSON():
		_ = c.JSONFormatter().PrintError(err)
	case c.Debug:
		c.CLIFormatter().Error(errors.FormatDebugError(err))
	default:
		c.CLIFormatter().PrintErr(err)
	}
}

// Debugf prints debug output if debug mode is enabled.
func (c *Context) Debugf(format string, args ...any) {
	if c.Debug {
		c.Formatter.Printf("[DEBUG] "+format+"\n", args...)
	}
}
