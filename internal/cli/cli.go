// Package cli wires the formbuilder commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbuilder"
	"github.com/goliatone/go-formbuilder/internal/config"
	"github.com/goliatone/go-formbuilder/internal/loader"
	"github.com/goliatone/go-formbuilder/internal/wizard"
	"github.com/goliatone/go-formbuilder/pkg/codegen"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/storage"
	"github.com/goliatone/go-formbuilder/pkg/store"
)

// ErrLintFailed is returned by the lint command when a definition has errors.
var ErrLintFailed = errors.New("lint failed")

// CommandContext carries the process streams and collaborators commands use.
type CommandContext struct {
	StdOut io.Writer
	StdErr io.Writer
	StdIn  io.Reader
	// Driver answers the add wizard. Nil selects the terminal driver.
	Driver wizard.PromptDriver
}

func (c CommandContext) withDefaults() CommandContext {
	if c.StdOut == nil {
		c.StdOut = os.Stdout
	}
	if c.StdErr == nil {
		c.StdErr = os.Stderr
	}
	if c.StdIn == nil {
		c.StdIn = os.Stdin
	}
	return c
}

// Root holds the persistent flags shared by every command.
type Root struct {
	ConfigFile string
	LogLevel   string
	LogFormat  string
	Storage    string

	cmdContext CommandContext
	cfg        config.Config
	logger     *logrus.Logger
}

// New builds the command tree.
func New(cmdContext CommandContext) *cobra.Command {
	root := &Root{cmdContext: cmdContext.withDefaults(), cfg: config.Default()}

	cmd := &cobra.Command{
		Use:           "formbuilder",
		Short:         "Build form definitions and generate code from them",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return root.setup(cmd)
		},
	}
	cmd.SetOut(root.cmdContext.StdOut)
	cmd.SetErr(root.cmdContext.StdErr)
	cmd.SetIn(root.cmdContext.StdIn)

	flags := cmd.PersistentFlags()
	flags.StringVarP(&root.ConfigFile, "config", "c", "", "configuration file (default "+config.DefaultFile+")")
	flags.StringVar(&root.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.StringVar(&root.LogFormat, "log-format", "", "log format (text, json)")
	flags.StringVar(&root.Storage, "storage", "", "state location (file:PATH or sqlite:DSN)")

	cmd.AddCommand(
		NewGenerate(root),
		NewLint(root),
		NewPreview(root),
		NewImport(root),
		NewAdd(root),
		NewForms(root),
		NewTheme(root),
		NewFormats(root),
		NewServe(root),
	)
	return cmd
}

// Execute runs the command tree with os.Args and returns the process exit
// code.
func Execute(ctx context.Context, cmdContext CommandContext) int {
	cmdContext = cmdContext.withDefaults()
	cmd := New(cmdContext)
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, ErrLintFailed) {
			fmt.Fprintf(cmdContext.StdErr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func (r *Root) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(r.ConfigFile)
	if err != nil {
		return err
	}
	if r.LogLevel != "" {
		cfg.LogLevel = r.LogLevel
	}
	if r.LogFormat != "" {
		cfg.LogFormat = r.LogFormat
	}
	if r.Storage != "" {
		cfg.Storage = r.Storage
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logrus.New()
	logger.SetOutput(cmd.ErrOrStderr())
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	logger.SetLevel(level)
	if cfg.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	r.cfg = cfg
	r.logger = logger
	return nil
}

func (r *Root) loader() *loader.Loader {
	return loader.New(loader.WithHTTP(), loader.WithStdin(r.cmdContext.StdIn))
}

func (r *Root) loadDefinition(ctx context.Context, source string) (model.FormDefinition, error) {
	data, err := r.loader().Load(ctx, source)
	if err != nil {
		return model.FormDefinition{}, err
	}
	return loader.DecodeDefinition(data, loader.IsYAML(source))
}

func (r *Root) registry(module string) (*codegen.Registry, error) {
	if strings.TrimSpace(module) == "" {
		module = r.cfg.SchemaModule
	}
	return codegen.NewDefaultRegistry(codegen.WithModule(module))
}

// openSession restores the persisted builder state. A fresh session takes
// its theme and language from the configuration.
func (r *Root) openSession(ctx context.Context) (*formbuilder.Session, error) {
	backend, err := storage.Open(ctx, r.cfg.Storage)
	if err != nil {
		return nil, err
	}
	session, err := formbuilder.OpenSession(ctx, backend, r.logger, store.WithHistoryLimit(r.cfg.HistoryLimit))
	if err != nil {
		_ = backend.Close()
		return nil, err
	}
	if session.Fresh {
		if err := session.Store.SetTheme(r.cfg.Theme); err != nil {
			r.logger.WithError(err).Warn("cli: configured theme ignored")
		}
		session.Store.SetLanguage(r.cfg.Language)
	}
	return session, nil
}

func (r *Root) out() io.Writer { return r.cmdContext.StdOut }
