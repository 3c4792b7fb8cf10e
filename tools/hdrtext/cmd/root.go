package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	_ "github.com/zostay/go-email-text/header/encoding"
	"github.com/zostay/go-email-text/header/field"
	"github.com/zostay/go-email-text/tools/hdrtext/config"
)

// app holds the settings shared by every hdrtext command once the flags have
// been parsed.
type app struct {
	configFile string
	charset    string
	foldLength int
	scope      string
	unsafe     string
	logLevel   string

	cfg    *config.Config
	logger *slog.Logger
}

// New builds the hdrtext command tree.
func New() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:               "hdrtext",
		Short:             "Encode and decode unstructured email header fields",
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&a.configFile, "config", "c", "", "YAML configuration file")
	pf.StringVar(&a.charset, "charset", field.DefaultCharset, "charset named in encoded-words")
	pf.IntVar(&a.foldLength, "fold-length", field.DefaultPreferredFoldLength, "preferred line length, -1 to never fold")
	pf.StringVar(&a.scope, "scope", field.PerLine.String(), "what to escape around a word that needs it: line, value, or word")
	pf.StringVar(&a.unsafe, "unsafe", "", "ASCII characters that are always escaped")
	pf.StringVar(&a.logLevel, "log-level", "info", "log level: debug, info, warn, or error")

	rootCmd.AddCommand(a.encodeCmd())
	rootCmd.AddCommand(a.decodeCmd())
	rootCmd.AddCommand(a.roundtripCmd())

	return rootCmd
}

// setup loads the configuration file and applies any flags given on the
// command line over it.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("charset") {
		cfg.Charset = a.charset
	}
	if flags.Changed("fold-length") {
		cfg.FoldLength = a.foldLength
	}
	if flags.Changed("scope") {
		cfg.Scope = a.scope
	}
	if flags.Changed("unsafe") {
		cfg.Unsafe = a.unsafe
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: cfg.Level(),
	}))

	a.logger.Debug("configuration loaded",
		"config", a.configFile,
		"charset", cfg.Charset,
		"fold_length", cfg.FoldLength,
		"scope", cfg.Scope,
	)

	return nil
}

// newField builds a field from the loaded configuration and logs how its
// decoded value was classified.
func (a *app) newField(name, value string) (*field.Unstructured, error) {
	opts, err := a.cfg.Options()
	if err != nil {
		return nil, err
	}

	cl, err := a.cfg.Classifier()
	if err != nil {
		return nil, err
	}

	f := field.New(name, value, opts...)
	dec, _ := f.Decoded()

	words := cl.Classify(dec)
	escaped := 0
	for _, w := range words {
		if w.Class == field.Escape {
			escaped++
		}
	}
	a.logger.Debug("classified value",
		"name", name,
		"words", len(words),
		"escaped", escaped,
	)

	return f, nil
}

// Execute runs hdrtext with the arguments from the command line.
func Execute() error {
	return New().Execute()
}
