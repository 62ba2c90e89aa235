package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/jadenpxrk/tc/internal/tokenizerenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// version is the application version, set via ldflags.
var version = "dev"

// options is the resolved configuration for one invocation.
type options struct {
	Recursive   bool
	Tokenizer   TokenizerOptions
	Threads     int
	Gitignore   bool
	Lang        string
	LinkDepth   int
	Clipboard   bool
	Interactive bool
	Verbose     bool
}

// copyToClipboard is swapped out in tests; there is no clipboard in CI.
var copyToClipboard = clipboard.WriteAll

// newRootCmd builds the tc command. Each call gets its own viper instance so the
// command can be executed more than once in a process.
func newRootCmd(streams Streams) *cobra.Command {
	v := viper.New()
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "tc [FILE]...",
		Short: "Count tokens in files, like wc counts words",
		Long: `tc prints the number of tokens in each FILE, glob pattern, directory (with -r)
or URL, and a total when more than one argument is given. With no FILE, or when
FILE is -, standard input is read.`,
		Version:       version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := loadOptions(v, cfgFile, streams.Stderr)
			if err != nil {
				return err
			}
			return run(cmd, args, opts, streams)
		},
	}
	cmd.SetIn(streams.Stdin)
	cmd.SetOut(streams.Stdout)
	cmd.SetErr(streams.Stderr)

	flags := cmd.Flags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/tc/config.toml)")

	flags.BoolP("recursive", "r", false, "Count files inside directories, recursively")
	v.BindPFlag("recursive", flags.Lookup("recursive"))

	flags.String("tokenizer", "tiktoken", "Tokenizer to use: tiktoken, huggingface or estimate")
	v.BindPFlag("tokenizer", flags.Lookup("tokenizer"))
	flags.String("model", "", "Tokenizer model (tiktoken model or encoding, e.g. gpt-4o or cl100k_base; HuggingFace model id)")
	v.BindPFlag("model", flags.Lookup("model"))
	flags.String("tokenizer-file", "", "Path to a local HuggingFace tokenizer.json")
	v.BindPFlag("tokenizer_file", flags.Lookup("tokenizer-file"))

	flags.IntP("threads", "t", 0, "Number of worker threads (0 for auto)")
	v.BindPFlag("threads", flags.Lookup("threads"))

	flags.Bool("gitignore", false, "Skip .git and paths matched by .gitignore when recursing")
	v.BindPFlag("gitignore", flags.Lookup("gitignore"))
	flags.String("lang", "", "Only count files of these languages when recursing (comma-separated, e.g. Go,Rust)")
	v.BindPFlag("lang", flags.Lookup("lang"))

	flags.Int("link-depth", 0, "Follow links from URL arguments up to this depth")
	v.BindPFlag("link_depth", flags.Lookup("link-depth"))

	flags.BoolP("clipboard", "c", false, "Also copy the report to the clipboard")
	v.BindPFlag("clipboard", flags.Lookup("clipboard"))
	flags.Bool("interactive", false, "Pick the inputs with a fuzzy finder")
	v.BindPFlag("interactive", flags.Lookup("interactive"))
	flags.BoolP("verbose", "v", false, "Log what tc is doing to stderr")
	v.BindPFlag("verbose", flags.Lookup("verbose"))

	return cmd
}

// loadOptions reads the config file and environment into v and returns the merged options.
// Precedence: default < config file < TC_* environment < flag.
func loadOptions(v *viper.Viper, cfgFile string, stderr io.Writer) (options, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "tc"))
		}
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("toml")
	}

	v.SetEnvPrefix("TC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	configErr := v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if configErr != nil && (errors.As(configErr, &notFound) || (cfgFile == "" && os.IsNotExist(configErr))) {
		configErr = nil
	}
	if configErr != nil {
		return options{}, fmt.Errorf("error reading config file: %w", configErr)
	}

	opts := options{
		Recursive: v.GetBool("recursive"),
		Tokenizer: TokenizerOptions{
			Type:  v.GetString("tokenizer"),
			Model: v.GetString("model"),
			File:  v.GetString("tokenizer_file"),
		},
		Threads:     v.GetInt("threads"),
		Gitignore:   v.GetBool("gitignore"),
		Lang:        v.GetString("lang"),
		LinkDepth:   v.GetInt("link_depth"),
		Clipboard:   v.GetBool("clipboard"),
		Interactive: v.GetBool("interactive"),
		Verbose:     v.GetBool("verbose"),
	}
	if used := v.ConfigFileUsed(); used != "" && opts.Verbose {
		fmt.Fprintln(stderr, "Using config file:", used)
	}
	return opts, nil
}

// run wires the collaborators for one invocation. Only setup failures are returned;
// per-input failures are part of the printed report.
func run(cmd *cobra.Command, args []string, opts options, streams Streams) error {
	logger := newLogger(opts.Verbose, streams.Stderr)
	defer logger.Sync()

	if opts.Interactive {
		selected, err := runInteractiveFinder()
		if err != nil {
			return fmt.Errorf("interactive mode: %w", err)
		}
		if selected == nil {
			fmt.Fprintln(streams.Stderr, "Interactive selection aborted.")
			return nil
		}
		args = selected
	}

	tokenizer, err := newTokenizer(opts.Tokenizer, logger)
	if err != nil {
		return fmt.Errorf("initializing tokenizer: %w", err)
	}
	defer tokenizer.Close()

	resolver := NewResolver(logger)
	resolver.Recursive = opts.Recursive
	resolver.Gitignore = opts.Gitignore
	resolver.LinkDepth = opts.LinkDepth
	if opts.Lang != "" {
		langData, err := loadLanguageData(logger)
		if err != nil {
			return fmt.Errorf("loading language definitions: %w", err)
		}
		resolver.Languages, err = newLanguageFilter(langData, opts.Lang)
		if err != nil {
			return err
		}
	}

	out := streams
	var report bytes.Buffer
	if opts.Clipboard {
		out.Stdout = io.MultiWriter(streams.Stdout, &report)
	}

	runner := &Runner{
		Tokenizer: tokenizer,
		Resolver:  resolver,
		Threads:   opts.Threads,
		Logger:    logger,
	}
	result := runner.Run(cmd.Context(), args, out)
	logger.Debug("run finished", zap.Int("outcomes", len(result.Outcomes)), zap.Int("total_tokens", result.TotalTokens))

	if opts.Clipboard {
		if err := copyToClipboard(report.String()); err != nil {
			logger.Warn("could not copy report to clipboard", zap.Error(err))
			fmt.Fprintf(streams.Stderr, "tc: clipboard: %v\n", err)
		}
	}
	return nil
}

func init() {
	tokenizerenv.RestoreLog()
}

func main() {
	streams := Streams{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
	if err := newRootCmd(streams).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "tc: %v\n", err)
		os.Exit(1)
	}
}
