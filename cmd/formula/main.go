// Command formula is an interactive formula builder for the terminal.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"nickandperla.net/formula/internal/config"
	"nickandperla.net/formula/internal/logging"
	"nickandperla.net/formula/internal/suggest"
)

var (
	configPath  string
	urlFlag     string
	fileFlag    string
	cacheFlag   string
	verbose     bool
	unresolved  float64
	fuzzyFilter bool
	writeConfig bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "formula",
	Short: "Build and evaluate formulas from numbers, operators and tags",
	Long: `formula builds an arithmetic formula one token at a time.

Type a number (12, 3.5), a percentage (10%), an operator (+ - * / ^ ( ))
or the name of a tag fetched from the suggestion endpoint, then press
Space or Enter. The formula is evaluated after every edit.

Run without arguments to start the interactive editor.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = loadConfig(cmd)
		if err != nil {
			return err
		}
		logger, err = logging.New(cfg.Logging.Level, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runEdit,
}

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Start the interactive editor",
	Long: `Starts the formula editor.

Keys:
  Space, Enter   finalize the pending fragment
  Backspace      delete a character, or the token before the cursor
  Left, Right    move the token cursor (when nothing is pending)
  Up, Down       choose a suggestion
  Tab            insert the chosen suggestion
  Delete         remove the token after the cursor
  Ctrl+O         cycle the option of the tag before the cursor
  Ctrl+L         clear the formula
  Ctrl+D         exit

When stdin is not a terminal, each line is read as whitespace separated
fragments. Lines starting with ':' are commands:
  :rm N  :sel N  :opt N OPTION [VALUE]  :clear  :list QUERY  :refresh  :quit`,
	Args: cobra.NoArgs,
	RunE: runEdit,
}

var evalCmd = &cobra.Command{
	Use:   "eval [expression]",
	Short: "Evaluate an infix expression",
	Long: `Evaluates numbers, percentages and operators with the same rules as the
editor and prints the result.

Example:
  formula eval "( 2 + 3 ) * 4"
  formula eval 10 '*' 10%`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEval,
}

var suggestCmd = &cobra.Command{
	Use:   "suggest [query]",
	Short: "Fetch suggestions and print the ones matching query",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSuggest,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Prints the configuration after the file, environment and flags are
applied. With --write it is saved to the --config path instead.`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath(), "Config file path")
	rootCmd.PersistentFlags().StringVar(&urlFlag, "url", "", "Suggestion endpoint URL")
	rootCmd.PersistentFlags().StringVar(&fileFlag, "file", "", "Suggestion JSON file")
	rootCmd.PersistentFlags().StringVar(&cacheFlag, "cache", "", "SQLite suggestion cache path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().Float64Var(&unresolved, "unresolved", 1, "Value used for tags without a value")
	rootCmd.PersistentFlags().BoolVar(&fuzzyFilter, "fuzzy", false, "Use fuzzy suggestion matching")

	configCmd.Flags().BoolVar(&writeConfig, "write", false, "Write the configuration to the --config path")

	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "formula.yaml"
	}
	return filepath.Join(dir, "formula", "config.yaml")
}

// loadConfig reads the config file and applies the flags that were set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	c, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("url") {
		c.Suggestions.URL = urlFlag
	}
	if flags.Changed("file") {
		c.Suggestions.File = fileFlag
	}
	if flags.Changed("cache") {
		c.Suggestions.Cache = cacheFlag
	}
	if flags.Changed("unresolved") {
		c.Evaluation.UnresolvedTagValue = unresolved
	}
	if flags.Changed("fuzzy") {
		c.Filter.Mode = suggest.ModeSubstring.String()
		if fuzzyFilter {
			c.Filter.Mode = suggest.ModeFuzzy.String()
		}
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return c, nil
}
