package main

import (
	"os"

	"github.com/spf13/cobra"
	_ "github.com/tliron/commonlog/simple"

	"github.com/dshills/phpreflect/internal/config"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

// globalOptions holds the persistent flags shared by every command
type globalOptions struct {
	configPath string
	dbPath     string
	noDB       bool
	jsonOutput bool
	verbose    int
}

var (
	opts globalOptions
	cfg  *config.Config
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "phpreflect",
		Short:        "Static reflection for PHP codebases",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := loadConfig()
			if err != nil {
				return err
			}
			cfg = loaded
			configureLogging(cfg)
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "path to a YAML config file (default $"+config.EnvConfig+")")
	flags.StringVar(&opts.dbPath, "db", "", "database path, overrides db_path")
	flags.BoolVar(&opts.noDB, "no-db", false, "analyze in memory without reading or writing the database")
	flags.BoolVar(&opts.jsonOutput, "json", false, "print JSON even when stdout is a terminal")
	flags.CountVarP(&opts.verbose, "verbose", "v", "increase log verbosity (repeatable)")

	rootCmd.AddCommand(newIndexCmd())
	rootCmd.AddCommand(newClassCmd())
	rootCmd.AddCommand(newFunctionCmd())
	rootCmd.AddCommand(newConstantCmd())
	rootCmd.AddCommand(newNamespacesCmd())
	rootCmd.AddCommand(newClassesCmd())
	rootCmd.AddCommand(newTokensCmd())
	rootCmd.AddCommand(newSearchCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
