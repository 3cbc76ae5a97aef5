package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// app holds the state shared by every command: configuration, output
// streams and the logger built from the configured level.
type app struct {
	v      *viper.Viper
	stdout io.Writer
	stderr io.Writer
	logger zerolog.Logger
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{
		v:      viper.New(),
		stdout: stdout,
		stderr: stderr,
		logger: zerolog.Nop(),
	}

	root := &cobra.Command{
		Use:   "monkey [file]",
		Short: "Compile and run monkey programs",
		Long: `Compile and run monkey programs.

With a file argument the program is compiled to bytecode and run on the
virtual machine, or evaluated directly with --engine eval.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Usage()
			}
			return a.runFile(cmd, args[0])
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (default is $HOME/.monkey.yaml)")
	flags.String("engine", "vm", "execution engine: vm or eval")
	flags.String("output", "text", "output format: text or json")
	flags.Bool("no-color", false, "disable colored output")
	flags.Int64("budget", 0, "maximum number of instructions to execute (0 is unlimited)")
	flags.Int("max-frames", 0, "maximum call depth (0 uses the default)")
	flags.String("log-level", "warn", "log level: debug, info, warn or error")
	if err := a.v.BindPFlags(flags); err != nil {
		panic(err)
	}
	a.v.SetEnvPrefix("monkey")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	root.AddCommand(
		a.runCmd(),
		a.disCmd(),
		a.buildCmd(),
		a.execCmd(),
		a.replCmd(),
		a.versionCmd(),
	)
	return root
}

// initConfig reads the config file, if any, and applies the settings that
// affect every command.
func (a *app) initConfig() error {
	if path := a.v.GetString("config"); path != "" {
		a.v.SetConfigFile(path)
	} else {
		if home, err := homedir.Dir(); err == nil {
			a.v.AddConfigPath(home)
		}
		a.v.SetConfigName(".monkey")
		a.v.SetConfigType("yaml")
	}
	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("config: %w", err)
		}
	}

	if a.v.GetBool("no-color") || !isTerminal(a.stdout) {
		color.NoColor = true
	}

	level, err := zerolog.ParseLevel(a.v.GetString("log-level"))
	if err != nil {
		return fmt.Errorf("invalid log level: %q", a.v.GetString("log-level"))
	}
	a.logger = zerolog.New(zerolog.ConsoleWriter{Out: a.stderr, NoColor: color.NoColor}).
		Level(level).
		With().
		Timestamp().
		Logger()
	if used := a.v.ConfigFileUsed(); used != "" {
		a.logger.Debug().Str("path", used).Msg("loaded config")
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx)
	stop()
	if err != nil {
		fatal(err)
	}
}
