// Package cmd implements the vesselsim commands.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vesselbridge/sdk/examples/surveyor/lander"
	"github.com/vesselbridge/sdk/host/registry"
)

// envPrefix prefixes the environment variables read for every setting,
// for example VESSELSIM_FRAMES.
const envPrefix = "VESSELSIM"

// app is the state shared by the commands of one root command.
type app struct {
	v        *viper.Viper
	catalog  *registry.Registry
	out      io.Writer
	errOut   io.Writer
	settings string
}

// Execute runs the root command with the process arguments.
func Execute() error {
	return NewRootCommand(os.Stdout, os.Stderr).Execute()
}

// NewRootCommand builds the vesselsim command tree. Output goes to out,
// logs and errors to errOut.
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	a := &app{v: viper.New(), out: out, errOut: errOut}

	root := &cobra.Command{
		Use:   "vesselsim",
		Short: "Run vessel logic against a simulated host",
		Long: `vesselsim constructs a vessel, configures it from its class configuration
document and steps it for a number of frames, then reports what the logic
built and wrote to the debug display. Logic comes from the built-in classes
or from a WASM module.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	root.PersistentFlags().StringVar(&a.settings, "settings", "", "settings file (default is $HOME/.vesselsim.yaml)")
	root.PersistentFlags().String("log-level", "warn", "log level: debug, info, warn or error")
	_ = a.v.BindPFlag("log_level", root.PersistentFlags().Lookup("log-level"))

	root.AddCommand(newRunCommand(a), newSchemaCommand(a), newClassesCommand(a))
	return root
}

// load reads the settings file and environment and loads the built-in classes.
func (a *app) load() error {
	if a.settings != "" {
		a.v.SetConfigFile(a.settings)
	} else if home, err := os.UserHomeDir(); err == nil {
		a.v.AddConfigPath(home)
		a.v.SetConfigName(".vesselsim")
		a.v.SetConfigType("yaml")
	}

	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if a.settings != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read settings: %w", err)
		}
	}

	a.catalog = registry.NewRegistry(registry.WithStrictMode(true))
	if err := a.catalog.Register(lander.Definition()); err != nil {
		return fmt.Errorf("failed to register built-in classes: %w", err)
	}
	return nil
}

func (a *app) logger() *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(a.v.GetString("log_level"))); err != nil {
		level = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(a.errOut, &slog.HandlerOptions{Level: level}))
}
