package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	appstate "github.com/0xLeif/AppState-sub000"
	"github.com/0xLeif/AppState-sub000/config"
	pr "github.com/0xLeif/AppState-sub000/provider"
	"github.com/0xLeif/AppState-sub000/provider/file"
)

var rootCmd = &cobra.Command{
	Use:           "statectl",
	Short:         "Inspect and edit file-backed app state",
	Long:          "CLI for reading, writing and moving the values a file-backed appstate App persists.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "statectl:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ~/.config/statectl/config.yaml)")
	rootCmd.PersistentFlags().String("dir", "", "file store directory (default: $APPSTATE_FILE_DIR)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")

	viper.BindPFlag("dir", rootCmd.PersistentFlags().Lookup("dir"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	if cfg := rootCmd.PersistentFlags().Lookup("config").Value.String(); cfg != "" {
		viper.SetConfigFile(cfg)
	} else {
		viper.AddConfigPath(configDir())
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("STATECTL")
	viper.AutomaticEnv()

	defaults := config.LoadOrDefault()
	viper.SetDefault("dir", defaults.FileDir)
	viper.SetDefault("log_level", "warn")

	viper.ReadInConfig()
}

func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "statectl")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "statectl")
	}
	return ".statectl"
}

// session is a synchronous App over the configured file store.
type session struct {
	app   *appstate.App
	files *file.Provider
}

func open() (*session, error) {
	files, err := file.New(file.Config{Dir: viper.GetString("dir")})
	if err != nil {
		return nil, err
	}
	log, err := config.NewLogger("slog", viper.GetString("log_level"))
	if err != nil {
		return nil, err
	}
	app := appstate.New(appstate.Options{Logger: log, Files: files, Synchronous: true})
	return &session{app: app, files: files}, nil
}

func (s *session) Close() error { return s.app.Close(context.Background()) }

// parseKey turns "Name/id" into a scope. Keys without a name are rejected.
func parseKey(key string) (appstate.Scope, error) {
	name, id := pr.SplitKey(key)
	if name == "" || id == "" {
		return appstate.Scope{}, fmt.Errorf("key %q: want <name>/<id>", key)
	}
	return appstate.NewScope(name, id), nil
}
