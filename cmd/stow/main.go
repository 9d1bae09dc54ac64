package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/rzbill/stow/internal/config"
	"github.com/rzbill/stow/internal/event"
	"github.com/rzbill/stow/internal/runtime"
	"github.com/rzbill/stow/internal/store"
	logpkg "github.com/rzbill/stow/pkg/log"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "stow",
		Short: "stow local event buffer CLI",
		Long:  "stow persists telemetry events to bounded local stores. This CLI inspects and manages a data directory.",
	}

	rootCmd.PersistentFlags().String("data-dir", "", "data directory (default: platform data dir, STOW_DATA_DIR)")
	rootCmd.PersistentFlags().String("config", "", "path to JSON config file")
	rootCmd.PersistentFlags().Int("capacity", 0, "max retained events per store (default 500, STOW_CAPACITY)")
	rootCmd.PersistentFlags().String("log-level", "", "debug|info|warn|error (STOW_LOG_LEVEL)")
	rootCmd.PersistentFlags().String("log-format", "", "text|json (STOW_LOG_FORMAT)")

	rootCmd.AddCommand(countCmd(), peekCmd(), appendCmd(), clearCmd(), statsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openRuntime builds a Runtime from config file, env, and flags, in
// ascending precedence.
func openRuntime(cmd *cobra.Command) (*runtime.Runtime, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := cfgpkg.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	cfgpkg.FromEnv(&cfg)

	if v, _ := cmd.Flags().GetString("data-dir"); v != "" {
		cfg.DataDir = v
	}
	if v, _ := cmd.Flags().GetInt("capacity"); v > 0 {
		cfg.Capacity = v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}
	if v, _ := cmd.Flags().GetString("log-format"); v != "" {
		cfg.LogFormat = v
	}

	level, err := logpkg.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logpkg.InfoLevel
	}
	var formatter logpkg.Formatter = &logpkg.TextFormatter{}
	if cfg.LogFormat == "json" {
		formatter = &logpkg.JSONFormatter{}
	}
	logger := logpkg.NewLogger(
		logpkg.WithLevel(level),
		logpkg.WithFormatter(formatter),
		logpkg.WithOutput(logpkg.NewConsoleOutput()),
	)
	logpkg.RedirectStdLog(logger)

	return runtime.Open(runtime.Options{Config: cfg, Logger: logger})
}

func parseIdentity(s string) (store.Identity, error) {
	switch strings.ToLower(s) {
	case "primary", "":
		return store.Primary, nil
	case "monitor":
		return store.Monitor, nil
	default:
		return store.Primary, fmt.Errorf("unknown store %q (want primary or monitor)", s)
	}
}

func countCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "count",
		Short: "Print the authoritative event count of a store",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()
			name, _ := cmd.Flags().GetString("store")
			id, err := parseIdentity(name)
			if err != nil {
				return err
			}
			fmt.Println(rt.Store().Count(id))
			return nil
		},
	}
	cmd.Flags().String("store", "primary", "store identity: primary|monitor")
	return cmd
}

func peekCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "peek",
		Short: "Print buffered events as JSON lines, oldest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()
			name, _ := cmd.Flags().GetString("store")
			id, err := parseIdentity(name)
			if err != nil {
				return err
			}
			limit, _ := cmd.Flags().GetInt("limit")
			kind, _ := cmd.Flags().GetString("kind")

			events := rt.Store().Retrieve(id)
			enc := json.NewEncoder(os.Stdout)
			printed := 0
			for _, ev := range events {
				if kind != "" && string(ev.Kind) != kind {
					continue
				}
				if limit > 0 && printed >= limit {
					break
				}
				if err := enc.Encode(ev); err != nil {
					return err
				}
				printed++
			}
			return nil
		},
	}
	cmd.Flags().String("store", "primary", "store identity: primary|monitor")
	cmd.Flags().Int("limit", 0, "max events to print (0 = all)")
	cmd.Flags().String("kind", "", "filter by event kind")
	return cmd
}

func appendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "append",
		Short: "Buffer one event into a store",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()
			name, _ := cmd.Flags().GetString("store")
			id, err := parseIdentity(name)
			if err != nil {
				return err
			}
			evName, _ := cmd.Flags().GetString("name")
			if evName == "" {
				return fmt.Errorf("--name is required")
			}
			propsRaw, _ := cmd.Flags().GetStringArray("prop")
			var props map[string]any
			if len(propsRaw) > 0 {
				props = make(map[string]any, len(propsRaw))
				for _, p := range propsRaw {
					k, v, ok := strings.Cut(p, "=")
					if !ok {
						return fmt.Errorf("bad --prop %q (want key=value)", p)
					}
					props[k] = v
				}
			}
			return rt.Store().Persist(id, []event.Event{event.New(evName, props)})
		},
	}
	cmd.Flags().String("store", "primary", "store identity: primary|monitor")
	cmd.Flags().String("name", "", "event name")
	cmd.Flags().StringArray("prop", nil, "event property as key=value (repeatable)")
	return cmd
}

func clearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete a store's persisted collection",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()
			name, _ := cmd.Flags().GetString("store")
			id, err := parseIdentity(name)
			if err != nil {
				return err
			}
			rt.Store().Clear(id)
			return nil
		},
	}
	cmd.Flags().String("store", "primary", "store identity: primary|monitor")
	return cmd
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print counts for both stores and the cumulative drop total",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()
			out := map[string]any{
				"dropped": rt.Store().Dropped(),
			}
			for _, id := range store.Identities() {
				out[id.String()] = map[string]any{
					"count": rt.Manager().Count(id),
					"file":  rt.Manager().Path(id),
				}
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
}
