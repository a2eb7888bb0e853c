package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"datatable/appconfig"
	"datatable/logging"
	"datatable/metrics"
	"datatable/preset"
	"datatable/session"
	"datatable/store"
	"datatable/tableconfig"
)

type rootFlags struct {
	configFile string
	table      string
	base       string
	yes        bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	cmd := &cobra.Command{
		Use:   "datatable",
		Short: "Configure data tables and their presets",
		Long: `datatable keeps the configuration of data tables: the active options,
named presets and the committed display settings of each table.

It serves them over HTTP and websockets and manages them from the command line.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.configFile, "config", "", "YAML or JSON config file")
	pf.StringVar(&flags.table, "table", "default", "Table id")
	pf.StringVar(&flags.base, "base", "", "JSON or YAML file with the table's own configuration")
	pf.BoolVarP(&flags.yes, "yes", "y", false, "Answer yes to every confirmation")
	appconfig.AddFlags(pf)

	cmd.AddCommand(newServeCmd(flags))
	cmd.AddCommand(newPresetsCmd(flags))
	cmd.AddCommand(newViewCmd(flags))
	return cmd
}

// app holds what every command needs: settings, logger, store and catalog.
type app struct {
	cfg     appconfig.Config
	log     *logrus.Logger
	store   store.Store
	catalog preset.Catalog
}

func newApp(cmd *cobra.Command, flags *rootFlags) (*app, error) {
	cfg, err := appconfig.Load(flags.configFile, cmd.Flags())
	if err != nil {
		return nil, err
	}
	log, err := logging.New(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	catalog, err := preset.LoadCatalog(cfg.Catalog)
	if err != nil {
		return nil, err
	}
	st, err := store.Open(cfg.Store.Backend, cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store.Backend, err)
	}
	log.WithFields(logrus.Fields{"backend": cfg.Store.Backend, "path": cfg.Store.Path}).Debug("Opened preset store.")
	return &app{cfg: cfg, log: log, store: st, catalog: catalog}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

func (a *app) options(r session.Renderer, m *metrics.Metrics) session.Options {
	return session.Options{
		Catalog:  &a.catalog,
		Renderer: r,
		Logger:   a.log,
		Metrics:  m,
		Locale:   a.cfg.Locale,
	}
}

// openTable opens the table named by flags and hands it its configuration.
func (a *app) openTable(flags *rootFlags, r session.Renderer) (*session.Session, error) {
	base, err := readBase(flags.base)
	if err != nil {
		return nil, err
	}
	s, err := session.NewManager(a.store, a.options(r, nil)).Open(flags.table)
	if err != nil {
		return nil, err
	}
	s.Supply(base)
	return s, nil
}

// readBase loads a table configuration from a JSON or YAML file. An empty
// path yields an empty configuration.
func readBase(path string) (tableconfig.Config, error) {
	if path == "" {
		return tableconfig.Config{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if isYAML(path) {
		var cfg tableconfig.Config
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		if cfg == nil {
			cfg = tableconfig.Config{}
		}
		return cfg, nil
	}
	cfg, err := tableconfig.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
