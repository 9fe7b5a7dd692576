// Package cli implements the people command line tool on top of a
// storage.Repository.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aanand-mishra/people-registry/internal/config"
	"github.com/aanand-mishra/people-registry/internal/storage"
	"github.com/aanand-mishra/people-registry/internal/storage/backend"
)

const defaultDataPath = "data"

type runtime struct {
	out        io.Writer
	log        *slog.Logger
	configPath string
	path       string
	backend    string
	repo       storage.Repository
}

// NewRootCommand returns the people command with every subcommand
// attached. Command output goes to out and diagnostics to log; a nil log
// uses slog.Default().
//
// The store is chosen once per run: --config when given, otherwise the
// STORAGE_PATH and STORAGE_BACKEND environment variables when STORAGE_PATH
// is set, otherwise the flag defaults. --file and --backend always win.
func NewRootCommand(out io.Writer, log *slog.Logger) *cobra.Command {
	if log == nil {
		log = slog.Default()
	}
	rt := &runtime{out: out, log: log}

	cmd := &cobra.Command{
		Use:           "people",
		Short:         "Manage the student, seller and gardener records file",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return rt.resolve(cmd)
		},
	}
	cmd.SetOut(out)
	cmd.SetErr(out)

	flags := cmd.PersistentFlags()
	flags.StringVar(&rt.configPath, "config", "", "Path to the configuration YAML file")
	flags.StringVarP(&rt.path, "file", "f", defaultDataPath, "Record store path (overrides storage_path)")
	flags.StringVar(&rt.backend, "backend", config.BackendFile, "Storage backend: file or sqlite (overrides storage_backend)")

	cmd.AddCommand(newListCommand(rt))
	cmd.AddCommand(newAddCommand(rt))
	cmd.AddCommand(newStudyCommand(rt))
	cmd.AddCommand(newReportCommand(rt))
	cmd.AddCommand(newRewriteCommand(rt))
	return cmd
}

// resolve applies --config or the environment first, then lets explicitly
// set flags win.
func (rt *runtime) resolve(cmd *cobra.Command) error {
	path, name := rt.path, rt.backend

	var (
		cfg *config.Config
		err error
	)
	switch {
	case rt.configPath != "":
		cfg, err = config.Load(rt.configPath)
	case os.Getenv("STORAGE_PATH") != "":
		cfg, err = config.FromEnv()
	}
	if err != nil {
		return err
	}

	if cfg != nil {
		flags := cmd.Flags()
		if !flags.Changed("file") {
			path = cfg.StoragePath
		}
		if !flags.Changed("backend") {
			name = cfg.StorageBackend
		}
	}

	repo, err := backend.New(name, rt.log)
	if err != nil {
		return err
	}

	rt.path, rt.backend, rt.repo = path, name, repo
	rt.log.Debug("store resolved", slog.String("path", path), slog.String("backend", name))
	return nil
}

func (rt *runtime) printf(format string, args ...any) error {
	_, err := fmt.Fprintf(rt.out, format, args...)
	return err
}
