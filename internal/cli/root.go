// Package cli implements the routetimer command-line interface.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/routetimer/internal/session"
	"github.com/mesh-intelligence/routetimer/internal/sqlite"
	"github.com/mesh-intelligence/routetimer/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
	assumeYes bool
	logLevel  string
}

// app carries the flags and the open store of one command invocation.
// now is the clock behind timer start and stop times and elapsed times.
type app struct {
	flags rootFlags
	now   func() time.Time

	backend *sqlite.Backend
	session *session.Session
	log     *slog.Logger
}

// NewRootCmd creates the top-level "routetimer" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	return newRootCmd(time.Now)
}

func newRootCmd(now func() time.Time) *cobra.Command {
	a := &app{now: now}
	root := &cobra.Command{
		Use:   "routetimer",
		Short: "Time the routes of your regular trips",
		Long: "Route Timer records how long each route of a trip takes and reports\n" +
			"the fastest, slowest and average time per route.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	pf.StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: .routetimer-db)")
	pf.BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")
	pf.BoolVarP(&a.flags.assumeYes, "yes", "y", false, "answer yes to every confirmation")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(a),
		newStatusCmd(a),
		newTripCmd(a),
		newRouteCmd(a),
		newStartCmd(a),
		newStopCmd(a),
		newEntryCmd(a),
		newStatsCmd(a),
		newExportCmd(a),
		newImportCmd(a),
		newResetCmd(a),
	)
	return root
}

// Execute runs the root command and exits with the matching code.
func Execute() {
	root := NewRootCmd()
	err := root.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "routetimer:", err)
	}
	os.Exit(exitCode(err))
}

// exitCode maps an error to a process exit code. Store failures are system
// errors; everything else was caused by the request.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitSuccess
	case errors.Is(err, types.ErrStoreUnavailable),
		errors.Is(err, types.ErrStoreOperationFailed):
		return exitSysError
	default:
		return exitUserError
	}
}

// open loads the configuration, attaches the backend and loads a session.
// The store is released by the root command's post-run hook.
func (a *app) open(cmd *cobra.Command) (*session.Session, error) {
	cfg, err := loadSettings(a.flags)
	if err != nil {
		return nil, err
	}
	a.log = newLogger(cmd.ErrOrStderr(), cfg.logLevel)

	a.backend = sqlite.NewBackend(sqlite.WithClock(a.now))
	if err := a.backend.Attach(cfg.store); err != nil {
		a.backend = nil
		return nil, err
	}
	a.log.Debug("store attached", "path", a.backend.Path())

	prompter := newTerminalPrompter(cmd.InOrStdin(), cmd.ErrOrStderr(), cfg.assumeYes)
	a.session = session.New(a.backend, prompter, a.log)
	if err := a.session.Load(cmd.Context()); err != nil {
		return nil, err
	}
	return a.session, nil
}

// close stops the session and detaches the backend, if they were opened.
func (a *app) close() error {
	if a.session != nil {
		a.session.Close()
		a.session = nil
	}
	if a.backend != nil {
		err := a.backend.Detach()
		a.backend = nil
		return err
	}
	return nil
}

// withSession wraps a command body that needs an open session. The store is
// closed even when the body fails, because cobra skips post-run hooks then.
func (a *app) withSession(fn func(ctx context.Context, cmd *cobra.Command, s *session.Session, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		s, err := a.open(cmd)
		if err != nil {
			a.close()
			return err
		}
		if err := fn(cmd.Context(), cmd, s, args); err != nil {
			a.close()
			return err
		}
		return nil
	}
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
