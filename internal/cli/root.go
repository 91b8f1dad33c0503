// Package cli implements the marina command-line interface: the interactive
// berth inventory shell plus one-shot commands over the same operations.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/berths/internal/fleet"
	"github.com/mesh-intelligence/berths/internal/logger"
	"github.com/mesh-intelligence/berths/internal/session"
	"github.com/mesh-intelligence/berths/pkg/types"
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
	dataFile  string
	saveFile  string
	strict    bool
	debug     bool
}

// app carries the flags and resolved settings for one command invocation.
type app struct {
	flags    rootFlags
	settings settings
}

// NewRootCmd creates the top-level "marina" command with global flags and
// all subcommands registered. Running it without a subcommand starts the
// interactive shell.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "marina",
		Short: "Berth inventory manager",
		Long: `Marina tracks the boats in a marina: where each one is kept (slip, land,
trailer or storage), its place-specific details and the balance owed.

Without a subcommand it starts the interactive shell:
  (I)nventory, (A)dd, (R)emove, (P)ayment, (M)onth, e(X)it`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		Args:              cobra.NoArgs,
		PersistentPreRunE: a.preRun,
		RunE:              a.runShell,
	}

	root.PersistentFlags().StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)/marina")
	root.PersistentFlags().StringVar(&a.flags.dataFile, "data-file", "", "inventory file to load (default: ./BoatData.csv)")
	root.PersistentFlags().StringVar(&a.flags.saveFile, "save-file", "", "inventory file to write on exit (default: the data file)")
	root.PersistentFlags().BoolVar(&a.flags.strict, "strict", false, "reject inventory lines with non-numeric or oversized fields")
	root.PersistentFlags().BoolVar(&a.flags.debug, "debug", false, "enable debug logging")

	root.AddCommand(a.newShellCmd())
	root.AddCommand(a.newListCmd())
	root.AddCommand(a.newAddCmd())
	root.AddCommand(a.newRemoveCmd())
	root.AddCommand(a.newPayCmd())
	root.AddCommand(a.newAccrueCmd())
	root.AddCommand(a.newHistoryCmd())
	root.AddCommand(a.newInitCmd())
	root.AddCommand(newVersionCmd())

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := NewRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "marina:", err)
		stop()
		os.Exit(exitCode(err))
	}
}

// preRun loads .env and config.yaml and installs the logger.
func (a *app) preRun(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	s, err := a.resolveSettings(cmd)
	if err != nil {
		return err
	}
	a.settings = s

	logger.Setup(logger.Config{Out: cmd.ErrOrStderr(), Debug: s.debug})
	return nil
}

// errPaymentDeclined is returned by the pay command when the amount exceeds
// the balance.
var errPaymentDeclined = errors.New("payment declined")

// exitCode maps an error to the process exit code.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitSuccess
	case errors.Is(err, fleet.ErrNotFound),
		errors.Is(err, fleet.ErrCapacityExceeded),
		errors.Is(err, types.ErrMalformedRecord),
		errors.Is(err, types.ErrUnknownPlaceType),
		errors.Is(err, types.ErrInvalidAmount),
		errors.Is(err, types.ErrInvalidName),
		errors.Is(err, types.ErrCapacityInvalid),
		errors.Is(err, errPaymentDeclined),
		errors.Is(err, errLedgerDisabled):
		return exitUserError
	default:
		return exitSysError
	}
}

func (a *app) runShell(cmd *cobra.Command, args []string) error {
	s, release, err := a.openSession()
	if err != nil {
		return err
	}
	defer release()
	return s.Run(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
}

func (a *app) newShellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start the interactive inventory shell",
		Args:  cobra.NoArgs,
		RunE:  a.runShell,
	}
}

// openSession opens the ledger, when configured, and the session. The
// returned release func closes the ledger; the session itself is closed by
// its exit path.
func (a *app) openSession() (*session.Session, func(), error) {
	var opts []session.Option
	opts = append(opts, session.WithLogger(logger.L()))

	release := func() {}
	if a.settings.cfg.Ledger != "" {
		l, err := openLedger(a.settings.cfg.Ledger)
		if err != nil {
			return nil, nil, err
		}
		logger.L().Debug("ledger opened", "path", a.settings.cfg.Ledger, "session", l.SessionID())
		opts = append(opts, session.WithJournal(l))
		release = func() {
			if err := l.Close(); err != nil {
				logger.L().Warn("closing ledger", "error", err)
			}
		}
	}

	s, err := session.Open(a.settings.cfg, opts...)
	if err != nil {
		release()
		return nil, nil, err
	}
	return s, release, nil
}
