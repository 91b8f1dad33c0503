package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/berths/internal/ledger"
)

var errLedgerDisabled = errors.New("ledger is not configured (set ledger in config.yaml or MARINA_LEDGER)")

const historyFormat = "%-20s %-10s %-20s %12s %12s\n"

func openLedger(path string) (*ledger.Ledger, error) {
	l, err := ledger.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	return l, nil
}

func (a *app) newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history [name]",
		Short: "Show ledger entries, optionally for one boat",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.settings.cfg.Ledger == "" {
				return errLedgerDisabled
			}
			var name string
			if len(args) == 1 {
				name = args[0]
			}

			l, err := openLedger(a.settings.cfg.Ledger)
			if err != nil {
				return err
			}
			defer l.Close()

			entries, err := l.History(cmd.Context(), name)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No ledger entries.")
				return nil
			}
			fmt.Fprintf(out, historyFormat, "Time", "Kind", "Boat", "Amount", "Balance")
			for _, e := range entries {
				fmt.Fprintf(out, historyFormat,
					e.CreatedAt.Local().Format(time.DateTime),
					e.Kind,
					e.Boat,
					e.Amount.StringFixed(2),
					e.Balance.StringFixed(2),
				)
			}
			return nil
		},
	}
}
