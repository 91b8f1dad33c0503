package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/berths/internal/fleet"
	"github.com/mesh-intelligence/berths/internal/session"
	"github.com/mesh-intelligence/berths/pkg/types"
)

// withSession opens the inventory, runs fn and, when save is set and fn
// succeeded, writes the inventory back.
func (a *app) withSession(cmd *cobra.Command, save bool, fn func(ctx context.Context, s *session.Session) error) error {
	s, release, err := a.openSession()
	if err != nil {
		return err
	}
	defer release()

	if err := fn(cmd.Context(), s); err != nil {
		return err
	}
	if !save {
		return nil
	}
	return s.Close()
}

func (a *app) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the inventory sorted by name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, false, func(_ context.Context, s *session.Session) error {
				boats, err := s.Inventory()
				if err != nil {
					return err
				}
				return session.WriteInventory(cmd.OutOrStdout(), boats)
			})
		},
	}
}

func (a *app) newAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <csv-line>",
		Short: "Add a boat from a CSV record",
		Long: `Add a boat from a CSV record of the form

  name,length,place,extra,owed

where place is slip, land, trailor or storage.`,
		Example: `  marina add "Sea Breeze,18,trailor,MX2345,99.99"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, true, func(ctx context.Context, s *session.Session) error {
				b, err := s.Add(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Boat '%s' added.\n", b.Name)
				return nil
			})
		},
	}
}

func (a *app) newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a boat by name (case-insensitive)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, true, func(ctx context.Context, s *session.Session) error {
				b, err := s.Remove(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Boat '%s' removed.\n", b.Name)
				return nil
			})
		},
	}
}

func (a *app) newPayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pay <name> <amount>",
		Short: "Apply a payment to a boat's balance",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := decimal.NewFromString(strings.TrimSpace(args[1]))
			if err != nil {
				return fmt.Errorf("%w: %s", types.ErrInvalidAmount, args[1])
			}
			return a.withSession(cmd, true, func(ctx context.Context, s *session.Session) error {
				res, err := s.Pay(ctx, args[0], amount)
				if err != nil {
					return err
				}
				if res.Status == fleet.PaymentDeclined {
					return fmt.Errorf("%w: that is more than the amount owed, $%s", errPaymentDeclined, res.Owed.StringFixed(2))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Payment processed. %s owes $%s\n", res.Name, res.Owed.StringFixed(2))
				return nil
			})
		},
	}
}

func (a *app) newAccrueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "accrue",
		Short: "Apply the monthly fee to every balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, true, func(ctx context.Context, s *session.Session) error {
				if err := s.Accrue(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Monthly fees applied.")
				return nil
			})
		},
	}
}
