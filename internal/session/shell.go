package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/mesh-intelligence/berths/internal/fleet"
	"github.com/mesh-intelligence/berths/pkg/types"
)

// Prompts shown by the interactive shell.
const (
	menuPrompt   = "\n(I)nventory, (A)dd, (R)emove, (P)ayment, (M)onth, e(X)it   : "
	csvPrompt    = "Please enter the boat data in CSV format                   : "
	namePrompt   = "Please enter the boat name                                 : "
	amountPrompt = "Please enter the amount to be paid                         : "
)

// Operator messages.
const (
	msgNotFound   = "No boat with that name."
	msgFull       = "Error: maximum number of boats reached"
	msgPaid       = "Payment processed."
	msgAccrued    = "Monthly fees applied."
	msgExiting    = "Exiting the Boat Management System"
	msgOverAmount = "That is more than the amount owed, $%s"
)

// errInputClosed marks the end of operator input.
var errInputClosed = errors.New("input closed")

// Run reads single-letter commands from in until the operator exits or in is
// exhausted, writing prompts and results to out. Commands are
// case-insensitive: I lists, A adds a CSV line, R removes by name, P takes a
// payment, M accrues monthly fees and X saves and exits.
//
// Exit saves before releasing the collection. If the save fails the error is
// shown and the shell keeps running. End of input behaves like X, except that
// a failed save is returned.
func (s *Session) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	p := &prompter{in: bufio.NewReader(in), out: out}
	writeBanner(out)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, err := p.ask(menuPrompt)
		if errors.Is(err, errInputClosed) {
			fmt.Fprintln(out)
			return s.exit(out)
		}
		if err != nil {
			return err
		}

		cmd := strings.Fields(line)[0]
		r, _ := utf8.DecodeRuneInString(cmd)
		switch unicode.ToLower(r) {
		case 'i':
			err = s.runInventory(out)
		case 'a':
			err = s.runAdd(ctx, p)
		case 'r':
			err = s.runRemove(ctx, p)
		case 'p':
			err = s.runPayment(ctx, p)
		case 'm':
			err = s.Accrue(ctx)
			if err == nil {
				fmt.Fprintln(out, msgAccrued)
			}
		case 'x':
			if err := s.exit(out); err != nil {
				fmt.Fprintf(out, "Error: %v\n", err)
				continue
			}
			return nil
		default:
			fmt.Fprintf(out, "Invalid option %s\n", cmd)
		}

		if errors.Is(err, errInputClosed) {
			fmt.Fprintln(out)
			return s.exit(out)
		}
		if err != nil {
			return err
		}
	}
}

func (s *Session) runInventory(out io.Writer) error {
	boats, err := s.Inventory()
	if err != nil {
		return err
	}
	return WriteInventory(out, boats)
}

func (s *Session) runAdd(ctx context.Context, p *prompter) error {
	line, err := p.ask(csvPrompt)
	if err != nil {
		return err
	}
	_, err = s.Add(ctx, line)
	switch {
	case err == nil:
	case errors.Is(err, fleet.ErrCapacityExceeded):
		fmt.Fprintln(p.out, msgFull)
	case errors.Is(err, types.ErrMalformedRecord), errors.Is(err, types.ErrUnknownPlaceType):
		fmt.Fprintf(p.out, "Error: %v\n", err)
	default:
		return err
	}
	return nil
}

func (s *Session) runRemove(ctx context.Context, p *prompter) error {
	name, err := p.ask(namePrompt)
	if err != nil {
		return err
	}
	_, err = s.Remove(ctx, name)
	switch {
	case err == nil:
		fmt.Fprintf(p.out, "Boat '%s' removed.\n", name)
	case errors.Is(err, fleet.ErrNotFound):
		fmt.Fprintln(p.out, msgNotFound)
	default:
		return err
	}
	return nil
}

func (s *Session) runPayment(ctx context.Context, p *prompter) error {
	name, err := p.ask(namePrompt)
	if err != nil {
		return err
	}
	raw, err := p.ask(amountPrompt)
	if err != nil {
		return err
	}
	amount, err := decimal.NewFromString(strings.Fields(raw)[0])
	if err != nil {
		fmt.Fprintf(p.out, "Invalid amount %s\n", raw)
		return nil
	}

	res, err := s.Pay(ctx, name, amount)
	switch {
	case err == nil:
	case errors.Is(err, fleet.ErrNotFound):
		fmt.Fprintln(p.out, msgNotFound)
		return nil
	case errors.Is(err, types.ErrInvalidAmount):
		fmt.Fprintf(p.out, "Invalid amount %s\n", raw)
		return nil
	default:
		return err
	}

	if res.Status == fleet.PaymentDeclined {
		fmt.Fprintf(p.out, msgOverAmount+"\n", res.Owed.StringFixed(2))
		return nil
	}
	fmt.Fprintln(p.out, msgPaid)
	return nil
}

func (s *Session) exit(out io.Writer) error {
	fmt.Fprintln(out, msgExiting)
	return s.Close()
}

// prompter writes a prompt and reads the next non-blank input line.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func (p *prompter) ask(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	for {
		line, err := p.in.ReadString('\n')
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed, nil
		}
		if err == io.EOF {
			return "", errInputClosed
		}
		if err != nil {
			return "", fmt.Errorf("reading input: %w", err)
		}
	}
}
