package session

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/mesh-intelligence/berths/pkg/types"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
)

const rowFormat = "%-20s %-20s %-20s %-20s %-20s"

// WriteInventory prints boats as a fixed-width table in the order given.
func WriteInventory(w io.Writer, boats []types.Boat) error {
	header := fmt.Sprintf(rowFormat, "Name", "Length", "Place", "Extra Info", "Amount Owed")
	if _, err := fmt.Fprintln(w, headerStyle.Render(header)); err != nil {
		return err
	}
	for _, b := range boats {
		_, err := fmt.Fprintf(w, rowFormat+"\n",
			b.Name,
			fmt.Sprintf("%.0f", b.Length),
			b.Placement.Type().Label(),
			b.Placement.Field(),
			b.Owed.StringFixed(2),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func writeBanner(w io.Writer) {
	fmt.Fprintln(w, titleStyle.Render("Welcome to the Boat Management System"))
	fmt.Fprintln(w, "-------------------------------------")
}
