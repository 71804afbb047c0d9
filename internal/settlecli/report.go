package settlecli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/okian/splitpool/internal/domain/types"
)

// WriteJSON prints the summary as indented JSON.
func WriteJSON(w io.Writer, sum types.Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(sum)
}

// WriteText prints one line per transfer followed by the pool totals.
func WriteText(w io.Writer, sum types.Summary) error {
	if len(sum.Settlements) == 0 {
		if _, err := fmt.Fprintln(w, "Everyone is settled."); err != nil {
			return err
		}
	}
	for _, t := range sum.Settlements {
		if _, err := fmt.Fprintln(w, t.Text); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "\nParticipants: %d\nTotal paid:   %s\nEach share:   %s\nHarmony:      %s\n",
		sum.Count, amount(sum.TotalPaid), amount(sum.PerPersonShare), amount(sum.Harmony))
	if err != nil {
		return err
	}
	if sum.MasterSplit {
		_, err = fmt.Fprintln(w, "Master split!")
	}
	return err
}

func amount(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }
