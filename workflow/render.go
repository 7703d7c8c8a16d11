package workflow

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/embeddb/wordvec/vector"
)

// FormatMatches renders matches as an aligned two-column table, closest
// first.
func FormatMatches(word string, matches []vector.Match) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Closest matches to %q:\n", word)
	w := tabwriter.NewWriter(&b, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "WORD\tDISTANCE")
	for _, m := range matches {
		fmt.Fprintf(w, "%s\t%.4f\n", m.Text, m.Distance)
	}
	_ = w.Flush()
	return b.String()
}
