package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/samvad-hq/contacts-prober/internal/probe"
)

// Printer renders probe results as console text.
type Printer struct {
	w io.Writer
}

// NewPrinter writes to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Print writes every result of the run in execution order, separated by a blank line.
func (p *Printer) Print(rep probe.Report) error {
	var b strings.Builder
	for i, res := range rep.Results {
		if i > 0 {
			b.WriteString("\n")
		}
		writeResult(&b, res)
	}
	_, err := io.WriteString(p.w, b.String())
	return err
}

func writeResult(b *strings.Builder, res probe.Result) {
	fmt.Fprintf(b, "Testing %s %s...\n", res.Method, res.Path)
	if res.StatusCode != 0 {
		fmt.Fprintf(b, "Status: %d\n", res.StatusCode)
	}
	if err := res.Err(); err != nil {
		fmt.Fprintf(b, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(b, "Response: %s\n", res.Payload)
}
