package diag

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Render writes one line per diagnostic. Severities are colored when
// useColor is set.
func Render(w io.Writer, diags []Diagnostic, useColor bool) error {
	sev := map[Severity]*color.Color{
		SevError:   color.New(color.FgRed, color.Bold),
		SevWarning: color.New(color.FgYellow, color.Bold),
		SevInfo:    color.New(color.FgCyan),
	}
	code := color.New(color.Faint)
	for _, c := range sev {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	if useColor {
		code.EnableColor()
	} else {
		code.DisableColor()
	}

	for _, d := range diags {
		loc := d.File
		if d.Node.IsValid() {
			loc = fmt.Sprintf("%s#%d", loc, d.Node)
		}
		if loc != "" {
			loc += ": "
		}
		label := d.Severity.String()
		if c, ok := sev[d.Severity]; ok {
			label = c.Sprint(label)
		}
		if _, err := fmt.Fprintf(w, "%s%s %s %s\n", loc, label, code.Sprint(d.Code.ID()), d.Message); err != nil {
			return err
		}
		for _, note := range d.Notes {
			if _, err := fmt.Fprintf(w, "    note: %s\n", note); err != nil {
				return err
			}
		}
	}
	return nil
}
