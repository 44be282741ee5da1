package main

import (
	"fmt"
	"io"

	"github.com/gookit/color"

	"github.com/andreiashu/countrybed"
)

// terminalReporter prints display events with color. Write errors are
// ignored: output problems never affect lookups.
type terminalReporter struct {
	out    io.Writer
	errOut io.Writer
}

func newTerminalReporter(out, errOut io.Writer) *terminalReporter {
	return &terminalReporter{out: out, errOut: errOut}
}

func (r *terminalReporter) Message(msg string) {
	fmt.Fprintln(r.out, msg)
}

func (r *terminalReporter) Success(msg string) {
	fmt.Fprintln(r.out, color.Green.Sprint("✔ "+msg))
}

func (r *terminalReporter) Error(msg string) {
	fmt.Fprintln(r.errOut, color.Red.Sprint("✘ "+msg))
}

func (r *terminalReporter) Alert(msg string) {
	fmt.Fprintln(r.out, color.Yellow.Sprint("! "+msg))
}

func (r *terminalReporter) Progress(current, total int, desc string) {
	fmt.Fprintf(r.out, "\r\033[K[%*d/%d] %s", len(fmt.Sprint(total)), current, total, desc)
	if current >= total {
		fmt.Fprintln(r.out)
	}
}

func (r *terminalReporter) Country(rec countrybed.Record) {
	fmt.Fprintln(r.out)
	for _, line := range rec.Flag {
		fmt.Fprintln(r.out, "  "+line)
	}
	fmt.Fprintln(r.out)

	fmt.Fprintln(r.out, color.Bold.Sprint(rec.Name))
	rows := []struct{ label, value string }{
		{"Official name", rec.Official},
		{"Capital", rec.Capital},
		{"Region", rec.Region},
		{"Subregion", rec.Subregion},
		{"Population", rec.Population},
		{"Currencies", rec.Currencies},
		{"Languages", rec.Languages},
		{"Timezones", rec.Timezones},
		{"Coordinates", rec.Coordinates},
		{"Geohash", rec.Geohash},
		{"Domains", rec.Domains},
	}
	for _, row := range rows {
		value := row.value
		if value == countrybed.NotAvailable {
			value = color.Gray.Sprint(value)
		}
		fmt.Fprintf(r.out, "  %s %s\n", color.Cyan.Sprintf("%-14s", row.label+":"), value)
	}
}
