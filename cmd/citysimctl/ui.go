package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
)

//nolint:gochecknoglobals
var (
	accent  = color.New(color.FgCyan, color.Bold)
	success = color.New(color.FgGreen, color.Bold)
	warn    = color.New(color.FgYellow, color.Bold)
	danger  = color.New(color.FgRed, color.Bold)
)

func printTitle(w io.Writer, title string) {
	accent.Fprintln(w, title)
}

func printSuccess(w io.Writer, msg string) {
	success.Fprintln(w, msg)
}

func printWarn(w io.Writer, msg string) {
	warn.Fprintln(w, msg)
}

func printError(msg string) {
	danger.Fprintln(os.Stderr, msg)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}

func kv(w io.Writer, key string, value any) {
	fmt.Fprintf(w, "  %-22s %v\n", key+":", value)
}
