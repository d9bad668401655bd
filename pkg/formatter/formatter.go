// Package formatter renders clipctl output: colored status lines, key-value
// records, and JSON.
package formatter

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
)

var (
	Bold    = color.New(color.Bold)
	Success = color.New(color.FgGreen)
	Error   = color.New(color.FgRed)
	Info    = color.New(color.FgCyan)
	Warning = color.New(color.FgYellow)
)

// PrintSuccess prints a green success line
func PrintSuccess(format string, args ...interface{}) {
	Success.Printf("✓ "+format+"\n", args...)
}

// PrintError prints a red error line to stderr
func PrintError(format string, args ...interface{}) {
	Error.Fprintf(os.Stderr, "✗ "+format+"\n", args...)
}

// PrintInfo prints a cyan info line
func PrintInfo(format string, args ...interface{}) {
	Info.Printf(format+"\n", args...)
}

// PrintWarning prints a yellow warning line
func PrintWarning(format string, args ...interface{}) {
	Warning.Printf("! "+format+"\n", args...)
}

// PrintJSON pretty-prints data as JSON
func PrintJSON(data interface{}) error {
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

// PrintKeyValue prints key-value pairs with aligned keys in sorted order
func PrintKeyValue(data map[string]interface{}) {
	keys := make([]string, 0, len(data))
	width := 0
	for key := range data {
		keys = append(keys, key)
		if len(key) > width {
			width = len(key)
		}
	}
	sort.Strings(keys)
	for _, key := range keys {
		Bold.Printf("%-*s", width+2, key+":")
		fmt.Printf(" %v\n", data[key])
	}
}

// PrintTable prints rows under a header, columns padded to the widest cell
func PrintTable(headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var header strings.Builder
	for i, h := range headers {
		header.WriteString(fmt.Sprintf("%-*s  ", widths[i], h))
	}
	Bold.Println(strings.TrimRight(header.String(), " "))

	for _, row := range rows {
		var line strings.Builder
		for i, cell := range row {
			if i < len(widths) {
				line.WriteString(fmt.Sprintf("%-*s  ", widths[i], cell))
			}
		}
		fmt.Println(strings.TrimRight(line.String(), " "))
	}
}
