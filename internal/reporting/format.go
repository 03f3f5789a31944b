// Package reporting renders leaderboard views as terminal tables, JSON, CSV
// or Markdown.
package reporting

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Format selects an output encoding.
type Format string

const (
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
)

// Formats lists the accepted values of --format.
var Formats = []Format{FormatTable, FormatJSON, FormatCSV, FormatMarkdown}

// ParseFormat accepts a format name; "md" is short for markdown and the
// empty string means table.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "table":
		return FormatTable, nil
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("unknown format %q (valid: table, json, csv, markdown)", s)
}

// Report is a rendered view: a titled grid of cells plus the structured
// value written in JSON form.
type Report struct {
	Title  string
	Header []string
	Rows   [][]string
	// Notes follow the grid in table and markdown output.
	Notes []string
	// Data is encoded for FormatJSON; the grid is used when nil.
	Data any
}

// Write renders r in format f.
func Write(w io.Writer, f Format, r Report) error {
	switch f {
	case FormatJSON:
		return writeJSON(w, r)
	case FormatCSV:
		return writeCSV(w, r)
	case FormatMarkdown:
		return writeMarkdown(w, r)
	case FormatTable, "":
		return writeTable(w, r)
	default:
		return fmt.Errorf("unknown format %q", f)
	}
}

func writeJSON(w io.Writer, r Report) error {
	data := r.Data
	if data == nil {
		rows := make([]map[string]string, len(r.Rows))
		for i, row := range r.Rows {
			rows[i] = make(map[string]string, len(r.Header))
			for j, h := range r.Header {
				if j < len(row) {
					rows[i][h] = row[j]
				}
			}
		}
		data = rows
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func writeCSV(w io.Writer, r Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(r.Header); err != nil {
		return err
	}
	if err := cw.WriteAll(r.Rows); err != nil {
		return err
	}
	return cw.Error()
}

func writeMarkdown(w io.Writer, r Report) error {
	var b strings.Builder
	if r.Title != "" {
		fmt.Fprintf(&b, "## %s\n\n", r.Title)
	}
	if len(r.Header) > 0 {
		b.WriteString("| " + strings.Join(escapeCells(r.Header), " | ") + " |\n")
		sep := make([]string, len(r.Header))
		for i := range sep {
			sep[i] = "---"
		}
		b.WriteString("| " + strings.Join(sep, " | ") + " |\n")
		for _, row := range r.Rows {
			b.WriteString("| " + strings.Join(escapeCells(row), " | ") + " |\n")
		}
	}
	if len(r.Notes) > 0 {
		b.WriteString("\n")
		for _, n := range r.Notes {
			b.WriteString("- " + n + "\n")
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func escapeCells(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = strings.ReplaceAll(c, "|", `\|`)
	}
	return out
}

func writeTable(w io.Writer, r Report) error {
	re := lipgloss.NewRenderer(w)
	titleStyle := re.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	headerStyle := re.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	noteStyle := re.NewStyle().Faint(true)

	widths := make([]int, len(r.Header))
	for i, h := range r.Header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range r.Rows {
		for i, c := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], runewidth.StringWidth(c))
			}
		}
	}

	var b strings.Builder
	if r.Title != "" {
		b.WriteString(titleStyle.Render(r.Title) + "\n\n")
	}
	if len(r.Header) > 0 {
		b.WriteString(headerStyle.Render(joinPadded(r.Header, widths)) + "\n")
		rule := make([]string, len(widths))
		for i, wd := range widths {
			rule[i] = strings.Repeat("─", wd)
		}
		b.WriteString(strings.Join(rule, "  ") + "\n")
		for _, row := range r.Rows {
			b.WriteString(joinPadded(row, widths) + "\n")
		}
	}
	if len(r.Notes) > 0 {
		b.WriteString("\n")
		for _, n := range r.Notes {
			b.WriteString(noteStyle.Render(n) + "\n")
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func joinPadded(cells []string, widths []int) string {
	parts := make([]string, len(widths))
	for i := range widths {
		var c string
		if i < len(cells) {
			c = cells[i]
		}
		if i == len(widths)-1 {
			parts[i] = c
			continue
		}
		parts[i] = padRight(c, widths[i])
	}
	return strings.TrimRight(strings.Join(parts, "  "), " ")
}

// padRight pads s with spaces to the given display width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}

// Truncate shortens s to width display cells, ending in "…" when cut.
func Truncate(s string, width int) string {
	return runewidth.Truncate(s, width, "…")
}
