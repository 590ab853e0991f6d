package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/dendrascience/dupes/dupes"
	"github.com/docker/go-units"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
)

// Format selects how a Result is rendered.
type Format string

const (
	FormatTable    Format = "table"
	FormatMarkdown Format = "markdown"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
)

// ErrUnknownFormat is returned by ParseFormat for unsupported names.
var ErrUnknownFormat = errors.New("unknown output format")

// NoDuplicatesMessage is printed when a scan finds nothing.
const NoDuplicatesMessage = "No duplicates found"

// SupportedFormats returns the names accepted by ParseFormat.
func SupportedFormats() []string {
	return []string{string(FormatTable), string(FormatMarkdown), string(FormatCSV), string(FormatJSON)}
}

// ParseFormat maps a user supplied name to a Format. The empty string selects
// FormatTable.
func ParseFormat(name string) (Format, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	switch normalized {
	case "":
		return FormatTable, nil
	case "md":
		return FormatMarkdown, nil
	}
	if slices.Contains(SupportedFormats(), normalized) {
		return Format(normalized), nil
	}
	return "", fmt.Errorf("%w %q (supported: %s)", ErrUnknownFormat, name, strings.Join(SupportedFormats(), ", "))
}

// Options control rendering.
type Options struct {
	Format Format
	// Color enables ANSI colors in the table format.
	Color bool
}

// Write renders res to w.
func Write(w io.Writer, res dupes.Result, opts Options) error {
	switch opts.Format {
	case FormatJSON:
		return writeJSON(w, res)
	case FormatMarkdown, FormatCSV:
		if len(res.Duplicates) == 0 {
			_, err := fmt.Fprintln(w, NoDuplicatesMessage)
			return err
		}
		t := buildTable(res, opts)
		out := t.RenderCSV()
		if opts.Format == FormatMarkdown {
			out = t.RenderMarkdown()
		}
		_, err := fmt.Fprintln(w, out)
		return err
	default:
		return writeTable(w, res, opts)
	}
}

func writeTable(w io.Writer, res dupes.Result, opts Options) error {
	if len(res.Duplicates) == 0 {
		_, err := fmt.Fprintln(w, NoDuplicatesMessage)
		if err == nil && res.Skipped > 0 {
			_, err = fmt.Fprintf(w, "Skipped unreadable files: %d\n", res.Skipped)
		}
		return err
	}

	summary := color.New(color.Bold)
	if opts.Color {
		summary.EnableColor()
	} else {
		summary.DisableColor()
	}

	groups := res.Groups()
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(buildTable(res, opts).Render())
	b.WriteString("\n\n")
	b.WriteString(summary.Sprintf("Duplicates found: %d", len(res.Duplicates)))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Duplicate groups: %d\n", len(groups))
	fmt.Fprintf(&b, "Reclaimable space: %s\n", units.HumanSize(float64(res.Reclaimable())))
	if res.Skipped > 0 {
		fmt.Fprintf(&b, "Skipped unreadable files: %d\n", res.Skipped)
	}
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// buildTable lays the duplicates out one row per file, sorted by digest, with
// a blank row between groups. CSV output gets no blank rows.
func buildTable(res dupes.Result, opts Options) table.Writer {
	colored := opts.Color && opts.Format == FormatTable

	t := table.NewWriter()
	t.AppendHeader(table.Row{"FILE PATH", "FILE HASH " + strings.ToUpper(string(res.Algorithm))})

	records := slices.Clone(res.Duplicates)
	dupes.SortByDigest(records)

	last := ""
	for _, r := range records {
		if last != "" && r.Digest != last && opts.Format != FormatCSV {
			t.AppendRow(table.Row{"", ""})
		}
		row := table.Row{r.Path, r.Digest}
		if colored {
			c := groupColor(r.Digest)
			row = table.Row{c.Sprint(r.Path), c.Sprint(r.Digest)}
		}
		t.AppendRow(row)
		last = r.Digest
	}
	return t
}

type jsonGroup struct {
	Digest string   `json:"digest"`
	Size   int64    `json:"size"`
	Paths  []string `json:"paths"`
}

type jsonReport struct {
	Root        string      `json:"root"`
	Algorithm   string      `json:"algorithm"`
	Files       int         `json:"files_scanned"`
	Skipped     int         `json:"files_skipped"`
	Duplicates  int         `json:"duplicates"`
	Reclaimable int64       `json:"reclaimable_bytes"`
	Groups      []jsonGroup `json:"groups"`
}

func writeJSON(w io.Writer, res dupes.Result) error {
	groups := res.Groups()
	out := jsonReport{
		Root:        res.Root,
		Algorithm:   string(res.Algorithm),
		Files:       res.Files,
		Skipped:     res.Skipped,
		Duplicates:  len(res.Duplicates),
		Reclaimable: res.Reclaimable(),
		Groups:      make([]jsonGroup, 0, len(groups)),
	}
	for _, g := range groups {
		out.Groups = append(out.Groups, jsonGroup{Digest: g.Digest, Size: g.Size(), Paths: g.Paths()})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
