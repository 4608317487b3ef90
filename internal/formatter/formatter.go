// package formatter renders playlist snapshots as plain text, JSON, CSV or Markdown
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/ytpm/internal/models"
	"github.com/desertthunder/ytpm/internal/shared"
)

// Format names an output format.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
)

// Formats lists every supported format.
var Formats = []Format{FormatText, FormatJSON, FormatCSV, FormatMarkdown}

// ParseFormat accepts a format name (case-insensitive; "md" and "txt" are aliases).
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("%w: unknown format %q (want one of %v)", shared.ErrInvalidArgument, s, Formats)
}

// Options controls rendering.
type Options struct {
	Title  string // heading for text and Markdown output
	Pretty bool   // indent JSON
}

// Render formats snap according to format.
func Render(format Format, snap models.Snapshot, opts Options) ([]byte, error) {
	switch format {
	case FormatText:
		return ToText(snap, opts.Title), nil
	case FormatJSON:
		return ToJSON(snap, opts.Pretty)
	case FormatCSV:
		return ToCSV(snap)
	case FormatMarkdown:
		return ToMarkdown(snap, opts.Title), nil
	}
	return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
}

// ToText renders a numbered list, or a placeholder line for an empty playlist.
func ToText(snap models.Snapshot, title string) []byte {
	var buf bytes.Buffer

	if title != "" {
		fmt.Fprintf(&buf, "%s (%d)\n\n", title, len(snap))
	}
	if len(snap) == 0 {
		buf.WriteString("No songs in playlist\n")
		return buf.Bytes()
	}

	for i, item := range snap {
		fmt.Fprintf(&buf, "%d. %s\n", i+1, item.Title)
	}
	return buf.Bytes()
}

// ToJSON renders the snapshot in the same {"items": [...]} shape the service returns.
func ToJSON(snap models.Snapshot, pretty bool) ([]byte, error) {
	if snap == nil {
		snap = models.Snapshot{}
	}
	resp := models.PlaylistResponse{Items: snap}

	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = json.MarshalIndent(resp, "", "  ")
	} else {
		data, err = json.Marshal(resp)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to marshal playlist: %w", err)
	}
	return append(data, '\n'), nil
}

// ToCSV renders columns Position, ID, Title.
func ToCSV(snap models.Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"Position", "ID", "Title"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, item := range snap {
		if err := writer.Write([]string{fmt.Sprint(i + 1), item.ID, item.Title}); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

// ToMarkdown renders a heading, a count and a numbered list.
func ToMarkdown(snap models.Snapshot, title string) []byte {
	var buf bytes.Buffer

	if title == "" {
		title = "Playlist"
	}
	fmt.Fprintf(&buf, "# %s\n\n", title)
	fmt.Fprintf(&buf, "**Songs**: %d\n\n", len(snap))

	for i, item := range snap {
		fmt.Fprintf(&buf, "%d. %s\n", i+1, escapeMarkdown(item.Title))
	}
	return buf.Bytes()
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "[", `\[`, "]", `\]`,
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

// Write sends data to path, or to w when path is empty. Parent directories are created.
func Write(w io.Writer, path string, data []byte) error {
	if path == "" {
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}
