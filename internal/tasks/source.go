package tasks

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/desertthunder/ytpm/internal/formatter"
	"github.com/desertthunder/ytpm/internal/models"
	"github.com/desertthunder/ytpm/internal/shared"
)

var numbered = regexp.MustCompile(`^\d+\.\s+(.*)$`)

var markdownUnescaper = strings.NewReplacer(
	`\\`, `\`, `\*`, "*", `\_`, "_", "\\`", "`", `\[`, "[", `\]`, "]",
)

// FormatForPath guesses a title list format from the file extension. Unknown extensions are text.
func FormatForPath(path string) formatter.Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return formatter.FormatJSON
	case ".csv":
		return formatter.FormatCSV
	case ".md", ".markdown":
		return formatter.FormatMarkdown
	}
	return formatter.FormatText
}

// ReadTitles reads song titles in the given format.
//
// JSON is the {"items": [...]} shape. CSV needs a Title column. Text and Markdown take one
// title per line; when any line is numbered ("1. Song") only numbered lines are used, so
// the output of `playlist list` reads back without its heading. Lines starting with # are
// comments in plain text.
func ReadTitles(r io.Reader, format formatter.Format) ([]string, error) {
	switch format {
	case formatter.FormatJSON:
		return readJSONTitles(r)
	case formatter.FormatCSV:
		return readCSVTitles(r)
	case formatter.FormatText, formatter.FormatMarkdown:
		return readLineTitles(r, format == formatter.FormatMarkdown)
	}
	return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
}

func readJSONTitles(r io.Reader) ([]string, error) {
	var resp models.PlaylistResponse
	if err := json.NewDecoder(r).Decode(&resp); err != nil {
		return nil, fmt.Errorf("%w: failed to parse JSON: %v", shared.ErrInvalidInput, err)
	}
	return compact(resp.Items.Titles()), nil
}

func readCSVTitles(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read CSV header: %v", shared.ErrInvalidInput, err)
	}

	col := -1
	for i, name := range header {
		if strings.EqualFold(strings.TrimSpace(name), "title") {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("%w: CSV has no Title column", shared.ErrInvalidInput)
	}

	var titles []string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read CSV: %v", shared.ErrInvalidInput, err)
		}
		if col < len(record) {
			titles = append(titles, record[col])
		}
	}
	return compact(titles), nil
}

func readLineTitles(r io.Reader, markdown bool) ([]string, error) {
	var plain, listed []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if m := numbered.FindStringSubmatch(line); m != nil {
			listed = append(listed, m[1])
			continue
		}
		if !markdown && !strings.HasPrefix(line, "#") {
			plain = append(plain, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read titles: %w", err)
	}

	titles := plain
	if len(listed) > 0 || markdown {
		titles = listed
	}
	if markdown {
		for i, t := range titles {
			titles[i] = markdownUnescaper.Replace(t)
		}
	}
	return compact(titles), nil
}
