// Package loader reads pipeline inputs and writes pipeline outputs.
//
// CSV rows are loaded as string-valued field maps with no type
// inference; blank cells become empty strings. JSON documents are
// decoded structurally as-is. Outputs are pretty-printed JSON with
// parent directories created on demand.
package loader

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/shopstream/catalogpipe/internal/schema"
	"github.com/shopstream/catalogpipe/pkg/types"
)

// Supported input formats.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// Loader handles file I/O for the pipeline.
type Loader struct {
	log *zap.Logger
}

// New creates a Loader. A nil logger disables logging.
func New(log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{log: log}
}

// LoadProducts reads raw product records from path. Format must be
// FormatCSV or FormatJSON; anything else fails with
// types.ErrUnsupportedFormat. A missing file fails with an error
// satisfying errors.Is(err, fs.ErrNotExist).
func (l *Loader) LoadProducts(path, format string) ([]types.RawProduct, error) {
	switch strings.ToLower(format) {
	case FormatCSV:
		return l.loadCSV(path)
	case FormatJSON:
		var records []types.RawProduct
		if err := l.loadJSON(path, &records); err != nil {
			return nil, err
		}
		return records, nil
	default:
		return nil, fmt.Errorf("%w: %q (use csv or json)", types.ErrUnsupportedFormat, format)
	}
}

// LoadSchema reads a rule-string schema document.
func (l *Loader) LoadSchema(path string) (schema.Schema, error) {
	var s schema.Schema
	if err := l.loadJSON(path, &s); err != nil {
		return schema.Schema{}, err
	}
	return s, nil
}

// LoadQueries reads a query set document of the form
// {"queries": ["...", ...]}.
func (l *Loader) LoadQueries(path string) ([]string, error) {
	var doc struct {
		Queries []string `json:"queries"`
	}
	if err := l.loadJSON(path, &doc); err != nil {
		return nil, err
	}
	return doc.Queries, nil
}

// SaveJSON writes data as pretty-printed JSON to path, creating parent
// directories as needed.
func (l *Loader) SaveJSON(data interface{}, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	buf, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", filepath.Base(path), err)
	}
	buf = append(buf, '\n')

	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	l.log.Info("saved results file", zap.String("path", path), zap.Int("bytes", len(buf)))
	return nil
}

// loadCSV reads a header-first CSV into raw product maps. Rows shorter
// than the header pad missing cells with empty strings.
func (l *Loader) loadCSV(path string) ([]types.RawProduct, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv %s: %w", path, err)
	}
	if len(rows) == 0 {
		return []types.RawProduct{}, nil
	}

	header := rows[0]
	records := make([]types.RawProduct, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := make(types.RawProduct, len(header))
		for i, name := range header {
			if i < len(row) {
				record[name] = row[i]
			} else {
				record[name] = ""
			}
		}
		records = append(records, record)
	}

	l.log.Info("loaded csv records", zap.String("path", path), zap.Int("records", len(records)))
	return records, nil
}

func (l *Loader) loadJSON(path string, out interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	if err := json.NewDecoder(f).Decode(out); err != nil {
		return fmt.Errorf("decoding json %s: %w", path, err)
	}

	l.log.Info("loaded json document", zap.String("path", path))
	return nil
}
