package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/DachengChen/liturgiAI/config"
	"github.com/DachengChen/liturgiAI/db"
)

// ErrSourceUnavailable is wrapped by every Load failure: missing file,
// malformed rows, unreachable warehouse.
var ErrSourceUnavailable = errors.New("dataset source unavailable")

// Source is anything the liturgy table can be loaded from.
type Source interface {
	// Load fetches the dataset unmodified. No retries.
	Load(ctx context.Context) (*Dataset, error)

	// Key identifies the source and its parameters for caching.
	Key() string

	// Label is the human-readable name used in prompts.
	Label() string
}

// ─────────────────────────────────────────────────────────────────
// Local CSV file
// ─────────────────────────────────────────────────────────────────

// LocalFile reads a comma-separated file with a header row.
type LocalFile struct {
	Path string
}

var _ Source = (*LocalFile)(nil)

func (f *LocalFile) Key() string {
	if abs, err := filepath.Abs(f.Path); err == nil {
		return "csv:" + abs
	}
	return "csv:" + f.Path
}

func (f *LocalFile) Label() string {
	return filepath.Base(f.Path)
}

func (f *LocalFile) Load(ctx context.Context) (*Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer file.Close()

	ds, err := ReadCSV(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, f.Path, err)
	}
	return ds, nil
}

// ReadCSV parses CSV with header-from-first-row semantics. Bare quotes
// inside unquoted fields are kept and short rows are padded with empty
// cells; a row with more fields than the header is an error.
func ReadCSV(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New("empty file")
	}
	if err != nil {
		return nil, err
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	var rows [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(rec) > len(header) {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("line %d: expected %d fields, saw %d", line, len(header), len(rec))
		}
		rows = append(rows, rec)
	}
	return New(header, rows), nil
}

// ─────────────────────────────────────────────────────────────────
// Warehouse table
// ─────────────────────────────────────────────────────────────────

// TableReader is the slice of *db.DB the warehouse source needs.
type TableReader interface {
	SelectAll(ctx context.Context, table string, limit int) (*db.QueryResult, error)
	Close()
}

// DialFunc opens a warehouse connection.
type DialFunc func(ctx context.Context, cfg config.WarehouseConfig) (TableReader, error)

// Warehouse issues SELECT * FROM <table> over a fresh connection per load.
type Warehouse struct {
	Config config.WarehouseConfig
	Dial   DialFunc // nil uses db.Connect
}

var _ Source = (*Warehouse)(nil)

func (w *Warehouse) Key() string {
	return "warehouse:" + w.Config.Host + ":" + strconv.Itoa(w.Config.Port) +
		"/" + w.Config.Database + "/" + w.Config.Table + "?limit=" + strconv.Itoa(w.Config.Limit)
}

func (w *Warehouse) Label() string {
	if w.Config.Database == "" {
		return w.Config.Table
	}
	return w.Config.Database + "." + w.Config.Table
}

func (w *Warehouse) Load(ctx context.Context) (*Dataset, error) {
	dial := w.Dial
	if dial == nil {
		dial = connectWarehouse
	}
	conn, err := dial(ctx, w.Config)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer conn.Close()

	res, err := conn.SelectAll(ctx, w.Config.Table, w.Config.Limit)
	if err != nil {
		return nil, fmt.Errorf("%w: select %s: %v", ErrSourceUnavailable, w.Config.Table, err)
	}
	return New(res.Columns, res.Rows), nil
}

func connectWarehouse(ctx context.Context, cfg config.WarehouseConfig) (TableReader, error) {
	d, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// FromConfig builds the Source selected by cfg.
func FromConfig(cfg config.SourceConfig) (Source, error) {
	switch cfg.Kind {
	case config.SourceCSV, "":
		if cfg.CSVPath == "" {
			return nil, fmt.Errorf("source.csv_path is empty")
		}
		return &LocalFile{Path: cfg.CSVPath}, nil
	case config.SourceWarehouse:
		if cfg.Warehouse.Table == "" {
			return nil, fmt.Errorf("source.warehouse.table is empty")
		}
		return &Warehouse{Config: cfg.Warehouse}, nil
	default:
		return nil, fmt.Errorf("unknown source kind %q", cfg.Kind)
	}
}
