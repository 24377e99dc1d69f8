package store

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shadowbane/home-flood-report/pkg/models"
)

// CSVStore keeps reports in a delimited text file with a mandatory header row.
type CSVStore struct {
	path string
}

func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

func (s *CSVStore) Path() string {
	return s.path
}

// Load reads every row. Columns are matched by header name, so a file
// written by another tool with the same header still loads; missing cells
// read as empty strings.
func (s *CSVStore) Load(ctx context.Context) ([]models.FloodReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []models.FloodReport{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open report file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return []models.FloodReport{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read report header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	reports := make([]models.FloodReport, 0)
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read report row %d: %w", len(reports)+2, err)
		}
		reports = append(reports, fromRow(row, index))
	}

	return reports, nil
}

// Save overwrites the file. The rows are written to a sibling temp file
// first and renamed into place, so readers never see a half-written file.
func (s *CSVStore) Save(ctx context.Context, reports []models.FloodReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".flood_data-*.csv")
	if err != nil {
		return fmt.Errorf("create temp report file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(Columns); err != nil {
		tmp.Close()
		return fmt.Errorf("write report header: %w", err)
	}
	for _, report := range reports {
		if err := w.Write(toRow(report)); err != nil {
			tmp.Close()
			return fmt.Errorf("write report row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush report file: %w", err)
	}
	// CreateTemp uses 0600; keep the mode a plain create would give
	if err := tmp.Chmod(s.fileMode()); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod temp report file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp report file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace report file: %w", err)
	}
	return nil
}

// Append writes a single row at the end of the file, adding the header
// when the file is new or empty.
func (s *CSVStore) Append(ctx context.Context, report models.FloodReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open report file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat report file: %w", err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(Columns); err != nil {
			return fmt.Errorf("write report header: %w", err)
		}
	}
	if err := w.Write(toRow(report)); err != nil {
		return fmt.Errorf("write report row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush report file: %w", err)
	}
	return nil
}

// fileMode returns the mode of the existing report file, or 0644.
func (s *CSVStore) fileMode() fs.FileMode {
	if info, err := os.Stat(s.path); err == nil {
		return info.Mode().Perm()
	}
	return 0o644
}

func toRow(r models.FloodReport) []string {
	return []string{
		r.Latitude,
		r.Longitude,
		r.Address,
		r.Type,
		strconv.Itoa(r.Severity),
		r.ImagePath,
	}
}

func fromRow(row []string, index map[string]int) models.FloodReport {
	cell := func(name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	// Non-numeric severity loads as zero.
	severity, _ := strconv.Atoi(strings.TrimSpace(cell("severity")))

	return models.FloodReport{
		Latitude:  cell("lat"),
		Longitude: cell("lon"),
		Address:   cell("address"),
		Type:      cell("type"),
		Severity:  severity,
		ImagePath: cell("image_path"),
	}
}
