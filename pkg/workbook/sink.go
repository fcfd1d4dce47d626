package workbook

import (
	"context"
	"errors"
	"fmt"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"os"
	"path/filepath"
	"sync"
)

const DEFAULT_SHEET = "Sheet1"

var ErrNotConfigured = errors.New("workbook path is not configured")

// Sink appends registration rows to a local .xlsx file. The file is shared
// between requests, so writes are serialized.
type Sink struct {
	path   string
	sheet  string
	logger *zap.Logger
	mu     sync.Mutex
}

func NewSink(path, sheet string, logger *zap.Logger) *Sink {
	if sheet == "" {
		sheet = DEFAULT_SHEET
	}
	return &Sink{path: path, sheet: sheet, logger: logger}
}

func (s *Sink) Ready() error {
	if s.path == "" {
		return ErrNotConfigured
	}
	return nil
}

func (s *Sink) Append(ctx context.Context, submissionID string, rows [][]interface{}) (int, error) {
	if err := s.Ready(); err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, created, err := s.open()
	if err != nil {
		return 0, err
	}
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("closing workbook failed", zap.Error(err))
		}
	}()

	existing, err := f.GetRows(s.sheet)
	if err != nil {
		return 0, fmt.Errorf("f.GetRows failed: %w", err)
	}

	next := len(existing) + 1
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, next+i)
		if err != nil {
			return 0, fmt.Errorf("excelize.CoordinatesToCellName failed: %w", err)
		}
		if err := f.SetSheetRow(s.sheet, cell, &rows[i]); err != nil {
			return 0, fmt.Errorf("f.SetSheetRow failed: %w", err)
		}
	}

	if created {
		err = f.SaveAs(s.path)
	} else {
		err = f.Save()
	}
	if err != nil {
		return 0, fmt.Errorf("saving workbook failed: %w", err)
	}

	s.logger.Info("rows appended to workbook",
		zap.String("submission_id", submissionID),
		zap.String("path", s.path),
		zap.Int("first_row", next),
		zap.Int("rows", len(rows)))

	return len(rows), nil
}

func (s *Sink) open() (*excelize.File, bool, error) {
	if _, err := os.Stat(s.path); errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
			return nil, false, fmt.Errorf("os.MkdirAll failed: %w", err)
		}
		f := excelize.NewFile()
		s.ensureSheet(f)
		return f, true, nil
	}

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, false, fmt.Errorf("excelize.OpenFile failed: %w", err)
	}
	s.ensureSheet(f)
	return f, false, nil
}

func (s *Sink) ensureSheet(f *excelize.File) {
	for _, name := range f.GetSheetList() {
		if name == s.sheet {
			return
		}
	}
	f.SetActiveSheet(f.NewSheet(s.sheet))
}
