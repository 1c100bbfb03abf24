package inventory

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"fridge-planner/internal/pkg/common"

	"go.uber.org/zap"
)

// ErrMissingColumn CSV 缺少必要欄位
var ErrMissingColumn = errors.New("missing category column")

// ReadCSV 讀取三欄（Starch, Meat, Vegetable）的庫存表，空白儲存格會略過
func ReadCSV(r io.Reader) (map[Category][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty input", ErrMissingColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columns := make(map[int]Category, len(Categories))
	seen := make(map[Category]bool, len(Categories))
	for i, name := range header {
		cat, err := ParseCategory(strings.TrimPrefix(name, "\ufeff"))
		if err != nil {
			common.LogDebug("略過未知欄位", zap.String("column", name))
			continue
		}
		if seen[cat] {
			return nil, fmt.Errorf("duplicate column for category %s", cat)
		}
		columns[i] = cat
		seen[cat] = true
	}
	for _, cat := range Categories {
		if !seen[cat] {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, cat.Title())
		}
	}

	raw := make(map[Category][]string, len(Categories))
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}
		for i, cell := range row {
			cat, ok := columns[i]
			if !ok || strings.TrimSpace(cell) == "" {
				continue
			}
			raw[cat] = append(raw[cat], strings.TrimSpace(cell))
		}
	}
	return raw, nil
}

// LoadCSV 讀取 CSV 並換算剩餘天數
func (l *Loader) LoadCSV(r io.Reader) (*Inventory, error) {
	raw, err := ReadCSV(r)
	if err != nil {
		return nil, err
	}
	return l.Load(raw)
}

// LoadFile 讀取 CSV 檔案
func (l *Loader) LoadFile(path string) (*Inventory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open inventory file: %w", err)
	}
	defer f.Close()

	inv, err := l.LoadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	common.LogInfo("庫存已載入",
		zap.String("file", path),
		zap.Int("starch", inv.Count(Starch)),
		zap.Int("meat", inv.Count(Meat)),
		zap.Int("vegetable", inv.Count(Vegetable)),
	)
	return inv, nil
}
