package inventory

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fridge-planner/internal/pkg/common"

	"go.uber.org/zap"
)

// DateLayout 食材有效日期格式
const DateLayout = "2006-01-02"

// MalformedPolicy 遇到格式錯誤紀錄時的處理方式
type MalformedPolicy int

const (
	// AbortOnError 第一筆錯誤就中止載入（預設）
	AbortOnError MalformedPolicy = iota
	// SkipMalformed 記錄警告並略過該筆
	SkipMalformed
)

// ParseMalformedPolicy 解析 "abort" / "skip"
func ParseMalformedPolicy(raw string) (MalformedPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "abort":
		return AbortOnError, nil
	case "skip":
		return SkipMalformed, nil
	}
	return AbortOnError, fmt.Errorf("unknown malformed record policy %q", raw)
}

// MalformedRecordError 無法解析的庫存紀錄
type MalformedRecordError struct {
	Category Category
	Record   string
	Reason   string
	Err      error
}

func (e *MalformedRecordError) Error() string {
	msg := fmt.Sprintf("malformed %s record %q: %s", e.Category, e.Record, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedRecordError) Unwrap() error {
	return e.Err
}

// IsMalformedRecord 錯誤鏈中是否有 MalformedRecordError
func IsMalformedRecord(err error) bool {
	var me *MalformedRecordError
	return errors.As(err, &me)
}

// Loader 將原始紀錄換算成剩餘天數
type Loader struct {
	// Today 參考日期，剩餘天數只在同一天內可重現
	Today  time.Time
	Policy MalformedPolicy
}

// Load 解析各分類的原始紀錄，格式為 "<name> (<YYYY-MM-DD>)"
func (l *Loader) Load(raw map[Category][]string) (*Inventory, error) {
	for c := range raw {
		if c.Index() < 0 {
			return nil, fmt.Errorf("unknown category %q", c)
		}
	}

	inv := New()
	for _, cat := range Categories {
		for _, record := range raw[cat] {
			if strings.TrimSpace(record) == "" {
				continue
			}
			item, err := l.ParseRecord(cat, record)
			if err != nil {
				if l.Policy == SkipMalformed {
					common.LogWarn("略過格式錯誤的紀錄",
						zap.String("category", string(cat)),
						zap.String("record", record),
						zap.Error(err),
					)
					continue
				}
				return nil, err
			}
			if inv.put(item) {
				common.LogWarn("重複的食材名稱，以後者的日期為準",
					zap.String("category", string(cat)),
					zap.String("name", item.Name),
				)
			}
		}
	}
	return inv, nil
}

// ParseRecord 解析單筆紀錄
func (l *Loader) ParseRecord(cat Category, record string) (FoodItem, error) {
	fields := strings.Fields(record)
	if len(fields) != 2 {
		return FoodItem{}, &MalformedRecordError{
			Category: cat,
			Record:   record,
			Reason:   fmt.Sprintf("expected 2 fields (name and date), got %d", len(fields)),
		}
	}

	days, err := l.RemainingDays(fields[1])
	if err != nil {
		return FoodItem{}, &MalformedRecordError{
			Category: cat,
			Record:   record,
			Reason:   "invalid date token",
			Err:      err,
		}
	}

	return FoodItem{Name: fields[0], Category: cat, RemainingDays: days}, nil
}

// RemainingDays 由日期字串計算距今天的日曆天數，括號會先移除
func (l *Loader) RemainingDays(token string) (int, error) {
	token = strings.NewReplacer("(", "", ")", "").Replace(token)
	date, err := time.Parse(DateLayout, token)
	if err != nil {
		return 0, err
	}
	return DaysBetween(l.Today, date), nil
}

// DaysBetween 兩個日期之間的日曆天數差 (to - from)，忽略時分秒與時區
func DaysBetween(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours() / 24)
}
