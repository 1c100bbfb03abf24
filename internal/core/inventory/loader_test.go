package inventory

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var refDate = time.Date(2024, time.March, 10, 15, 30, 0, 0, time.UTC)

func TestLoader_RemainingDays(t *testing.T) {
	l := &Loader{Today: refDate}

	testCases := []struct {
		token string
		want  int
	}{
		{"(2024-03-15)", 5},
		{"2024-03-15", 5},
		{"(2024-03-10)", 0},
		{"(2024-03-08)", -2},
		{"(2024-04-01)", 22},
		{"(2025-03-10)", 365},
	}

	for _, tc := range testCases {
		got, err := l.RemainingDays(tc.token)
		require.NoError(t, err, tc.token)
		assert.Equal(t, tc.want, got, tc.token)
	}
}

func TestLoader_ParseRecord(t *testing.T) {
	l := &Loader{Today: refDate}

	item, err := l.ParseRecord(Meat, "chicken (2024-03-13)")
	require.NoError(t, err)
	assert.Equal(t, FoodItem{Name: "chicken", Category: Meat, RemainingDays: 3}, item)

	item, err = l.ParseRecord(Meat, "  duck\t(2024-03-09)  ")
	require.NoError(t, err)
	assert.Equal(t, -1, item.RemainingDays)
	assert.True(t, item.Expired())
}

func TestLoader_ParseRecordMalformed(t *testing.T) {
	l := &Loader{Today: refDate}

	testCases := []struct {
		name   string
		record string
	}{
		{"missing date", "chicken"},
		{"three fields", "green beans (2024-03-13)"},
		{"bad month", "chicken (2024-13-01)"},
		{"wrong layout", "chicken (13/03/2024)"},
		{"short day", "chicken (2024-03-1)"},
		{"not a date", "chicken (tomorrow)"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := l.ParseRecord(Meat, tc.record)
			require.Error(t, err)
			assert.True(t, IsMalformedRecord(err))
			assert.Contains(t, err.Error(), tc.record)
		})
	}
}

func TestLoader_LoadAbortsOnMalformed(t *testing.T) {
	l := &Loader{Today: refDate}

	_, err := l.Load(map[Category][]string{
		Starch:    {"bread (2024-03-15)"},
		Meat:      {"chicken 2024/03/13"},
		Vegetable: {"carrot (2024-03-14)"},
	})
	require.Error(t, err)

	var me *MalformedRecordError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, Meat, me.Category)
	assert.Equal(t, "chicken 2024/03/13", me.Record)
}

func TestLoader_LoadSkipsMalformedWhenAsked(t *testing.T) {
	l := &Loader{Today: refDate, Policy: SkipMalformed}

	inv, err := l.Load(map[Category][]string{
		Starch:    {"bread (2024-03-15)", "rice"},
		Meat:      {"chicken (2024-03-13)"},
		Vegetable: {"carrot (2024-03-14)"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, inv.Count(Starch))
	assert.Equal(t, 3, inv.Len())
}

func TestLoader_LoadSkipsEmptyRecords(t *testing.T) {
	l := &Loader{Today: refDate}

	inv, err := l.Load(map[Category][]string{
		Starch: {"", "   ", "bread (2024-03-15)"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, inv.Count(Starch))
	assert.Equal(t, []Category{Meat, Vegetable}, inv.EmptyCategories())
}

func TestLoader_LoadDuplicateKeepsPositionAndLastValue(t *testing.T) {
	l := &Loader{Today: refDate}

	inv, err := l.Load(map[Category][]string{
		Starch: {"bread (2024-03-15)", "rice (2024-03-12)", "bread (2024-03-20)"},
	})
	require.NoError(t, err)

	items := inv.Items(Starch)
	require.Len(t, items, 2)
	assert.Equal(t, "bread", items[0].Name)
	assert.Equal(t, 10, items[0].RemainingDays)
	assert.Equal(t, "rice", items[1].Name)
}

func TestLoader_LoadRejectsUnknownCategory(t *testing.T) {
	l := &Loader{Today: refDate}

	_, err := l.Load(map[Category][]string{"dessert": {"cake (2024-03-15)"}})
	assert.Error(t, err)
}

func TestInventory_Views(t *testing.T) {
	inv, err := FromDays(map[Category][]NamedDays{
		Starch:    {{"rice", 2}, {"bread", 5}},
		Meat:      {{"duck", 1}, {"chicken", 3}},
		Vegetable: {{"pea", 6}, {"carrot", 4}},
	})
	require.NoError(t, err)

	var names []string
	for _, item := range inv.SortedByName() {
		names = append(names, item.Name)
	}
	assert.Equal(t, []string{"bread", "carrot", "chicken", "duck", "pea", "rice"}, names)

	names = names[:0]
	for _, item := range inv.SortedByExpiry() {
		names = append(names, item.Name)
	}
	assert.Equal(t, []string{"duck", "rice", "chicken", "carrot", "bread", "pea"}, names)

	names = names[:0]
	for _, item := range inv.All() {
		names = append(names, item.Name)
	}
	assert.Equal(t, []string{"rice", "bread", "duck", "chicken", "pea", "carrot"}, names)

	assert.Equal(t, 3, inv.Days()[Meat]["chicken"])
}

func TestInventory_CrossCategorySameNameAreDistinct(t *testing.T) {
	inv, err := FromDays(map[Category][]NamedDays{
		Starch:    {{"squash", 2}},
		Vegetable: {{"squash", 4}},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, inv.Len())

	all := inv.All()
	assert.NotEqual(t, all[0].Key(), all[1].Key())
}

func TestParseCategory(t *testing.T) {
	for raw, want := range map[string]Category{
		"Starches":   Starch,
		"starch":     Starch,
		"MEATS":      Meat,
		" Vegetable": Vegetable,
		"Vegetables": Vegetable,
	} {
		got, err := ParseCategory(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	_, err := ParseCategory("Dessert")
	assert.Error(t, err)
}

func TestReadCSV(t *testing.T) {
	input := strings.Join([]string{
		",Starches,Meats,Vegetables",
		"0,bread (2024-03-15),chicken (2024-03-13),carrot (2024-03-14)",
		"1,rice (2024-03-12),,pea (2024-03-16)",
		"2,,,lettuce (2024-03-11)",
	}, "\n")

	raw, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{"bread (2024-03-15)", "rice (2024-03-12)"}, raw[Starch])
	assert.Equal(t, []string{"chicken (2024-03-13)"}, raw[Meat])
	assert.Len(t, raw[Vegetable], 3)

	inv, err := (&Loader{Today: refDate}).LoadCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 6, inv.Len())
}

func TestReadCSV_MissingColumn(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("Starch,Meat\nbread (2024-03-15),chicken (2024-03-13)\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingColumn)

	_, err = ReadCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrMissingColumn)
}
