package custom

import (
	"errors"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/tansaku/tansaku/source"
	lua "github.com/yuin/gopher-lua"
)

var errMissingFields = errors.New("item must have title and url")

func getString(table *lua.LTable, key string) string {
	switch val := table.RawGetString(key).(type) {
	case lua.LString:
		return strings.TrimSpace(string(val))
	case lua.LNumber:
		return strconv.FormatFloat(float64(val), 'f', -1, 64)
	default:
		return ""
	}
}

// getStringList accepts either a comma-separated string or an array of strings.
func getStringList(table *lua.LTable, key string) []string {
	val := table.RawGetString(key)
	switch val.Type() {
	case lua.LTString:
		return lo.Compact(lo.Map(strings.Split(val.String(), ","), func(s string, _ int) string {
			return strings.TrimSpace(s)
		}))
	case lua.LTTable:
		var list []string
		val.(*lua.LTable).ForEach(func(_, v lua.LValue) {
			if v.Type() == lua.LTString {
				list = append(list, v.String())
			}
		})
		return list
	default:
		return nil
	}
}

func getStringMap(table *lua.LTable, key string) map[string]string {
	tbl, ok := table.RawGetString(key).(*lua.LTable)
	if !ok {
		return nil
	}

	m := make(map[string]string)
	tbl.ForEach(func(k, v lua.LValue) {
		if k.Type() == lua.LTString {
			m[k.String()] = v.String()
		}
	})

	if len(m) == 0 {
		return nil
	}
	return m
}

func itemFromTable(table *lua.LTable) (*source.Item, error) {
	title := getString(table, "title")
	url := getString(table, "url")

	if title == "" || url == "" {
		return nil, errMissingFields
	}

	id := getString(table, "id")
	if id == "" {
		id = url
	}

	return &source.Item{
		ID:          id,
		Title:       title,
		URL:         url,
		Category:    source.Categories(append([]string{getString(table, "category")}, getStringList(table, "genres")...)...),
		Cover:       getString(table, "cover"),
		Year:        getString(table, "year"),
		Description: getString(table, "description"),
		Episodes:    getStringList(table, "episodes"),
		Extra:       getStringMap(table, "extra"),
	}, nil
}
