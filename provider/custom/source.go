package custom

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"github.com/tansaku/tansaku/constant"
	"github.com/tansaku/tansaku/internal/scraper"
	"github.com/tansaku/tansaku/log"
	"github.com/tansaku/tansaku/source"
	lua "github.com/yuin/gopher-lua"
)

type luaSource struct {
	id, name, path string
}

func (s *luaSource) ID() string   { return s.id }
func (s *luaSource) Name() string { return s.name }

// Search calls the script's SearchItems(query) and converts the returned table.
func (s *luaSource) Search(ctx context.Context, query string) ([]*source.Item, error) {
	state := newState(ctx)
	defer state.Close()

	if err := scraper.Load(state, s.path); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, source.Providerf(s.id, "load: %s", err)
	}

	err := state.CallByParam(lua.P{
		Fn:      state.GetGlobal(constant.SearchItemsFn),
		NRet:    1,
		Protect: true,
	}, lua.LString(query))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, source.Providerf(s.id, "%s", err)
	}

	ret := state.Get(-1)
	state.Pop(1)

	table, ok := ret.(*lua.LTable)
	if !ok {
		return nil, source.Providerf(s.id, "%s must return a table, got %s", constant.SearchItemsFn, ret.Type().String())
	}

	var (
		items   []*source.Item
		invalid int
	)
	table.ForEach(func(_, value lua.LValue) {
		entry, ok := value.(*lua.LTable)
		if !ok {
			invalid++
			return
		}

		item, err := itemFromTable(entry)
		if err != nil {
			invalid++
			return
		}

		items = append(items, item)
	})

	if invalid > 0 {
		log.Warnf("%s: skipped %d malformed items", s.id, invalid)
	}

	return lo.UniqBy(items, func(item *source.Item) string {
		return fmt.Sprintf("%s\x00%s", item.ID, item.URL)
	}), nil
}
