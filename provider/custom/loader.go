// Package custom provides a bridge between the Go core and Lua provider scripts.
package custom

import (
	"context"
	"fmt"

	libs "github.com/metafates/mangal-lua-libs"
	"github.com/tansaku/tansaku/constant"
	"github.com/tansaku/tansaku/internal/scraper"
	"github.com/tansaku/tansaku/source"
	lua "github.com/yuin/gopher-lua"
)

// newState prepares a sandbox with the preloaded libraries, bound to ctx.
func newState(ctx context.Context) *lua.LState {
	state := lua.NewState()
	libs.Preload(state)
	registerTLSClient(state)
	state.SetContext(ctx)
	return state
}

// LoadSource validates the script at path and returns a source backed by it.
// The script's top level runs under ctx, so a chunk that never returns is stopped with it.
// Every search runs in a fresh interpreter so concurrent sessions never share state.
func LoadSource(ctx context.Context, id, name, path string) (source.Source, error) {
	state := newState(ctx)
	defer state.Close()

	if err := scraper.Load(state, path); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}

	if state.GetGlobal(constant.SearchItemsFn).Type() != lua.LTFunction {
		return nil, fmt.Errorf("function %s is required but not defined in %s", constant.SearchItemsFn, path)
	}

	return &luaSource{id: id, name: name, path: path}, nil
}
