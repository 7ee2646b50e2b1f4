package provider

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/tansaku/tansaku/auth"
	"github.com/tansaku/tansaku/filesystem"
	"github.com/tansaku/tansaku/key"
	"github.com/tansaku/tansaku/log"
	"github.com/tansaku/tansaku/util"
	"github.com/tansaku/tansaku/where"
)

// Catalogue lists the providers a caller may search.
type Catalogue interface {
	Visible(ctx context.Context, id auth.Identity) ([]*Descriptor, error)
}

// Static is a fixed catalogue.
type Static []*Descriptor

func (s Static) Visible(_ context.Context, id auth.Identity) ([]*Descriptor, error) {
	return visible(s, id), nil
}

// Config is the catalogue backed by the [[providers]] tables of the config file
// plus any Lua scripts in the sources directory.
type Config struct{}

func (Config) Visible(_ context.Context, id auth.Identity) ([]*Descriptor, error) {
	all, err := All()
	if err != nil {
		return nil, err
	}

	return visible(all, id), nil
}

// Only restricts a catalogue to the given keys. No keys means no restriction.
func Only(c Catalogue, keys ...string) Catalogue {
	if len(keys) == 0 {
		return c
	}
	return only{c, keys}
}

type only struct {
	Catalogue
	keys []string
}

func (o only) Visible(ctx context.Context, id auth.Identity) ([]*Descriptor, error) {
	descriptors, err := o.Catalogue.Visible(ctx, id)
	if err != nil {
		return nil, err
	}

	return lo.Filter(descriptors, func(d *Descriptor, _ int) bool {
		return lo.Contains(o.keys, d.Key)
	}), nil
}

// All returns every configured provider, invalid entries skipped with a warning.
func All() ([]*Descriptor, error) {
	var configured []*Descriptor
	if err := viper.UnmarshalKey(key.Providers, &configured); err != nil {
		return nil, fmt.Errorf("decode providers: %w", err)
	}

	descriptors := lo.Filter(configured, func(d *Descriptor, _ int) bool {
		if d == nil {
			return false
		}
		if err := d.Validate(); err != nil {
			log.Warn(err)
			return false
		}
		return true
	})

	if viper.GetBool(key.SourcesScripts) {
		scripts, err := Scripts()
		if err != nil {
			log.Warnf("scripts: %s", err)
		}
		descriptors = append(descriptors, scripts...)
	}

	return lo.UniqBy(descriptors, func(d *Descriptor) string { return d.Key }), nil
}

// ScriptKey returns the provider key for a Lua script name.
func ScriptKey(name string) string {
	return "script:" + name
}

// Scripts returns a descriptor for every Lua file in the sources directory.
func Scripts() ([]*Descriptor, error) {
	files, err := filesystem.API().ReadDir(where.Sources())
	if err != nil {
		return nil, err
	}

	var descriptors []*Descriptor
	for _, f := range files {
		if f.IsDir() || filepath.Ext(f.Name()) != ".lua" || f.Name() == "common.lua" {
			continue
		}

		name := util.FileStem(f.Name())
		descriptors = append(descriptors, &Descriptor{
			Key:  ScriptKey(name),
			Name: name,
			Kind: KindScript,
			Path: filepath.Join(where.Sources(), f.Name()),
		})
	}

	return descriptors, nil
}

func visible(all []*Descriptor, id auth.Identity) []*Descriptor {
	return lo.Filter(all, func(d *Descriptor, _ int) bool {
		return d != nil && d.VisibleTo(id)
	})
}
