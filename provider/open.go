package provider

import (
	"context"
	"fmt"

	"github.com/spf13/viper"
	"github.com/tansaku/tansaku/anilist"
	"github.com/tansaku/tansaku/cache"
	"github.com/tansaku/tansaku/cms"
	"github.com/tansaku/tansaku/key"
	"github.com/tansaku/tansaku/library"
	"github.com/tansaku/tansaku/mal"
	"github.com/tansaku/tansaku/mediaserver"
	"github.com/tansaku/tansaku/provider/custom"
	"github.com/tansaku/tansaku/source"
)

// Open builds the source for d. Remote providers get a result cache when cache.enabled is set.
// Script providers run their top level under ctx.
func Open(ctx context.Context, d *Descriptor) (source.Source, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	src, err := open(ctx, d)
	if err != nil {
		return nil, err
	}

	if d.Kind != KindPersonalIndex && viper.GetBool(key.CacheEnabled) {
		return cache.Wrap(src), nil
	}

	return src, nil
}

func open(ctx context.Context, d *Descriptor) (source.Source, error) {
	switch d.Kind {
	case KindCatalogue:
		switch d.Format {
		case FormatAnilist:
			return anilist.New(d.Key, d.Name, d.URL), nil
		case FormatMAL:
			return mal.New(d.Key, d.Name, d.URL, d.Token), nil
		default:
			return cms.New(d.Key, d.Name, d.URL, viper.GetInt(key.SearchMaxPages)), nil
		}
	case KindMediaServer:
		return mediaserver.New(d.Key, d.Name, d.URL, d.Token), nil
	case KindPersonalIndex:
		path := d.Path
		if path == "" {
			path = viper.GetString(key.LibraryPath)
		}
		return library.Open(d.Key, d.Name, path)
	case KindScript:
		return custom.LoadSource(ctx, d.Key, d.Name, d.Path)
	default:
		return nil, fmt.Errorf("provider %s: unknown kind %q", d.Key, d.Kind)
	}
}
