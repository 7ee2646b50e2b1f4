// Package provider resolves which search providers a caller can see and opens them as sources.
package provider

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/tansaku/tansaku/auth"
)

// Kind selects the adapter a descriptor is opened with.
type Kind string

const (
	KindCatalogue     Kind = "catalogue-api"
	KindMediaServer   Kind = "media-server"
	KindPersonalIndex Kind = "personal-index"
	KindScript        Kind = "script"
)

// Kinds lists every supported kind.
var Kinds = []Kind{KindCatalogue, KindMediaServer, KindPersonalIndex, KindScript}

// Catalogue API formats.
const (
	FormatCMS     = "cms"
	FormatAnilist = "anilist"
	FormatMAL     = "mal"
)

// Descriptor describes one configured provider.
type Descriptor struct {
	Key      string   `mapstructure:"key" json:"key"`
	Name     string   `mapstructure:"name" json:"name"`
	Kind     Kind     `mapstructure:"kind" json:"kind"`
	Format   string   `mapstructure:"format" json:"format,omitempty"`
	URL      string   `mapstructure:"url" json:"url,omitempty"`
	Token    string   `mapstructure:"token" json:"-"`
	Path     string   `mapstructure:"path" json:"path,omitempty"`
	Roles    []string `mapstructure:"roles" json:"roles,omitempty"`
	Disabled bool     `mapstructure:"disabled" json:"disabled,omitempty"`
}

func (d *Descriptor) String() string {
	return d.Name
}

// Validate checks the fields every kind needs and fills in defaults.
func (d *Descriptor) Validate() error {
	if d.Key == "" {
		return fmt.Errorf("provider without key")
	}

	if d.Name == "" {
		d.Name = d.Key
	}

	if !lo.Contains(Kinds, d.Kind) {
		return fmt.Errorf("provider %s: unknown kind %q", d.Key, d.Kind)
	}

	switch d.Kind {
	case KindCatalogue:
		if d.Format == "" {
			d.Format = FormatCMS
		}
		if !lo.Contains([]string{FormatCMS, FormatAnilist, FormatMAL}, d.Format) {
			return fmt.Errorf("provider %s: unknown format %q", d.Key, d.Format)
		}
		if d.URL == "" && d.Format == FormatCMS {
			return fmt.Errorf("provider %s: url is required", d.Key)
		}
	case KindMediaServer:
		if d.URL == "" {
			return fmt.Errorf("provider %s: url is required", d.Key)
		}
	case KindScript:
		if d.Path == "" {
			return fmt.Errorf("provider %s: path is required", d.Key)
		}
	}

	return nil
}

// VisibleTo reports whether id may query the provider.
// Descriptors without roles are public. Disabled descriptors are visible to nobody.
func (d *Descriptor) VisibleTo(id auth.Identity) bool {
	if d.Disabled {
		return false
	}

	return len(d.Roles) == 0 || id.HasAnyRole(d.Roles...)
}
