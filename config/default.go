package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/tansaku/tansaku/constant"
	"github.com/tansaku/tansaku/key"
	"github.com/tansaku/tansaku/style"
	"github.com/tansaku/tansaku/where"
)

// Field represents a configuration field definition.
type Field struct {
	Key         string
	Value       any
	Description string
	Validators  []Validator
}

// Pretty returns a colored string representation of the field for display.
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// Env returns the environment variable name for this field.
func (f *Field) Env() string {
	env := strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
	prefix := strings.ToUpper(constant.Tansaku + "_")
	if strings.HasPrefix(env, prefix) {
		return env
	}
	return prefix + env
}

// MarshalJSON includes the current value next to the default.
func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Description string `json:"description"`
		Type        string `json:"type"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.typeName(),
	})
}

func (f *Field) typeName() string {
	switch f.Value.(type) {
	case string:
		return "string"
	case int:
		return "int"
	case bool:
		return "bool"
	case []string:
		return "[]string"
	default:
		return "unknown"
	}
}

// Default holds the map of all configuration fields.
var Default = make(map[string]Field)

// EnvExposed holds keys that are bound to environment variables.
var EnvExposed []string

// DefaultDenylist is the category denylist shipped with the content filter.
var DefaultDenylist = []string{"adult", "erotic", "hentai", "nsfw", "伦理", "福利", "写真"}

func init() {
	register := func(k string, v any, desc string, validators ...Validator) {
		if _, exists := Default[k]; exists {
			panic("Duplicate config key: " + k)
		}
		Default[k] = Field{Key: k, Value: v, Description: desc, Validators: validators}
		EnvExposed = append(EnvExposed, k)
	}

	register(key.SourcesScripts, true, "Expose Lua scripts from the sources directory as providers")
	register(key.SearchProviderTimeout, 20, "Seconds each provider may take before it is reported as timed out", positive)
	register(key.SearchMaxPages, 3, "Maximum result pages fetched from paginated catalogue APIs", positive)
	register(key.FilterEnabled, true, "Drop results whose category matches the denylist")
	register(key.FilterDenylist, DefaultDenylist, "Category terms removed when the content filter is enabled.\nMatching is a case-insensitive substring test", denylistTerms)
	register(key.CacheEnabled, true, "Cache successful provider results")
	register(key.CacheMemorySize, 512, "Number of provider result lists kept in memory", positive)
	register(key.CacheTTL, 30, "Minutes a cached provider result stays fresh", positive)
	register(key.ServerAddress, ":3000", "Address the HTTP server listens on", listenAddress)
	register(key.ServerHeartbeat, 15, "Seconds between keep-alive pings on a search stream. 0 disables pings", nonNegative)
	register(key.ServerRateLimit, 60, "Search requests allowed per minute for each caller. 0 disables limiting", nonNegative)
	register(key.AuthRequired, false, "Reject requests that carry no valid token")
	register(key.AuthSecret, "", "HMAC secret used to verify tokens.\nFalls back to the system keyring when empty")
	register(key.LibraryPath, where.Library(), "Location of the personal media index")
	register(key.LibraryRoot, "", "Directory scanned by \"tansaku index\"")
	register(key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, kaomoji, plain, squares, nerd (nerd-font required)", iconVariant)
	register(key.LogsWrite, true, "Write logs")
	register(key.LogsFile, false, "Write logs to a dated file in the logs directory instead of stderr")
	register(key.LogsLevel, "warn", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace", logLevel)
	register(key.LogsJson, false, "Use json format for logs")
	register(key.CliColored, true, "Enable colored CLI output")
	register(key.CliVersionCheck, true, "Enable automatic version check")
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":    style.Faint,
	"purple":   style.Fg(style.Purple),
	"blue":     style.Fg(style.Blue),
	"value":    func(k string) any { return viper.Get(k) },
	"typename": func(v any) string { return reflect.TypeOf(v).String() },
	"hl": func(v any) string {
		switch value := v.(type) {
		case bool:
			b := strconv.FormatBool(value)
			if value {
				return style.Fg(style.Green)(b)
			}
			return style.Fg(style.Red)(b)
		case string:
			return style.Fg(style.Yellow)(value)
		default:
			return fmt.Sprint(value)
		}
	},
}).Parse(`{{ faint .Description }}
{{ blue "Key:" }}     {{ purple .Key }}
{{ blue "Env:" }}     {{ .Env }}
{{ blue "Value:" }}   {{ hl (value .Key) }}
{{ blue "Default:" }} {{ hl (.Value) }}
{{ blue "Type:" }}    {{ typename .Value }}`))
