package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/tansaku/tansaku/icon"
)

// ErrUnknownKey is returned for keys missing from Default.
var ErrUnknownKey = errors.New("unknown key")

// Validator checks a typed value before it is stored.
type Validator func(v any) error

func positive(v any) error {
	if n, ok := v.(int); ok && n <= 0 {
		return fmt.Errorf("must be greater than 0, got %d", n)
	}
	return nil
}

func nonNegative(v any) error {
	if n, ok := v.(int); ok && n < 0 {
		return fmt.Errorf("must not be negative, got %d", n)
	}
	return nil
}

func oneOf(options ...string) Validator {
	return func(v any) error {
		if s, ok := v.(string); ok && !lo.Contains(options, s) {
			return fmt.Errorf("must be one of %s, got %q", strings.Join(options, ", "), s)
		}
		return nil
	}
}

func logLevel(v any) error {
	if s, ok := v.(string); ok {
		if _, err := logrus.ParseLevel(s); err != nil {
			return err
		}
	}
	return nil
}

func listenAddress(v any) error {
	if s, ok := v.(string); ok {
		if _, _, err := net.SplitHostPort(s); err != nil {
			return fmt.Errorf("invalid listen address %q: %w", s, err)
		}
	}
	return nil
}

func denylistTerms(v any) error {
	terms, ok := v.([]string)
	if !ok {
		return nil
	}

	for i, term := range terms {
		if strings.TrimSpace(term) == "" {
			return fmt.Errorf("term %d is blank", i+1)
		}
	}
	return nil
}

var iconVariant = oneOf(icon.AvailableVariants()...)

// Parse converts raw command line values into the type of the key's default and validates the result.
func Parse(key string, raw []string) (any, error) {
	field, ok := Default[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}

	if len(raw) == 0 {
		return nil, fmt.Errorf("%s: value is required", key)
	}

	var v any
	switch field.Value.(type) {
	case string:
		v = raw[0]
	case int:
		n, err := strconv.Atoi(raw[0])
		if err != nil {
			return nil, fmt.Errorf("%s: invalid integer %q", key, raw[0])
		}
		v = n
	case bool:
		b, err := strconv.ParseBool(raw[0])
		if err != nil {
			return nil, fmt.Errorf("%s: invalid boolean %q", key, raw[0])
		}
		v = b
	case []string:
		// "a,b" and "a b" are both accepted
		v = lo.FlatMap(raw, func(s string, _ int) []string {
			return lo.Map(strings.Split(s, ","), func(t string, _ int) string { return strings.TrimSpace(t) })
		})
	}

	if err := field.Check(v); err != nil {
		return nil, err
	}

	return v, nil
}

// Check runs the field's validators against v.
func (f *Field) Check(v any) error {
	for _, validate := range f.Validators {
		if err := validate(v); err != nil {
			return fmt.Errorf("%s: %w", f.Key, err)
		}
	}
	return nil
}

// Problems validates every currently loaded value and returns one error per invalid key.
func Problems() map[string]error {
	problems := make(map[string]error)
	for k, field := range Default {
		var v any
		switch field.Value.(type) {
		case string:
			v = viper.GetString(k)
		case int:
			v = viper.GetInt(k)
		case bool:
			v = viper.GetBool(k)
		case []string:
			v = viper.GetStringSlice(k)
		}

		if err := field.Check(v); err != nil {
			problems[k] = err
		}
	}
	return problems
}

// Save writes the in-memory configuration, creating the file when it does not exist yet.
func Save() error {
	err := viper.WriteConfig()

	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return viper.SafeWriteConfig()
	}
	return err
}
