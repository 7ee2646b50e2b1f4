// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/tansaku/tansaku/constant"
	"github.com/tansaku/tansaku/filesystem"
	"github.com/tansaku/tansaku/where"
)

// EnvKeyReplacer is a strings.Replacer used to normalize configuration keys into environment variable naming conventions.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// Setup initializes the global configuration state: .env files, environment bindings, defaults and the TOML file.
func Setup() error {
	loadDotEnv()

	viper.SetConfigName(constant.Tansaku)
	viper.SetConfigType("toml")
	viper.SetFs(filesystem.API())
	viper.AddConfigPath(where.Config())

	viper.SetEnvPrefix(constant.Tansaku)
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	for _, env := range EnvExposed {
		viper.MustBindEnv(env)
	}

	viper.SetTypeByDefaultValue(true)
	for name, field := range Default {
		viper.SetDefault(name, field.Value)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}

	return nil
}

// loadDotEnv merges .env files from the working directory and the config directory into the process env.
// Variables already present in the environment win.
func loadDotEnv() {
	for _, path := range []string{".env", filepath.Join(where.Config(), ".env")} {
		if ok, _ := filesystem.API().Exists(path); !ok {
			continue
		}

		values, err := readDotEnv(path)
		if err != nil {
			continue
		}

		for k, v := range values {
			if _, set := os.LookupEnv(k); !set {
				_ = os.Setenv(k, v)
			}
		}
	}
}

func readDotEnv(path string) (map[string]string, error) {
	f, err := filesystem.API().Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return godotenv.Parse(f)
}
