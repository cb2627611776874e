package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

const defaultEnvFile = ".env"

var (
	envFilePath string
	parseOnce   sync.Once
	exportOnce  sync.Map
)

// MustNew panics when New fails. Use it from main only.
func MustNew[T any](prefix string) *T {
	conf, err := New[T](prefix)
	if err != nil {
		panic(err)
	}
	return conf
}

// New fills T from the environment after exporting the file named by the
// -env flag, or ./.env when the flag is unset and the file exists.
func New[T any](prefix string) (*T, error) {
	if path := resolveEnvPath(); path != "" {
		return FromFile[T](prefix, path)
	}
	if err := exportEnvironmentIfExists(defaultEnvFile); err != nil {
		return nil, fmt.Errorf("failed to load default env file: %w", err)
	}
	return process[T](prefix)
}

// FromFile exports path into the process environment and fills T.
// Variables already set in the environment are left untouched.
func FromFile[T any](prefix string, path string) (*T, error) {
	if err := exportEnvironment(path); err != nil {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}
	return process[T](prefix)
}

func process[T any](prefix string) (*T, error) {
	var conf T
	if err := envconfig.Process(prefix, &conf); err != nil {
		prefix = strings.TrimSpace(prefix)
		if prefix == "" {
			return nil, fmt.Errorf("process config: %w", err)
		}
		return nil, fmt.Errorf("process %s config: %w", prefix, err)
	}
	return &conf, nil
}

func resolveEnvPath() string {
	parseOnce.Do(func() {
		if flag.Lookup("env") == nil {
			flag.StringVar(&envFilePath, "env", "", "path to .env file")
		}
		if !flag.Parsed() {
			flag.Parse()
		}
	})
	return strings.TrimSpace(envFilePath)
}

func exportEnvironmentIfExists(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if info.IsDir() {
		return nil
	}
	return exportEnvironment(path)
}

// exportEnvironment runs once per path; every config struct in main reads
// the same file.
func exportEnvironment(path string) error {
	if _, done := exportOnce.Load(path); done {
		return nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		return err
	}

	for k, val := range v.AllSettings() {
		key := strings.ToUpper(k)
		if _, set := os.LookupEnv(key); set {
			continue
		}
		if err := os.Setenv(key, fmt.Sprint(val)); err != nil {
			return err
		}
	}

	exportOnce.Store(path, struct{}{})
	return nil
}
