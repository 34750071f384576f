package config

import (
	"errors"
	"fmt"
	"maps"
	"os"

	"github.com/caarlos0/env/v11"
	playground "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const defaultEnvFile = ".env"

// Load fills v from the process environment layered over the given .env
// files, then checks its validate tags.
//
// Later files override earlier ones and the process environment overrides
// every file. With no files, ./.env is read when it exists. The process
// environment itself is never modified.
//
//	var cfg config.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
func Load[T any](v *T, envFiles ...string) error {
	if v == nil {
		return ErrNilPointer
	}

	vars, err := readEnvFiles(envFiles)
	if err != nil {
		return err
	}
	maps.Copy(vars, env.ToMap(os.Environ()))

	if err := env.ParseWithOptions(v, env.Options{Environment: vars}); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}

	if err := playground.New().Struct(v); err != nil {
		return errors.Join(ErrInvalidConfig, err)
	}

	return nil
}

// MustLoad works like Load but panics on failure.
func MustLoad[T any](v *T, envFiles ...string) {
	if err := Load(v, envFiles...); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}

func readEnvFiles(files []string) (map[string]string, error) {
	if len(files) == 0 {
		if _, err := os.Stat(defaultEnvFile); err != nil {
			return map[string]string{}, nil
		}
		files = []string{defaultEnvFile}
	}

	vars := make(map[string]string)
	for _, f := range files {
		m, err := godotenv.Read(f)
		if err != nil {
			return nil, errors.Join(ErrLoadingEnvFile, fmt.Errorf("%s: %w", f, err))
		}
		maps.Copy(vars, m)
	}
	return vars, nil
}
