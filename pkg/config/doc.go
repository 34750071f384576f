// Package config loads process configuration from environment variables.
//
// Load layers the process environment over optional .env files (read with
// github.com/joho/godotenv), parses the result into a tagged struct with
// github.com/caarlos0/env/v11 and validates it with
// github.com/go-playground/validator/v10. Config is the struct used by the
// regform binary; any other struct with env tags works too.
//
// Errors wrap ErrParsingConfig, ErrInvalidConfig or ErrLoadingEnvFile and can
// be matched with errors.Is.
package config
