package env

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Environment carries unfolding limits read from the process environment.
// Zero values mean "use the default".
type Environment struct {
	MaxEvents int
	MaxBound  int
	Safe      bool
}

// Load reads UNFOLD_MAX_EVENTS, UNFOLD_MAX_BOUND and UNFOLD_SAFE,
// consulting a .env file when present.
func Load(logger *zap.Logger) *Environment {
	_ = godotenv.Load()

	e := &Environment{}
	if v, ok := os.LookupEnv("UNFOLD_MAX_EVENTS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			logger.Fatal("Failed to parse UNFOLD_MAX_EVENTS", zap.Error(err))
		}
		e.MaxEvents = n
	}
	if v, ok := os.LookupEnv("UNFOLD_MAX_BOUND"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			logger.Fatal("Failed to parse UNFOLD_MAX_BOUND", zap.Error(err))
		}
		e.MaxBound = n
	}
	if v, ok := os.LookupEnv("UNFOLD_SAFE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			logger.Fatal("Failed to parse UNFOLD_SAFE", zap.Error(err))
		}
		e.Safe = b
	}
	return e
}
