package server

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/DjordjeVuckovic/entity-search/pkg/utils"
)

const DefaultPort = "8080"

type Config struct {
	Port        string
	UseHttp2    bool
	CorsOrigins []string
}

// LoadConfig reads the HTTP server settings from the environment.
// Dot env files are loaded by the caller before this runs.
func LoadConfig() (*Config, error) {
	useHttp2 := os.Getenv("USE_HTTP2") == "true"

	port := os.Getenv("PORT")
	if port == "" {
		port = DefaultPort
	}

	if err := validatePort(port); err != nil {
		return nil, fmt.Errorf("invalid port: %w", err)
	}

	var origins []string
	if corsOriginsEnv := os.Getenv("CORS_ORIGINS"); corsOriginsEnv != "" {
		origins = strings.Split(corsOriginsEnv, ",")
		for i, origin := range origins {
			origins[i] = strings.TrimSpace(origin)
		}
		origins = utils.RemoveEmptyStrings(origins)
	}

	if len(origins) == 0 {
		origins = []string{"*"}
	}

	return &Config{
		Port:        port,
		UseHttp2:    useHttp2,
		CorsOrigins: origins,
	}, nil
}

func validatePort(port string) error {
	portNum, err := strconv.Atoi(port)

	if err != nil {
		return errors.New("port must be a number")
	}

	if portNum < 1 || portNum > 65535 {
		return errors.New("port must be between 1 and 65535")
	}

	return nil
}
