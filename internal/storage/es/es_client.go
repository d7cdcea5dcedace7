package es

import (
	"time"

	"github.com/elastic/go-elasticsearch/v8"
)

const DefaultKeepAlive = 5 * time.Minute

type ClientConfig struct {
	Addresses []string
	IndexName string
	Username  string
	Password  string
	// SupportsPointInTime enables point in time reads for scroll pages.
	SupportsPointInTime bool
	// KeepAlive is used when a scroll call does not pass its own.
	KeepAlive time.Duration
}

func newClient(config ClientConfig) (*elasticsearch.TypedClient, error) {
	cfg := elasticsearch.Config{
		Addresses: config.Addresses,
	}

	if config.Username != "" && config.Password != "" {
		cfg.Username = config.Username
		cfg.Password = config.Password
	}

	client, err := elasticsearch.NewTypedClient(cfg)

	return client, err
}
