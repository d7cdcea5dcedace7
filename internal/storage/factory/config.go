package factory

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/DjordjeVuckovic/entity-search/internal/storage/es"
	"github.com/DjordjeVuckovic/entity-search/pkg/utils"
)

type StorageConfig struct {
	Es     *es.ClientConfig
	Search es.SearchConfig
}

func LoadEnv() (*StorageConfig, error) {
	var addresses []string
	for _, addr := range strings.Split(os.Getenv("ES_ADDRESSES"), ",") {
		addresses = append(addresses, strings.TrimSpace(addr))
	}

	esCfg := &es.ClientConfig{
		Addresses:           utils.RemoveEmptyStrings(addresses),
		IndexName:           os.Getenv("ES_INDEX_NAME"),
		Username:            os.Getenv("ES_USERNAME"),
		Password:            os.Getenv("ES_PASSWORD"),
		SupportsPointInTime: true,
		KeepAlive:           es.DefaultKeepAlive,
	}
	if len(esCfg.Addresses) == 0 || esCfg.IndexName == "" {
		slog.Error("Elasticsearch configuration is incomplete", "addresses", esCfg.Addresses, "indexName", esCfg.IndexName)
		return nil, fmt.Errorf("elasticsearch configuration is incomplete: addresses or index name is missing")
	}

	if raw := os.Getenv("ES_SUPPORTS_PIT"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid ES_SUPPORTS_PIT %q: %w", raw, err)
		}
		esCfg.SupportsPointInTime = v
	}

	if raw := os.Getenv("SEARCH_DEFAULT_KEEP_ALIVE"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid SEARCH_DEFAULT_KEEP_ALIVE %q: must be a positive duration", raw)
		}
		esCfg.KeepAlive = d
	}

	search := es.DefaultSearchConfig()
	if raw := os.Getenv("SEARCH_MAX_TERM_BUCKET_SIZE"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid SEARCH_MAX_TERM_BUCKET_SIZE %q: must be a positive integer", raw)
		}
		search.MaxTermBucketSize = n
	}

	return &StorageConfig{
		Es:     esCfg,
		Search: search,
	}, nil
}
