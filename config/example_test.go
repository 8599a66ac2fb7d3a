package config_test

import (
	"context"
	"fmt"

	"github.com/jonwraymond/pcokit/config"
)

func ExampleLoad() {
	env := map[string]string{
		"PCO_APP_ID":    "app-id",
		"PCO_SECRET":    "app-secret",
		"PCO_CACHE_TTL": "2m",
	}
	cfg, err := config.Load(context.Background(), config.WithLookup(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}))
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(cfg.BaseURL, cfg.CacheTTL)
	// Output:
	// https://api.planningcenteronline.com 2m0s
}
