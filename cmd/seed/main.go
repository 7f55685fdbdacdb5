// Seed pushes the static catalog into the Elasticsearch index so that
// full-text product search can serve from it.
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/shopeasy/shopeasy-engine/config"
	"github.com/shopeasy/shopeasy-engine/internal/catalog"
	"github.com/shopeasy/shopeasy-engine/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	es, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
	if err != nil {
		log.Fatalf("failed to init elasticsearch client: %v", err)
	}

	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	cat := catalog.New(es, cfg.ESCatalogIndex, logger)
	if err := cat.IndexAll(context.Background()); err != nil {
		log.Fatalf("failed to index catalog: %v", err)
	}
	fmt.Printf("indexed %d products into %s\n", len(catalog.Products()), cfg.ESCatalogIndex)
}
