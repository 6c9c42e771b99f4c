package cli

import (
	"context"

	configfile "github.com/sibyl-labs/sibyl-cli/internal/adapters/driven/config/file"
	"github.com/sibyl-labs/sibyl-cli/internal/adapters/driven/index/lexical"
	"github.com/sibyl-labs/sibyl-cli/internal/adapters/driven/storage/memory"
	"github.com/sibyl-labs/sibyl-cli/internal/core/domain"
	"github.com/sibyl-labs/sibyl-cli/internal/core/services"
)

var fixtureDocs = []domain.Document{
	{
		URL:     "https://www.example.com/platform/ecommerce",
		Title:   "eCommerce Platform",
		Content: "The ecommerce platform provides shopping cart functionality, secure checkout, and inventory management for online stores.",
	},
	{
		URL:     "https://www.example.com/platform/cms",
		Title:   "Content Management",
		Content: "The content management system lets teams publish pages, manage digital assets, and localise content across channels.",
	},
	{
		URL:     "https://www.example.com/blogs/headless-commerce",
		Title:   "Headless Commerce Explained",
		Content: "Headless commerce separates the storefront presentation layer from the commerce engine using APIs.",
	},
}

// setupTestServices wires a real in-memory pipeline over a small
// fixture corpus and returns a cleanup that restores the previous
// package state.
func setupTestServices() func() {
	oldAssistant := assistantService
	oldStore := corpusStore
	oldConfig := appConfig

	store := memory.NewCorpusStore()
	engine := lexical.New()
	svc := services.NewAssistantService(
		store,
		engine,
		nil,
		domain.DefaultPolicy(),
		domain.DefaultCatalog("Core DNA"),
	)
	if err := svc.Index(context.Background(), fixtureDocs); err != nil {
		panic(err)
	}

	assistantService = svc
	corpusStore = store
	appConfig = configfile.Default()

	return func() {
		assistantService = oldAssistant
		corpusStore = oldStore
		appConfig = oldConfig
	}
}
