// Package container builds the dependency injection container.
package container

import (
	"translator-go/internal/app"
	"translator-go/internal/config"
	"translator-go/internal/gemini"
	"translator-go/internal/handler"
	"translator-go/internal/history"
	"translator-go/internal/httpclient"
	"translator-go/internal/keypool"
	"translator-go/internal/localmodel"
	"translator-go/internal/router"
	"translator-go/internal/store"
	"translator-go/internal/translator"
	"translator-go/internal/types"

	"go.uber.org/dig"
)

// BuildContainer creates and configures the dependency injection container.
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	providers := []any{
		// Configuration
		config.NewManager,

		// Infrastructure
		func() store.Store { return store.NewMemoryStore() },
		httpclient.NewManager,

		// Translation services
		func(configManager types.ConfigManager) *keypool.Pool {
			return keypool.NewPool(configManager.GetKeysConfig().APIKeys)
		},
		func(clients *httpclient.Manager, configManager types.ConfigManager) *gemini.Client {
			return gemini.NewClient(clients, configManager.GetTranslateConfig())
		},
		func(configManager types.ConfigManager) *localmodel.Engine {
			return localmodel.NewEngine(configManager.GetLocalModelConfig())
		},
		func(s store.Store, configManager types.ConfigManager) *history.Service {
			return history.NewService(s, configManager.GetHistoryConfig())
		},
		func(
			pool *keypool.Pool,
			remote *gemini.Client,
			local *localmodel.Engine,
			configManager types.ConfigManager,
		) *translator.Router {
			return translator.NewRouter(pool, remote, local, configManager.GetTranslateConfig())
		},

		// HTTP layer
		handler.NewServer,
		router.NewRouter,

		// Application
		app.NewApp,
	}

	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return nil, err
		}
	}

	return container, nil
}
