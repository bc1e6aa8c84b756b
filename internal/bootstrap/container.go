package bootstrap

import (
	"log"

	"velto-memory-be/internal/config"
	"velto-memory-be/internal/controller"
	"velto-memory-be/internal/pkg/logger"
	"velto-memory-be/internal/repository/unitofwork"
	"velto-memory-be/internal/service"
	"velto-memory-be/pkg/ai"
	"velto-memory-be/pkg/graph"
	"velto-memory-be/pkg/rag"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ContextController controller.IContextController
	SearchController  controller.ISearchController
	ProjectController controller.IProjectController
	HealthController  controller.IHealthController

	// Background Services (Exposed for main.go to run)
	GraphConsumerService service.IGraphConsumerService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Provider
	var provider ai.Provider
	if cfg.Ai.Provider == "ollama" {
		provider = ai.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.EmbeddingModel, cfg.Ai.ChatModel)
		log.Printf("[INFO] Using AI Provider: OLLAMA (%s)", cfg.Ai.OllamaBaseURL)
	} else {
		provider = ai.NewGeminiProvider(cfg.Ai.GeminiApiKey, cfg.Ai.EmbeddingModel, cfg.Ai.ChatModel)
		log.Printf("[INFO] Using AI Provider: GEMINI")
	}

	budgetPolicy := rag.DropWholeContext
	if cfg.Ai.RagTruncateContext {
		budgetPolicy = rag.TruncateLastContext
	}
	responder := rag.NewResponder(provider, budgetPolicy)

	graphBuilder := graph.NewBuilder(uowFactory, cfg.Graph.EdgeThreshold)

	// 4. Services
	publisherService := service.NewPublisherService(cfg.Topics.RebuildContextGraph, pubSub)
	graphConsumerService := service.NewGraphConsumerService(
		pubSub,
		cfg.Topics.RebuildContextGraph,
		graphBuilder,
		sysLogger,
	)

	contextService := service.NewContextService(uowFactory, publisherService, provider, sysLogger)
	projectService := service.NewProjectService(uowFactory)
	searchService := service.NewSearchService(uowFactory, provider, responder)

	// 5. Controllers
	return &Container{
		ContextController: controller.NewContextController(contextService),
		SearchController:  controller.NewSearchController(searchService),
		ProjectController: controller.NewProjectController(projectService),
		HealthController:  controller.NewHealthController(db, cfg, sysLogger),

		GraphConsumerService: graphConsumerService,
	}
}
