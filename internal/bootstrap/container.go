package bootstrap

import (
	"log"

	"canon-be/internal/config"
	"canon-be/internal/controller"
	"canon-be/internal/pkg/logger"
	"canon-be/internal/repository/memory"
	"canon-be/internal/repository/unitofwork"
	"canon-be/internal/service"
	"canon-be/pkg/agent"
	"canon-be/pkg/agent/compose"
	"canon-be/pkg/agent/decision"
	"canon-be/pkg/agent/generate"
	"canon-be/pkg/llm/factory"
	"canon-be/pkg/websearch"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AgentController    controller.IAgentController
	ProjectController  controller.IProjectController
	DocumentController controller.IDocumentController
	ChatController     controller.IChatController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
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

	// 3. Model + Search Capabilities
	// Each provider has its own base URL; the openai one stays empty for the
	// hosted API and is only set for OpenAI-compatible endpoints.
	llmBaseURL := cfg.Ai.OllamaBaseURL
	if cfg.Ai.LLMProvider == "openai" {
		llmBaseURL = cfg.Ai.OpenAIBaseURL
	}
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		llmBaseURL,
		cfg.Keys.OpenAI,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	model := agent.NewModelCapability(llmProvider)

	if cfg.Keys.Tavily == "" {
		log.Printf("[WARN] TAVILY_API_KEY not set, web search will run degraded")
	}
	searchClient := websearch.NewClient(cfg.Keys.TavilyBaseURL, cfg.Keys.Tavily)

	// 4. Agent Pipeline
	engine := decision.NewEngine(model, sysLogger)
	generator := generate.NewGenerator(model, sysLogger)
	composer := compose.NewComposer()
	traceRepo := memory.NewTraceRepository()

	// 5. Services
	publisherService := service.NewPublisherService(cfg.Keys.AgentTopicName, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.AgentTopicName,
		uowFactory,
	)

	agentService := service.NewAgentService(
		uowFactory,
		engine,
		generator,
		composer,
		searchClient,
		traceRepo,
		publisherService,
		sysLogger,
	)

	projectService := service.NewProjectService(uowFactory)
	documentService := service.NewDocumentService(uowFactory)
	chatService := service.NewChatService(uowFactory)

	// 6. Controllers
	return &Container{
		AgentController:    controller.NewAgentController(agentService),
		ProjectController:  controller.NewProjectController(projectService),
		DocumentController: controller.NewDocumentController(documentService),
		ChatController:     controller.NewChatController(chatService),

		ConsumerService: consumerService,
	}
}
