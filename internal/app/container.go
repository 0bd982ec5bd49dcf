// Package app wires application services with infrastructure adapters.
package app

import (
	"context"

	"github.com/doeshing/aicoder/internal/infrastructure/ai"
	"github.com/doeshing/aicoder/internal/infrastructure/config"
	"github.com/doeshing/aicoder/internal/infrastructure/executor"
	"github.com/doeshing/aicoder/internal/infrastructure/history"
	"github.com/doeshing/aicoder/internal/infrastructure/security"
	"github.com/doeshing/aicoder/internal/pkg/logger"
	"github.com/doeshing/aicoder/internal/ports"
	"github.com/doeshing/aicoder/internal/services"
)

// Container holds the dependency graph for one process.
type Container struct {
	GenerateService *services.GenerateService
	DoctorService   *services.DoctorService
	ConfigLoader    *config.FileLoader
	ProviderFactory ports.ProviderFactory
	HistoryStore    ports.HistoryRepository
	Logger          *logger.StdLogger
}

// BuildContainer constructs the dependency graph.
func BuildContainer(ctx context.Context, verbose bool) (*Container, error) {
	cfgLoader := config.NewFileLoader("")
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.NewStd(verbose)
	providerFactory := ai.NewFactory()
	historyStore := history.NewSQLiteStore()

	guardrail, err := security.NewGuardrail(cfg.Security.RulesFile)
	if err != nil {
		log.Warn("configured guardrail rules unusable, falling back to embedded defaults", map[string]interface{}{
			"error": err.Error(),
		})
		guardrail, err = security.NewGuardrail("")
		if err != nil {
			return nil, err
		}
	}

	localExecutor := executor.NewLocalExecutor(cfg.Agent.Shell)

	generateService := &services.GenerateService{
		ConfigProvider:  cfgLoader,
		ProviderFactory: providerFactory,
		SecurityService: guardrail,
		Executor:        localExecutor,
		HistoryStore:    historyStore,
		Logger:          log,
	}

	doctorService := &services.DoctorService{
		ConfigProvider:  cfgLoader,
		ProviderFactory: providerFactory,
		SecurityService: guardrail,
		HistoryStore:    historyStore,
		Shell:           localExecutor.Shell(),
	}

	return &Container{
		GenerateService: generateService,
		DoctorService:   doctorService,
		ConfigLoader:    cfgLoader,
		ProviderFactory: providerFactory,
		HistoryStore:    historyStore,
		Logger:          log,
	}, nil
}
