//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"buildflow-backend/application/ports"
	"buildflow-backend/application/services"
	"buildflow-backend/infrastructure/config"
	"buildflow-backend/interfaces/http/rest"
	"buildflow-backend/pkg/observability"

	"github.com/google/wire"
	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config         *config.Config
	Logger         *zap.Logger
	ProjectRepo    ports.ProjectRepository
	EventBus       ports.EventBus
	Metrics        *observability.Metrics
	ProjectService *services.ProjectService
	Router         *rest.Router
}

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideEventBridgeClient,
	ProvideCloudWatchClient,
	ProvideProjectRepository,
	ProvideEventBus,
	ProvideMetrics,
	ProvideJWTValidator,
	ProvideProjectService,
	ProvideRouter,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}
