package di

import (
	"context"
	"fmt"

	"buildflow-backend/application/ports"
	"buildflow-backend/application/services"
	"buildflow-backend/infrastructure/config"
	"buildflow-backend/infrastructure/messaging/eventbridge"
	dynamodbrepo "buildflow-backend/infrastructure/persistence/dynamodb"
	"buildflow-backend/infrastructure/persistence/memory"
	"buildflow-backend/interfaces/http/rest"
	"buildflow-backend/pkg/auth"
	"buildflow-backend/pkg/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvideProjectRepository selects the project repository backend.
// Development runs against the in-memory store so the API works without
// AWS credentials; Lambda deployments always persist to DynamoDB.
func ProvideProjectRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.ProjectRepository {
	if cfg.IsDevelopment() && !cfg.IsLambda {
		return memory.NewProjectRepository()
	}
	return dynamodbrepo.NewProjectRepository(client, cfg.DynamoDBTable, logger)
}

// ProvideEventBus creates an event bus. Without a configured bus name,
// events are dropped.
func ProvideEventBus(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventBus {
	if cfg.EventBusName == "" {
		return nil
	}
	return eventbridge.NewPublisher(client, cfg.EventBusName, logger)
}

// ProvideMetrics creates metrics instance
func ProvideMetrics(client *awscloudwatch.Client, cfg *config.Config) *observability.Metrics {
	if !cfg.EnableMetrics {
		return nil
	}
	namespace := fmt.Sprintf("BuildFlow/%s", cfg.Environment)
	return observability.NewMetrics(namespace, client)
}

// ProvideJWTValidator creates the token validator used by the API
// middleware
func ProvideJWTValidator(cfg *config.Config) (*auth.JWTValidator, error) {
	secret := cfg.JWTSecret
	if secret == "" && cfg.IsDevelopment() {
		secret = "development-secret-change-in-production"
	}
	return auth.NewJWTValidator(auth.JWTConfig{
		SigningMethod: "HS256",
		SecretKey:     secret,
		Issuer:        cfg.JWTIssuer,
	})
}

// ProvideProjectService creates the project application service
func ProvideProjectService(
	repo ports.ProjectRepository,
	bus ports.EventBus,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *services.ProjectService {
	return services.NewProjectService(repo, bus, metrics, logger)
}

// ProvideRouter creates the HTTP router
func ProvideRouter(
	cfg *config.Config,
	service *services.ProjectService,
	validator *auth.JWTValidator,
	logger *zap.Logger,
) *rest.Router {
	return rest.NewRouter(cfg, service, validator, logger)
}
