package dynamodb

import (
	"context"
	"fmt"
	"sort"

	"buildflow-backend/application/ports"
	"buildflow-backend/domain/project"
	apperrors "buildflow-backend/pkg/errors"
	"buildflow-backend/pkg/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// ProjectRepository implements ports.ProjectRepository using DynamoDB.
// Projects live in a single table under PK=USER#<userID>, SK=PROJECT#<projectID>;
// the diagram snapshot is stored as a JSON string attribute.
type ProjectRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) ports.ProjectRepository {
	return &ProjectRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// projectItem represents the DynamoDB item structure for a project
type projectItem struct {
	PK         string                 `dynamodbav:"PK"`
	SK         string                 `dynamodbav:"SK"`
	EntityType string                 `dynamodbav:"EntityType"`
	ProjectID  string                 `dynamodbav:"ProjectID"`
	UserID     string                 `dynamodbav:"UserID"`
	Name       string                 `dynamodbav:"Name"`
	Diagram    string                 `dynamodbav:"Diagram"`
	Deployment map[string]interface{} `dynamodbav:"Deployment,omitempty"`
	CreatedAt  string                 `dynamodbav:"CreatedAt"`
	UpdatedAt  string                 `dynamodbav:"UpdatedAt"`
}

func projectPK(userID string) string {
	return fmt.Sprintf("USER#%s", userID)
}

func projectSK(projectID string) string {
	return fmt.Sprintf("PROJECT#%s", projectID)
}

// Save upserts the project record, preserving CreatedAt across saves.
func (r *ProjectRepository) Save(ctx context.Context, record *ports.ProjectRecord) error {
	diagram, err := record.Snapshot.Encode()
	if err != nil {
		return apperrors.NewInternalError("failed to encode diagram").WithCause(err)
	}

	now := utils.NowRFC3339()
	createdAt := record.CreatedAt
	if createdAt == "" {
		if existing, err := r.Get(ctx, record.UserID, record.ProjectID); err == nil {
			createdAt = existing.CreatedAt
		} else {
			createdAt = now
		}
	}

	item := projectItem{
		PK:         projectPK(record.UserID),
		SK:         projectSK(record.ProjectID),
		EntityType: "PROJECT",
		ProjectID:  record.ProjectID,
		UserID:     record.UserID,
		Name:       record.Name,
		Diagram:    string(diagram),
		Deployment: record.Deployment,
		CreatedAt:  createdAt,
		UpdatedAt:  now,
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return apperrors.NewInternalError("failed to marshal project").WithCause(err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}

	if _, err := r.client.PutItem(ctx, input); err != nil {
		r.logger.Error("Failed to save project to DynamoDB",
			zap.Error(err),
			zap.String("projectID", record.ProjectID),
			zap.String("userID", record.UserID),
		)
		return apperrors.NewDatabaseError("save project", err)
	}

	r.logger.Debug("Saved project to DynamoDB",
		zap.String("projectID", record.ProjectID),
		zap.String("userID", record.UserID),
	)

	return nil
}

// Get retrieves a single project record
func (r *ProjectRepository) Get(ctx context.Context, userID, projectID string) (*ports.ProjectRecord, error) {
	input := &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: projectPK(userID)},
			"SK": &types.AttributeValueMemberS{Value: projectSK(projectID)},
		},
	}

	result, err := r.client.GetItem(ctx, input)
	if err != nil {
		return nil, apperrors.NewDatabaseError("get project", err)
	}
	if result.Item == nil {
		return nil, apperrors.NewNotFoundError("project")
	}

	var item projectItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, apperrors.NewInternalError("failed to unmarshal project").WithCause(err)
	}

	return item.toRecord()
}

// List returns the user's projects, most recently updated first
func (r *ProjectRepository) List(ctx context.Context, userID string) ([]*ports.ProjectRecord, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(projectPK(userID))).
		And(expression.Key("SK").BeginsWith("PROJECT#"))

	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query expression").WithCause(err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}

	records := make([]*ports.ProjectRecord, 0)
	paginator := dynamodb.NewQueryPaginator(r.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, apperrors.NewDatabaseError("list projects", err)
		}
		for _, raw := range page.Items {
			var item projectItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				r.logger.Warn("Skipping unreadable project item", zap.Error(err))
				continue
			}
			record, err := item.toRecord()
			if err != nil {
				r.logger.Warn("Skipping project with corrupt diagram",
					zap.String("projectID", item.ProjectID),
					zap.Error(err),
				)
				continue
			}
			records = append(records, record)
		}
	}

	sortByUpdatedAtDesc(records)
	return records, nil
}

// Delete removes the project; deleting a missing project is not an error
func (r *ProjectRepository) Delete(ctx context.Context, userID, projectID string) error {
	input := &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: projectPK(userID)},
			"SK": &types.AttributeValueMemberS{Value: projectSK(projectID)},
		},
	}

	if _, err := r.client.DeleteItem(ctx, input); err != nil {
		return apperrors.NewDatabaseError("delete project", err)
	}

	r.logger.Info("Deleted project",
		zap.String("projectID", projectID),
		zap.String("userID", userID),
	)
	return nil
}

// SaveDeployment attaches deployment metadata to an existing project row
func (r *ProjectRepository) SaveDeployment(ctx context.Context, userID, projectID string, deployment map[string]interface{}) error {
	update := expression.Set(expression.Name("Deployment"), expression.Value(deployment)).
		Set(expression.Name("UpdatedAt"), expression.Value(utils.NowRFC3339()))

	expr, err := expression.NewBuilder().WithUpdate(update).Build()
	if err != nil {
		return apperrors.NewInternalError("failed to build update expression").WithCause(err)
	}

	input := &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: projectPK(userID)},
			"SK": &types.AttributeValueMemberS{Value: projectSK(projectID)},
		},
		UpdateExpression:          expr.Update(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}

	if _, err := r.client.UpdateItem(ctx, input); err != nil {
		return apperrors.NewDatabaseError("save deployment", err)
	}

	return nil
}

func (i projectItem) toRecord() (*ports.ProjectRecord, error) {
	record := &ports.ProjectRecord{
		ProjectID:  i.ProjectID,
		UserID:     i.UserID,
		Name:       i.Name,
		Deployment: i.Deployment,
		CreatedAt:  i.CreatedAt,
		UpdatedAt:  i.UpdatedAt,
	}
	if i.Diagram != "" {
		snap, err := project.DecodeSnapshot([]byte(i.Diagram))
		if err != nil {
			return nil, err
		}
		record.Snapshot = snap
	}
	return record, nil
}

func sortByUpdatedAtDesc(records []*ports.ProjectRecord) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].UpdatedAt > records[j].UpdatedAt
	})
}
