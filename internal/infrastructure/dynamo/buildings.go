package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/campus-explorer-api/internal/domain"
)

// BuildingRepo persists campus buildings. PK: building_id; GSI: university_id-index.
type BuildingRepo struct {
	client    API
	tableName string
}

func NewBuildingRepo(client API, tableName string) *BuildingRepo {
	return &BuildingRepo{client: client, tableName: tableName}
}

func (r *BuildingRepo) Put(ctx context.Context, b *domain.Building) error {
	item, err := attributevalue.MarshalMap(b)
	if err != nil {
		return fmt.Errorf("marshal building: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// PutAdminBuilding writes b and unmarks every building in demote in one transaction, so a
// university never ends up with two admin buildings. If one of demote has been deleted
// meanwhile nothing is written and ErrConflict is returned.
func (r *BuildingRepo) PutAdminBuilding(ctx context.Context, b *domain.Building, demote []string) error {
	item, err := attributevalue.MarshalMap(b)
	if err != nil {
		return fmt.Errorf("marshal building: %w", err)
	}
	items := []types.TransactWriteItem{{Put: &types.Put{TableName: aws.String(r.tableName), Item: item}}}
	demotions, err := r.demotions(demote)
	if err != nil {
		return err
	}
	return transactWrite(ctx, r.client, append(items, demotions...))
}

// UpdateAdminBuilding applies updates to buildingID and unmarks demote atomically.
func (r *BuildingRepo) UpdateAdminBuilding(ctx context.Context, buildingID string, updates map[string]interface{}, demote []string) error {
	u, err := conditionalUpdate(r.tableName, strKey(fieldBuildingID, buildingID), updates)
	if err != nil {
		return err
	}
	demotions, err := r.demotions(demote)
	if err != nil {
		return err
	}
	return transactWrite(ctx, r.client, append([]types.TransactWriteItem{{Update: u}}, demotions...))
}

func (r *BuildingRepo) demotions(ids []string) ([]types.TransactWriteItem, error) {
	items := make([]types.TransactWriteItem, 0, len(ids))
	for _, id := range ids {
		u, err := conditionalUpdate(r.tableName, strKey(fieldBuildingID, id), map[string]interface{}{fieldIsAdminBuilding: false})
		if err != nil {
			return nil, err
		}
		items = append(items, types.TransactWriteItem{Update: u})
	}
	return items, nil
}

func (r *BuildingRepo) Get(ctx context.Context, buildingID string) (*domain.Building, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey(fieldBuildingID, buildingID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("building not found: %w", domain.ErrNotFound)
	}
	var b domain.Building
	if err := attributevalue.UnmarshalMap(out.Item, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BuildingRepo) Update(ctx context.Context, buildingID string, updates map[string]interface{}) error {
	return updateItem(ctx, r.client, r.tableName, strKey(fieldBuildingID, buildingID), updates)
}

func (r *BuildingRepo) ListByUniversity(ctx context.Context, universityID string) ([]domain.Building, error) {
	return queryByIndex[domain.Building](ctx, r.client, r.tableName, indexUniversity, fieldUniversityID, universityID)
}

// List returns every building across universities. Used by the unscoped search.
func (r *BuildingRepo) List(ctx context.Context) ([]domain.Building, error) {
	return scanAll[domain.Building](ctx, r.client, r.tableName)
}

func (r *BuildingRepo) Delete(ctx context.Context, buildingID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey(fieldBuildingID, buildingID),
	})
	return err
}

func (r *BuildingRepo) Count(ctx context.Context) (int, error) {
	return countItems(ctx, r.client, r.tableName)
}
