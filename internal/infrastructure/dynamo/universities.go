package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/campus-explorer-api/internal/domain"
)

// UniversityRepo persists universities. PK: university_id.
type UniversityRepo struct {
	client    API
	tableName string
}

func NewUniversityRepo(client API, tableName string) *UniversityRepo {
	return &UniversityRepo{client: client, tableName: tableName}
}

func (r *UniversityRepo) Put(ctx context.Context, u *domain.University) error {
	item, err := attributevalue.MarshalMap(u)
	if err != nil {
		return fmt.Errorf("marshal university: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *UniversityRepo) Get(ctx context.Context, universityID string) (*domain.University, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey(fieldUniversityID, universityID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("university not found: %w", domain.ErrNotFound)
	}
	var u domain.University
	if err := attributevalue.UnmarshalMap(out.Item, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// List returns every university. The table is small (one row per registered campus).
func (r *UniversityRepo) List(ctx context.Context) ([]domain.University, error) {
	return scanAll[domain.University](ctx, r.client, r.tableName)
}

// Update applies a partial update; a missing university is ErrNotFound.
func (r *UniversityRepo) Update(ctx context.Context, universityID string, updates map[string]interface{}) error {
	return updateItem(ctx, r.client, r.tableName, strKey(fieldUniversityID, universityID), updates)
}

func (r *UniversityRepo) Delete(ctx context.Context, universityID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey(fieldUniversityID, universityID),
	})
	return err
}

func (r *UniversityRepo) Count(ctx context.Context) (int, error) {
	return countItems(ctx, r.client, r.tableName)
}
