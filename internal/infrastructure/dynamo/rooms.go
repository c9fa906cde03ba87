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

// RoomRepo persists rooms. PK: room_id; GSIs: building_id-index, university_id-index.
type RoomRepo struct {
	client    API
	tableName string
}

func NewRoomRepo(client API, tableName string) *RoomRepo {
	return &RoomRepo{client: client, tableName: tableName}
}

func (r *RoomRepo) Put(ctx context.Context, room *domain.Room) error {
	item, err := attributevalue.MarshalMap(room)
	if err != nil {
		return fmt.Errorf("marshal room: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// PutBatch writes rooms with BatchWriteItem. It is not atomic: on error some rooms may have
// been written.
func (r *RoomRepo) PutBatch(ctx context.Context, rooms []domain.Room) error {
	items := make([]map[string]types.AttributeValue, 0, len(rooms))
	for i := range rooms {
		item, err := attributevalue.MarshalMap(&rooms[i])
		if err != nil {
			return fmt.Errorf("marshal room %s: %w", rooms[i].RoomNumber, err)
		}
		items = append(items, item)
	}
	return batchPut(ctx, r.client, r.tableName, items)
}

func (r *RoomRepo) Get(ctx context.Context, roomID string) (*domain.Room, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey(fieldRoomID, roomID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("room not found: %w", domain.ErrNotFound)
	}
	var room domain.Room
	if err := attributevalue.UnmarshalMap(out.Item, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *RoomRepo) Update(ctx context.Context, roomID string, updates map[string]interface{}) error {
	return updateItem(ctx, r.client, r.tableName, strKey(fieldRoomID, roomID), updates)
}

func (r *RoomRepo) ListByBuilding(ctx context.Context, buildingID string) ([]domain.Room, error) {
	return queryByIndex[domain.Room](ctx, r.client, r.tableName, indexBuilding, fieldBuildingID, buildingID)
}

func (r *RoomRepo) ListByUniversity(ctx context.Context, universityID string) ([]domain.Room, error) {
	return queryByIndex[domain.Room](ctx, r.client, r.tableName, indexUniversity, fieldUniversityID, universityID)
}

// List returns every room across universities. Used by the unscoped search.
func (r *RoomRepo) List(ctx context.Context) ([]domain.Room, error) {
	return scanAll[domain.Room](ctx, r.client, r.tableName)
}

func (r *RoomRepo) Delete(ctx context.Context, roomID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey(fieldRoomID, roomID),
	})
	return err
}

func (r *RoomRepo) Count(ctx context.Context) (int, error) {
	return countItems(ctx, r.client, r.tableName)
}
