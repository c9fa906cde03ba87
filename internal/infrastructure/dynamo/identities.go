package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/campus-explorer-api/internal/domain"
)

// IdentityRepo persists identity-provider accounts. PK: identity_id; GSI: email-index.
type IdentityRepo struct {
	client    API
	tableName string
}

func NewIdentityRepo(client API, tableName string) *IdentityRepo {
	return &IdentityRepo{client: client, tableName: tableName}
}

// Create writes a new identity. Callers check email uniqueness through GetByEmail first.
func (r *IdentityRepo) Create(ctx context.Context, identity *domain.Identity) error {
	item, err := attributevalue.MarshalMap(identity)
	if err != nil {
		return fmt.Errorf("marshal identity: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(identity_id)"),
	})
	if isConditionFailed(err) {
		return fmt.Errorf("identity %s exists: %w", identity.ID, domain.ErrConflict)
	}
	return err
}

func (r *IdentityRepo) Get(ctx context.Context, identityID string) (*domain.Identity, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("identity_id", identityID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("identity not found: %w", domain.ErrNotFound)
	}
	var identity domain.Identity
	if err := attributevalue.UnmarshalMap(out.Item, &identity); err != nil {
		return nil, err
	}
	return &identity, nil
}

func (r *IdentityRepo) GetByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(indexEmail),
		KeyConditionExpression: aws.String("email = :email"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":email": &types.AttributeValueMemberS{Value: email},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("identity not found: %w", domain.ErrNotFound)
	}
	var identity domain.Identity
	if err := attributevalue.UnmarshalMap(out.Items[0], &identity); err != nil {
		return nil, err
	}
	return &identity, nil
}

func (r *IdentityRepo) Update(ctx context.Context, identityID string, updates map[string]interface{}) error {
	return updateItem(ctx, r.client, r.tableName, strKey("identity_id", identityID), updates)
}

// SetPassword replaces the stored bcrypt hash.
func (r *IdentityRepo) SetPassword(ctx context.Context, identityID, hash string, now time.Time) error {
	return r.Update(ctx, identityID, map[string]interface{}{
		fieldPasswordHash: hash,
		fieldUpdatedAt:    now,
	})
}

// MarkConfirmed flags the identity's email as confirmed.
func (r *IdentityRepo) MarkConfirmed(ctx context.Context, identityID string, now time.Time) error {
	return r.Update(ctx, identityID, map[string]interface{}{
		fieldEmailConfirmed: true,
		fieldUpdatedAt:      now,
	})
}

func (r *IdentityRepo) Delete(ctx context.Context, identityID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("identity_id", identityID),
	})
	return err
}
