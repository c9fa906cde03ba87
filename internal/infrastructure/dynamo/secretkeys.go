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

// keyRetention keeps used and expired keys around for auditing before DynamoDB purges them.
const keyRetention = 24 * time.Hour

// SecretKeyRepo stores super-admin one-time keys. PK: key_id; GSI: secret_key-index.
type SecretKeyRepo struct {
	client    API
	tableName string
}

func NewSecretKeyRepo(client API, tableName string) *SecretKeyRepo {
	return &SecretKeyRepo{client: client, tableName: tableName}
}

func (r *SecretKeyRepo) Insert(ctx context.Context, key *domain.OneTimeKey) error {
	if key.TTL == 0 {
		key.TTL = key.ExpiresAt.Add(keyRetention).Unix()
	}
	item, err := attributevalue.MarshalMap(key)
	if err != nil {
		return fmt.Errorf("marshal secret key: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(key_id)"),
	})
	if isConditionFailed(err) {
		return fmt.Errorf("secret key %s exists: %w", key.ID, domain.ErrConflict)
	}
	return err
}

func (r *SecretKeyRepo) Get(ctx context.Context, keyID string) (*domain.OneTimeKey, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            strKey("key_id", keyID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("secret key not found: %w", domain.ErrNotFound)
	}
	var key domain.OneTimeKey
	if err := attributevalue.UnmarshalMap(out.Item, &key); err != nil {
		return nil, err
	}
	return &key, nil
}

// FindValid returns the unused key matching secret. When several unused rows share the code,
// the one expiring last wins. Expiry itself is judged by the caller.
func (r *SecretKeyRepo) FindValid(ctx context.Context, secret string) (*domain.OneTimeKey, error) {
	var (
		best  *domain.OneTimeKey
		start map[string]types.AttributeValue
	)
	for {
		out, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(r.tableName),
			IndexName:              aws.String(indexSecretKey),
			KeyConditionExpression: aws.String("secret_key = :secret"),
			FilterExpression:       aws.String("#used = :false"),
			ExpressionAttributeNames: map[string]string{
				"#used": fieldUsed,
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":secret": &types.AttributeValueMemberS{Value: secret},
				":false":  &types.AttributeValueMemberBOOL{Value: false},
			},
			ExclusiveStartKey: start,
		})
		if err != nil {
			return nil, err
		}
		var page []domain.OneTimeKey
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, err
		}
		for i := range page {
			if best == nil || page[i].ExpiresAt.After(best.ExpiresAt) {
				k := page[i]
				best = &k
			}
		}
		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		start = out.LastEvaluatedKey
	}
	if best == nil {
		return nil, fmt.Errorf("secret key not found: %w", domain.ErrNotFound)
	}
	return best, nil
}

// MarkUsed flips used to true only if it is still false. Losing that race yields ErrConflict.
func (r *SecretKeyRepo) MarkUsed(ctx context.Context, keyID string, at time.Time) error {
	usedAt, err := attributevalue.Marshal(at)
	if err != nil {
		return fmt.Errorf("marshal used_at: %w", err)
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 strKey("key_id", keyID),
		UpdateExpression:    aws.String("SET #used = :true, #used_at = :at"),
		ConditionExpression: aws.String("attribute_exists(key_id) AND #used = :false"),
		ExpressionAttributeNames: map[string]string{
			"#used":    fieldUsed,
			"#used_at": fieldUsedAt,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":true":  &types.AttributeValueMemberBOOL{Value: true},
			":false": &types.AttributeValueMemberBOOL{Value: false},
			":at":    usedAt,
		},
	})
	if isConditionFailed(err) {
		return fmt.Errorf("secret key %s already used: %w", keyID, domain.ErrConflict)
	}
	return err
}
