package dynamo

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/campus-explorer-api/internal/domain"
)

// AdminRepo is the admin directory. PK: admin_id (the identity id);
// GSIs: role-index, university_id-index.
type AdminRepo struct {
	client       API
	tableName    string
	universities *UniversityRepo
}

func NewAdminRepo(client API, tableName string, universities *UniversityRepo) *AdminRepo {
	return &AdminRepo{client: client, tableName: tableName, universities: universities}
}

// CreateAdmin writes a new directory entry. An existing entry for the same id is a conflict.
func (r *AdminRepo) CreateAdmin(ctx context.Context, row *domain.AdminRow) error {
	item, err := attributevalue.MarshalMap(row)
	if err != nil {
		return fmt.Errorf("marshal admin: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(admin_id)"),
	})
	if isConditionFailed(err) {
		return fmt.Errorf("admin %s exists: %w", row.AdminID, domain.ErrConflict)
	}
	return err
}

// GetAdminByID loads the row and, for regular admins, joins its university before decoding.
func (r *AdminRepo) GetAdminByID(ctx context.Context, adminID string) (domain.AdminRecord, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("admin_id", adminID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("admin not found: %w", domain.ErrNotFound)
	}
	var row domain.AdminRow
	if err := attributevalue.UnmarshalMap(out.Item, &row); err != nil {
		return nil, fmt.Errorf("decode admin %s: %w", adminID, domain.ErrCorruptRecord)
	}

	var university *domain.University
	if !row.IsSuperAdmin && row.UniversityID != "" {
		university, err = r.universities.Get(ctx, row.UniversityID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}
	return domain.DecodeAdmin(row, university)
}

// GetSuperAdminRecord returns the single super-admin entry. Zero or several entries are both
// reported as ErrNotFound.
func (r *AdminRepo) GetSuperAdminRecord(ctx context.Context) (domain.SuperAdminRecord, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(indexRole),
		KeyConditionExpression: aws.String("#role = :role"),
		ExpressionAttributeNames: map[string]string{
			"#role": fieldRole,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":role": &types.AttributeValueMemberS{Value: domain.RoleSuperAdmin},
		},
		Limit: aws.Int32(2),
	})
	if err != nil {
		return domain.SuperAdminRecord{}, err
	}
	if len(out.Items) != 1 {
		return domain.SuperAdminRecord{}, fmt.Errorf("expected one super admin, found %d: %w", len(out.Items), domain.ErrNotFound)
	}
	var row domain.AdminRow
	if err := attributevalue.UnmarshalMap(out.Items[0], &row); err != nil {
		return domain.SuperAdminRecord{}, fmt.Errorf("decode super admin: %w", domain.ErrCorruptRecord)
	}
	rec, err := domain.DecodeAdmin(row, nil)
	if err != nil {
		return domain.SuperAdminRecord{}, err
	}
	super, ok := rec.(domain.SuperAdminRecord)
	if !ok {
		return domain.SuperAdminRecord{}, fmt.Errorf("role-index row %s is not a super admin: %w", row.AdminID, domain.ErrCorruptRecord)
	}
	return super, nil
}

// ListByUniversity returns the raw rows bound to a university.
func (r *AdminRepo) ListByUniversity(ctx context.Context, universityID string) ([]domain.AdminRow, error) {
	return queryByIndex[domain.AdminRow](ctx, r.client, r.tableName, indexUniversity, fieldUniversityID, universityID)
}

// List returns every directory row.
func (r *AdminRepo) List(ctx context.Context) ([]domain.AdminRow, error) {
	return scanAll[domain.AdminRow](ctx, r.client, r.tableName)
}

func (r *AdminRepo) Delete(ctx context.Context, adminID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("admin_id", adminID),
	})
	return err
}

func (r *AdminRepo) Count(ctx context.Context) (int, error) {
	return countItems(ctx, r.client, r.tableName)
}
