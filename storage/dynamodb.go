package storage

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/textbin/textbin/models"
)

// expiryFilterExpr matches pastes past their deadline or at/over their view
// quota. Shared by DeleteExpired and CountActive (negated).
const expiryFilterExpr = "(attribute_exists(expires_at) AND expires_at <= :now) OR (attribute_exists(max_views) AND view_count >= max_views)"

// DynamoStore implements PasteStore using DynamoDB
type DynamoStore struct {
	client    *dynamodb.Client
	tableName string
}

// NewDynamoStore creates a new DynamoDB storage backend
func NewDynamoStore(tableName, region string) (*DynamoStore, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(region),
	)
	if err != nil {
		return nil, err
	}

	client := dynamodb.NewFromConfig(cfg)

	return &DynamoStore{
		client:    client,
		tableName: tableName,
	}, nil
}

// Insert saves a new paste. The conditional put is the authoritative
// backstop for ID collisions.
func (d *DynamoStore) Insert(paste *models.Paste) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	now := time.Now()
	createdAt := paste.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}

	item := map[string]types.AttributeValue{
		"id":              &types.AttributeValueMemberS{Value: paste.ID},
		"content":         &types.AttributeValueMemberS{Value: paste.Content},
		"title":           &types.AttributeValueMemberS{Value: paste.Title},
		"syntax":          &types.AttributeValueMemberS{Value: paste.Syntax},
		"expiration_type": &types.AttributeValueMemberS{Value: paste.ExpirationType},
		"view_count":      &types.AttributeValueMemberN{Value: strconv.Itoa(paste.ViewCount)},
		"created_at":      &types.AttributeValueMemberN{Value: strconv.FormatInt(createdAt.Unix(), 10)},
		"updated_at":      &types.AttributeValueMemberN{Value: strconv.FormatInt(now.Unix(), 10)},
	}

	if paste.ExpiresAt != nil {
		item["expires_at"] = &types.AttributeValueMemberN{Value: strconv.FormatInt(paste.ExpiresAt.Unix(), 10)}
	}
	if paste.MaxViews != nil {
		item["max_views"] = &types.AttributeValueMemberN{Value: strconv.Itoa(*paste.MaxViews)}
	}

	_, err := d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(d.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	var conditionFailed *types.ConditionalCheckFailedException
	if errors.As(err, &conditionFailed) {
		return ErrDuplicateID
	}
	return err
}

// Get retrieves a paste by its ID. Expired pastes are returned as-is; the
// service layer decides whether access is denied.
func (d *DynamoStore) Get(id string) (*models.Paste, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(d.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, err
	}

	if result.Item == nil {
		return nil, nil // Not found
	}

	return itemToPaste(result.Item), nil
}

// IncrementViewCount atomically increments the view count via an ADD update
// and returns the post-increment count
func (d *DynamoStore) IncrementViewCount(id string) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := d.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(d.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		UpdateExpression:    aws.String("ADD view_count :inc SET updated_at = :now"),
		ConditionExpression: aws.String("attribute_exists(id)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":inc": &types.AttributeValueMemberN{Value: "1"},
			":now": &types.AttributeValueMemberN{Value: strconv.FormatInt(time.Now().Unix(), 10)},
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	var conditionFailed *types.ConditionalCheckFailedException
	if errors.As(err, &conditionFailed) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}

	if count, ok := result.Attributes["view_count"].(*types.AttributeValueMemberN); ok {
		if n, err := strconv.Atoi(count.Value); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("view_count missing from update result")
}

// Delete removes a paste and reports whether it was present
func (d *DynamoStore) Delete(id string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := d.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(d.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return false, err
	}
	return len(result.Attributes) > 0, nil
}

// DeleteExpired scans for pastes matching the expiry predicate and removes
// them one by one
func (d *DynamoStore) DeleteExpired(now time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	nowAttr := &types.AttributeValueMemberN{Value: strconv.FormatInt(now.Unix(), 10)}
	var removed int64
	var startKey map[string]types.AttributeValue

	for {
		out, err := d.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:        aws.String(d.tableName),
			FilterExpression: aws.String(expiryFilterExpr),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":now": nowAttr,
			},
			ProjectionExpression: aws.String("id"),
			ExclusiveStartKey:    startKey,
		})
		if err != nil {
			return removed, err
		}

		for _, item := range out.Items {
			id, ok := item["id"].(*types.AttributeValueMemberS)
			if !ok {
				continue
			}
			deleted, err := d.Delete(id.Value)
			if err != nil {
				return removed, err
			}
			if deleted {
				removed++
			}
		}

		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}

	return removed, nil
}

// Count returns the total number of stored pastes
func (d *DynamoStore) Count() (int64, error) {
	return d.scanCount(nil)
}

// CountActive returns the number of pastes not matching the expiry predicate
func (d *DynamoStore) CountActive(now time.Time) (int64, error) {
	filter := "NOT (" + expiryFilterExpr + ")"
	return d.scanCount(&scanFilter{
		expression: filter,
		values: map[string]types.AttributeValue{
			":now": &types.AttributeValueMemberN{Value: strconv.FormatInt(now.Unix(), 10)},
		},
	})
}

type scanFilter struct {
	expression string
	values     map[string]types.AttributeValue
}

func (d *DynamoStore) scanCount(filter *scanFilter) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	var total int64
	var startKey map[string]types.AttributeValue

	for {
		input := &dynamodb.ScanInput{
			TableName:         aws.String(d.tableName),
			Select:            types.SelectCount,
			ExclusiveStartKey: startKey,
		}
		if filter != nil {
			input.FilterExpression = aws.String(filter.expression)
			input.ExpressionAttributeValues = filter.values
		}

		out, err := d.client.Scan(ctx, input)
		if err != nil {
			return total, err
		}
		total += int64(out.Count)

		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}

	return total, nil
}

// Close is a no-op for DynamoDB
func (d *DynamoStore) Close() error {
	return nil
}

// itemToPaste converts a DynamoDB item to a Paste model
func itemToPaste(item map[string]types.AttributeValue) *models.Paste {
	paste := &models.Paste{}

	if id, ok := item["id"].(*types.AttributeValueMemberS); ok {
		paste.ID = id.Value
	}
	if content, ok := item["content"].(*types.AttributeValueMemberS); ok {
		paste.Content = content.Value
	}
	if title, ok := item["title"].(*types.AttributeValueMemberS); ok {
		paste.Title = title.Value
	}
	if syntax, ok := item["syntax"].(*types.AttributeValueMemberS); ok {
		paste.Syntax = syntax.Value
	}
	if expirationType, ok := item["expiration_type"].(*types.AttributeValueMemberS); ok {
		paste.ExpirationType = expirationType.Value
	}
	if expiresAt, ok := item["expires_at"].(*types.AttributeValueMemberN); ok {
		if timestamp, err := strconv.ParseInt(expiresAt.Value, 10, 64); err == nil {
			expiry := time.Unix(timestamp, 0)
			paste.ExpiresAt = &expiry
		}
	}
	if maxViews, ok := item["max_views"].(*types.AttributeValueMemberN); ok {
		if views, err := strconv.Atoi(maxViews.Value); err == nil {
			paste.MaxViews = &views
		}
	}
	if viewCount, ok := item["view_count"].(*types.AttributeValueMemberN); ok {
		if count, err := strconv.Atoi(viewCount.Value); err == nil {
			paste.ViewCount = count
		}
	}
	if createdAt, ok := item["created_at"].(*types.AttributeValueMemberN); ok {
		if timestamp, err := strconv.ParseInt(createdAt.Value, 10, 64); err == nil {
			paste.CreatedAt = time.Unix(timestamp, 0)
		}
	}
	if updatedAt, ok := item["updated_at"].(*types.AttributeValueMemberN); ok {
		if timestamp, err := strconv.ParseInt(updatedAt.Value, 10, 64); err == nil {
			paste.UpdatedAt = time.Unix(timestamp, 0)
		}
	}

	return paste
}
