package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"marketplace_api/internal/domain/entities"
	"marketplace_api/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const notificationsUserIDIndex = "user_id-index"

const (
	defaultNotificationListLimit = 50
	maxNotificationListLimit     = 200
)

type notificationItem struct {
	ID        string `dynamodbav:"id"`
	UserID    string `dynamodbav:"user_id"`
	Title     string `dynamodbav:"title"`
	Message   string `dynamodbav:"message"`
	Type      string `dynamodbav:"type"`
	IsRead    bool   `dynamodbav:"is_read"`
	RelatedID string `dynamodbav:"related_id,omitempty"`
	Data      string `dynamodbav:"data,omitempty"`
	CreatedAt string `dynamodbav:"created_at"`
}

// NotificationDynamoRepository persists Notification entities in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//   - GSI: user_id-index (PK: user_id, SK: created_at)
//
// Data is stored as a JSON string; the backend never queries inside it.
type NotificationDynamoRepository struct {
	ddb       DynamoDBAPI
	tableName string
}

var _ interfaces.INotificationRepository = (*NotificationDynamoRepository)(nil)

func NewNotificationDynamoRepository(ddb DynamoDBAPI, tableName string) *NotificationDynamoRepository {
	return &NotificationDynamoRepository{ddb: ddb, tableName: tableName}
}

func (r *NotificationDynamoRepository) Create(ctx context.Context, n entities.Notification) (entities.Notification, error) {
	it, err := toNotificationItem(n)
	if err != nil {
		return entities.Notification{}, err
	}
	av, err := attributevalue.MarshalMap(it)
	if err != nil {
		return entities.Notification{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return entities.Notification{}, interfaces.ErrDuplicateKey
		}
		return entities.Notification{}, err
	}
	return n, nil
}

func (r *NotificationDynamoRepository) ListByUserID(ctx context.Context, userID string, filter entities.NotificationListFilter) ([]entities.Notification, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultNotificationListLimit
	}
	if limit > maxNotificationListLimit {
		limit = maxNotificationListLimit
	}
	skip := filter.Skip
	if skip < 0 {
		skip = 0
	}

	in := r.userQuery(userID, filter.UnreadOnly)
	in.ScanIndexForward = aws.Bool(false)

	items := make([]entities.Notification, 0)
	seen := 0
	p := dynamodb.NewQueryPaginator(r.ddb, in)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("query %s: %w", notificationsUserIDIndex, err)
		}
		for _, raw := range page.Items {
			seen++
			if seen <= skip {
				continue
			}
			n, err := unmarshalNotification(raw)
			if err != nil {
				return nil, err
			}
			items = append(items, n)
			if len(items) >= limit {
				return items, nil
			}
		}
	}
	return items, nil
}

func (r *NotificationDynamoRepository) CountUnreadByUserID(ctx context.Context, userID string) (int, error) {
	in := r.userQuery(userID, true)
	in.Select = types.SelectCount

	total := 0
	p := dynamodb.NewQueryPaginator(r.ddb, in)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return 0, fmt.Errorf("count %s: %w", notificationsUserIDIndex, err)
		}
		total += int(page.Count)
	}
	return total, nil
}

// MarkAsRead returns a zero Notification when id does not exist or belongs
// to another user.
func (r *NotificationDynamoRepository) MarkAsRead(ctx context.Context, id, userID string) (entities.Notification, error) {
	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 stringKey(id),
		ConditionExpression: aws.String("attribute_exists(#id) AND #user_id = :user_id"),
		UpdateExpression:    aws.String("SET #is_read = :true"),
		ExpressionAttributeNames: map[string]string{
			"#id":      "id",
			"#user_id": "user_id",
			"#is_read": "is_read",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":user_id": &types.AttributeValueMemberS{Value: userID},
			":true":    &types.AttributeValueMemberBOOL{Value: true},
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return entities.Notification{}, nil
		}
		return entities.Notification{}, err
	}
	if len(out.Attributes) == 0 {
		return entities.Notification{}, nil
	}
	return unmarshalNotification(out.Attributes)
}

// MarkAllAsRead flips every unread notification of userID and returns how
// many were changed.
func (r *NotificationDynamoRepository) MarkAllAsRead(ctx context.Context, userID string) (int, error) {
	in := r.userQuery(userID, true)
	in.ProjectionExpression = aws.String("#id")
	in.ExpressionAttributeNames = mergeNames(in.ExpressionAttributeNames, map[string]string{"#id": "id"})

	updated := 0
	p := dynamodb.NewQueryPaginator(r.ddb, in)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return updated, fmt.Errorf("query %s: %w", notificationsUserIDIndex, err)
		}
		for _, raw := range page.Items {
			var it struct {
				ID string `dynamodbav:"id"`
			}
			if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
				return updated, err
			}
			n, err := r.MarkAsRead(ctx, it.ID, userID)
			if err != nil {
				return updated, err
			}
			if n.ID != "" {
				updated++
			}
		}
	}
	return updated, nil
}

func (r *NotificationDynamoRepository) userQuery(userID string, unreadOnly bool) *dynamodb.QueryInput {
	in := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(notificationsUserIDIndex),
		KeyConditionExpression: aws.String("#user_id = :user_id"),
		ExpressionAttributeNames: map[string]string{
			"#user_id": "user_id",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":user_id": &types.AttributeValueMemberS{Value: userID},
		},
	}
	if unreadOnly {
		in.FilterExpression = aws.String("#is_read = :false")
		in.ExpressionAttributeNames["#is_read"] = "is_read"
		in.ExpressionAttributeValues[":false"] = &types.AttributeValueMemberBOOL{Value: false}
	}
	return in
}

func unmarshalNotification(raw map[string]types.AttributeValue) (entities.Notification, error) {
	var it notificationItem
	if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
		return entities.Notification{}, err
	}
	return fromNotificationItem(it), nil
}

func toNotificationItem(n entities.Notification) (notificationItem, error) {
	it := notificationItem{
		ID:        n.ID,
		UserID:    n.UserID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      string(n.Type),
		IsRead:    n.IsRead,
		RelatedID: n.RelatedID,
		CreatedAt: formatTime(n.CreatedAt),
	}
	if len(n.Data) > 0 {
		b, err := json.Marshal(n.Data)
		if err != nil {
			return notificationItem{}, err
		}
		it.Data = string(b)
	}
	return it, nil
}

func fromNotificationItem(it notificationItem) entities.Notification {
	n := entities.Notification{
		ID:        it.ID,
		UserID:    it.UserID,
		Title:     it.Title,
		Message:   it.Message,
		Type:      entities.NotificationType(it.Type),
		IsRead:    it.IsRead,
		RelatedID: it.RelatedID,
		CreatedAt: parseTime(it.CreatedAt),
	}
	if it.Data != "" {
		_ = json.Unmarshal([]byte(it.Data), &n.Data)
	}
	return n
}
