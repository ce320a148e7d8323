package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"marketplace_api/internal/domain/entities"
	"marketplace_api/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"
)

const (
	paymentsServiceIDIndex      = "service_id-index"
	paymentsClientIDIndex       = "client_id-index"
	paymentsProfessionalIDIndex = "professional_id-index"
	paymentsTransactionIDIndex  = "transaction_id-index"

	guardKeyPrefix = "guard#"
)

// guardItem claims a unique value for the payment named by PaymentID.
type guardItem struct {
	ID        string `dynamodbav:"id"`
	PaymentID string `dynamodbav:"payment_id"`
}

type guardClaim struct {
	key string
	err error
}

func transactionGuard(transactionID string) guardClaim {
	return guardClaim{key: guardKeyPrefix + "tx#" + transactionID, err: interfaces.ErrTransactionIDConflict}
}

func servicePaidGuard(serviceID string) guardClaim {
	return guardClaim{key: guardKeyPrefix + "paid#" + serviceID, err: interfaces.ErrServiceAlreadyPaid}
}

type paymentItem struct {
	ID             string `dynamodbav:"id"`
	ServiceID      string `dynamodbav:"service_id"`
	ClientID       string `dynamodbav:"client_id"`
	ProfessionalID string `dynamodbav:"professional_id"`
	Amount         string `dynamodbav:"amount"`
	Method         string `dynamodbav:"method"`
	Status         string `dynamodbav:"status"`
	TransactionID  string `dynamodbav:"transaction_id,omitempty"`
	PixQRCode      string `dynamodbav:"pix_qr_code,omitempty"`
	PixCopyPaste   string `dynamodbav:"pix_copy_paste,omitempty"`
	PaidAt         string `dynamodbav:"paid_at,omitempty"`
	CreatedAt      string `dynamodbav:"created_at"`
	UpdatedAt      string `dynamodbav:"updated_at"`
}

// PaymentDynamoRepository persists Payment entities in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//   - GSI: service_id-index (PK: service_id)
//   - GSI: client_id-index (PK: client_id, SK: created_at)
//   - GSI: professional_id-index (PK: professional_id, SK: created_at)
//   - GSI: transaction_id-index (PK: transaction_id)
//
// transaction_id is omitted until assigned so the sparse index only holds
// payments that can be correlated with the processor.
//
// Uniqueness is kept by guard items in the same table, keyed under
// "guard#" and written in the same transaction as the payment: one per
// transaction id and one per service whose payment completed.
type PaymentDynamoRepository struct {
	ddb       DynamoDBAPI
	tableName string
}

var _ interfaces.IPaymentRepository = (*PaymentDynamoRepository)(nil)

func NewPaymentDynamoRepository(ddb DynamoDBAPI, tableName string) *PaymentDynamoRepository {
	return &PaymentDynamoRepository{ddb: ddb, tableName: tableName}
}

func (r *PaymentDynamoRepository) Create(ctx context.Context, p entities.Payment) (entities.Payment, error) {
	av, err := attributevalue.MarshalMap(toPaymentItem(p))
	if err != nil {
		return entities.Payment{}, err
	}
	cond := aws.String("attribute_not_exists(#id)")
	names := map[string]string{"#id": "id"}

	if p.TransactionID == "" {
		_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
			TableName:                aws.String(r.tableName),
			Item:                     av,
			ConditionExpression:      cond,
			ExpressionAttributeNames: names,
		})
		if err != nil {
			if isConditionalCheckFailed(err) {
				return entities.Payment{}, interfaces.ErrDuplicateKey
			}
			return entities.Payment{}, err
		}
		return p, nil
	}

	guard := transactionGuard(p.TransactionID)
	guardPut, err := r.guardPut(guard, p.ID)
	if err != nil {
		return entities.Payment{}, err
	}
	err = r.transact(ctx,
		[]types.TransactWriteItem{
			{Put: &types.Put{TableName: aws.String(r.tableName), Item: av, ConditionExpression: cond, ExpressionAttributeNames: names}},
			{Put: guardPut},
		},
		[]error{interfaces.ErrDuplicateKey, guard.err},
	)
	if err != nil {
		return entities.Payment{}, err
	}
	return p, nil
}

func (r *PaymentDynamoRepository) GetByID(ctx context.Context, id string) (entities.Payment, error) {
	if strings.HasPrefix(id, guardKeyPrefix) {
		return entities.Payment{}, nil
	}
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            stringKey(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Payment{}, err
	}
	if len(out.Item) == 0 {
		return entities.Payment{}, nil
	}

	var it paymentItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Payment{}, err
	}
	return fromPaymentItem(it), nil
}

func (r *PaymentDynamoRepository) GetByTransactionID(ctx context.Context, transactionID string) (entities.Payment, error) {
	if transactionID == "" {
		return entities.Payment{}, nil
	}
	out, err := r.ddb.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(paymentsTransactionIDIndex),
		KeyConditionExpression: aws.String("transaction_id = :tx"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":tx": &types.AttributeValueMemberS{Value: transactionID},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return entities.Payment{}, err
	}
	if len(out.Items) == 0 {
		return entities.Payment{}, nil
	}

	// The index is eventually consistent; re-read the base item so callers
	// compare against the current status.
	var it paymentItem
	if err := attributevalue.UnmarshalMap(out.Items[0], &it); err != nil {
		return entities.Payment{}, err
	}
	return r.GetByID(ctx, it.ID)
}

func (r *PaymentDynamoRepository) ListByServiceID(ctx context.Context, serviceID string) ([]entities.Payment, error) {
	return r.query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(paymentsServiceIDIndex),
		KeyConditionExpression: aws.String("service_id = :sid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":sid": &types.AttributeValueMemberS{Value: serviceID},
		},
	}, 0, 0)
}

func (r *PaymentDynamoRepository) ListByClientID(ctx context.Context, clientID string, filter entities.PaymentListFilter) ([]entities.Payment, error) {
	return r.listByParty(ctx, paymentsClientIDIndex, "client_id", clientID, filter)
}

func (r *PaymentDynamoRepository) ListByProfessionalID(ctx context.Context, professionalID string, filter entities.PaymentListFilter) ([]entities.Payment, error) {
	return r.listByParty(ctx, paymentsProfessionalIDIndex, "professional_id", professionalID, filter)
}

func (r *PaymentDynamoRepository) TotalCompletedByClientID(ctx context.Context, clientID string) (decimal.Decimal, error) {
	return r.totalCompleted(ctx, paymentsClientIDIndex, "client_id", clientID)
}

func (r *PaymentDynamoRepository) TotalCompletedByProfessionalID(ctx context.Context, professionalID string) (decimal.Decimal, error) {
	return r.totalCompleted(ctx, paymentsProfessionalIDIndex, "professional_id", professionalID)
}

// UpdateStatus applies change as a conditional write.
//
// The condition pins the stored status to change.From and, when a
// transaction id is written, requires the record to have none or the same.
// Writing a transaction id or completing the payment also claims the
// matching guard items, in one transaction with the update.
func (r *PaymentDynamoRepository) UpdateStatus(ctx context.Context, id string, change entities.PaymentStatusChange) (entities.Payment, error) {
	update := statusUpdate(r.tableName, id, change)

	var claims []guardClaim
	if change.TransactionID != "" {
		claims = append(claims, transactionGuard(change.TransactionID))
	}
	if change.To == entities.PaymentStatusCompleted && change.From != entities.PaymentStatusCompleted && change.ServiceID != "" {
		claims = append(claims, servicePaidGuard(change.ServiceID))
	}

	if len(claims) == 0 {
		out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
			TableName:                 update.TableName,
			Key:                       update.Key,
			ConditionExpression:       update.ConditionExpression,
			UpdateExpression:          update.UpdateExpression,
			ExpressionAttributeNames:  update.ExpressionAttributeNames,
			ExpressionAttributeValues: update.ExpressionAttributeValues,
			ReturnValues:              types.ReturnValueAllNew,
		})
		if err != nil {
			if isConditionalCheckFailed(err) {
				return entities.Payment{}, interfaces.ErrPaymentConcurrentUpdate
			}
			return entities.Payment{}, err
		}

		var it paymentItem
		if err := attributevalue.UnmarshalMap(out.Attributes, &it); err != nil {
			return entities.Payment{}, err
		}
		return fromPaymentItem(it), nil
	}

	items := []types.TransactWriteItem{{Update: update}}
	errs := []error{interfaces.ErrPaymentConcurrentUpdate}
	for _, c := range claims {
		put, err := r.guardPut(c, id)
		if err != nil {
			return entities.Payment{}, err
		}
		items = append(items, types.TransactWriteItem{Put: put})
		errs = append(errs, c.err)
	}
	if err := r.transact(ctx, items, errs); err != nil {
		return entities.Payment{}, err
	}
	return r.GetByID(ctx, id)
}

func statusUpdate(tableName, id string, change entities.PaymentStatusChange) *types.Update {
	updateExpr := "SET #status = :to, #updated_at = :updated_at"
	condExpr := "attribute_exists(#id) AND #status = :from"
	names := map[string]string{
		"#id":         "id",
		"#status":     "status",
		"#updated_at": "updated_at",
	}
	values := map[string]types.AttributeValue{
		":to":         &types.AttributeValueMemberS{Value: string(change.To)},
		":from":       &types.AttributeValueMemberS{Value: string(change.From)},
		":updated_at": &types.AttributeValueMemberS{Value: formatTime(change.UpdatedAt)},
	}

	if change.TransactionID != "" {
		updateExpr += ", #transaction_id = :tx"
		condExpr += " AND (attribute_not_exists(#transaction_id) OR #transaction_id = :tx)"
		names["#transaction_id"] = "transaction_id"
		values[":tx"] = &types.AttributeValueMemberS{Value: change.TransactionID}
	}
	if change.PaidAt != nil {
		updateExpr += ", #paid_at = :paid_at"
		condExpr += " AND attribute_not_exists(#paid_at)"
		names["#paid_at"] = "paid_at"
		values[":paid_at"] = &types.AttributeValueMemberS{Value: formatTime(*change.PaidAt)}
	}

	return &types.Update{
		TableName:                 aws.String(tableName),
		Key:                       stringKey(id),
		ConditionExpression:       aws.String(condExpr),
		UpdateExpression:          aws.String(updateExpr),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	}
}

// guardPut claims c for paymentID. Reclaiming a guard the payment already
// holds succeeds.
func (r *PaymentDynamoRepository) guardPut(c guardClaim, paymentID string) (*types.Put, error) {
	av, err := attributevalue.MarshalMap(guardItem{ID: c.key, PaymentID: paymentID})
	if err != nil {
		return nil, err
	}
	return &types.Put{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id) OR #payment_id = :payment_id"),
		ExpressionAttributeNames: map[string]string{
			"#id":         "id",
			"#payment_id": "payment_id",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":payment_id": &types.AttributeValueMemberS{Value: paymentID},
		},
	}, nil
}

// transact runs items atomically. A cancelled transaction is reported as
// errs[i] for the first item i whose condition failed; errs is indexed like
// items.
func (r *PaymentDynamoRepository) transact(ctx context.Context, items []types.TransactWriteItem, errs []error) error {
	_, err := r.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	if err == nil {
		return nil
	}
	var tce *types.TransactionCanceledException
	if !errors.As(err, &tce) {
		return err
	}
	for i, reason := range tce.CancellationReasons {
		switch aws.ToString(reason.Code) {
		case "ConditionalCheckFailed":
			if i < len(errs) {
				return errs[i]
			}
		case "TransactionConflict":
			return interfaces.ErrPaymentConcurrentUpdate
		}
	}
	return err
}

func (r *PaymentDynamoRepository) listByParty(ctx context.Context, index, keyAttr, keyValue string, filter entities.PaymentListFilter) ([]entities.Payment, error) {
	filter = filter.Normalize()
	in := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(index),
		KeyConditionExpression: aws.String("#pk = :pk"),
		ExpressionAttributeNames: map[string]string{
			"#pk": keyAttr,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: keyValue},
		},
		ScanIndexForward: aws.Bool(false),
	}
	if filter.Status != "" {
		in.FilterExpression = aws.String("#status = :status")
		in.ExpressionAttributeNames = mergeNames(in.ExpressionAttributeNames, map[string]string{"#status": "status"})
		in.ExpressionAttributeValues[":status"] = &types.AttributeValueMemberS{Value: string(filter.Status)}
	}
	return r.query(ctx, in, filter.Skip, filter.Limit)
}

func (r *PaymentDynamoRepository) totalCompleted(ctx context.Context, index, keyAttr, keyValue string) (decimal.Decimal, error) {
	payments, err := r.query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(index),
		KeyConditionExpression: aws.String("#pk = :pk"),
		FilterExpression:       aws.String("#status = :status"),
		ExpressionAttributeNames: map[string]string{
			"#pk":     keyAttr,
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk":     &types.AttributeValueMemberS{Value: keyValue},
			":status": &types.AttributeValueMemberS{Value: string(entities.PaymentStatusCompleted)},
		},
	}, 0, 0)
	if err != nil {
		return decimal.Zero, err
	}
	return entities.SumCompleted(payments), nil
}

// query walks every page of in, skipping the first skip matches and
// stopping after limit (0 means no limit).
func (r *PaymentDynamoRepository) query(ctx context.Context, in *dynamodb.QueryInput, skip, limit int) ([]entities.Payment, error) {
	items := make([]entities.Payment, 0)
	seen := 0

	p := dynamodb.NewQueryPaginator(r.ddb, in)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("query %s: %w", aws.ToString(in.IndexName), err)
		}
		for _, raw := range page.Items {
			seen++
			if seen <= skip {
				continue
			}
			var it paymentItem
			if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
				return nil, err
			}
			items = append(items, fromPaymentItem(it))
			if limit > 0 && len(items) >= limit {
				return items, nil
			}
		}
	}
	return items, nil
}

func toPaymentItem(p entities.Payment) paymentItem {
	it := paymentItem{
		ID:             p.ID,
		ServiceID:      p.ServiceID,
		ClientID:       p.ClientID,
		ProfessionalID: p.ProfessionalID,
		Amount:         p.Amount.String(),
		Method:         string(p.Method),
		Status:         string(p.Status),
		TransactionID:  p.TransactionID,
		PixQRCode:      p.PixQRCode,
		PixCopyPaste:   p.PixCopyPaste,
		CreatedAt:      formatTime(p.CreatedAt),
		UpdatedAt:      formatTime(p.UpdatedAt),
	}
	if p.PaidAt != nil {
		it.PaidAt = formatTime(*p.PaidAt)
	}
	return it
}

func fromPaymentItem(it paymentItem) entities.Payment {
	amount, _ := decimal.NewFromString(it.Amount)
	return entities.Payment{
		ID:             it.ID,
		ServiceID:      it.ServiceID,
		ClientID:       it.ClientID,
		ProfessionalID: it.ProfessionalID,
		Amount:         amount,
		Method:         entities.PaymentMethod(it.Method),
		Status:         entities.PaymentStatus(it.Status),
		TransactionID:  it.TransactionID,
		PixQRCode:      it.PixQRCode,
		PixCopyPaste:   it.PixCopyPaste,
		PaidAt:         parseTimePtr(it.PaidAt),
		CreatedAt:      parseTime(it.CreatedAt),
		UpdatedAt:      parseTime(it.UpdatedAt),
	}
}
