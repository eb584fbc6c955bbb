/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/suparena/dynarepo/datastore"
	"github.com/suparena/dynarepo/errors"
	"github.com/suparena/dynarepo/observability"
	"github.com/suparena/dynarepo/storagemodels"
	"go.uber.org/zap"
)

// TableAdmin implements datastore.TableAdmin on DynamoDB.
type TableAdmin struct {
	client Client
	logger *zap.Logger
}

var _ datastore.TableAdmin = (*TableAdmin)(nil)

// NewTableAdmin creates a TableAdmin. A nil logger disables logging.
func NewTableAdmin(client Client, logger *zap.Logger) *TableAdmin {
	return &TableAdmin{client: client, logger: observability.OrNop(logger)}
}

// CreateTable creates the table described by schema. Tables with positive read and write
// capacity are provisioned, all others use on-demand billing.
func (a *TableAdmin) CreateTable(ctx context.Context, schema storagemodels.TableSchema) error {
	input := &sdk.CreateTableInput{
		TableName: aws.String(schema.TableName),
		AttributeDefinitions: []types.AttributeDefinition{{
			AttributeName: aws.String(schema.HashKey.Name),
			AttributeType: scalarType(schema.HashKey.Kind),
		}},
		KeySchema: []types.KeySchemaElement{{
			AttributeName: aws.String(schema.HashKey.Name),
			KeyType:       types.KeyTypeHash,
		}},
		BillingMode: types.BillingModePayPerRequest,
	}
	if schema.RangeKey != nil {
		input.AttributeDefinitions = append(input.AttributeDefinitions, types.AttributeDefinition{
			AttributeName: aws.String(schema.RangeKey.Name),
			AttributeType: scalarType(schema.RangeKey.Kind),
		})
		input.KeySchema = append(input.KeySchema, types.KeySchemaElement{
			AttributeName: aws.String(schema.RangeKey.Name),
			KeyType:       types.KeyTypeRange,
		})
	}
	if schema.ReadCapacity > 0 && schema.WriteCapacity > 0 {
		input.BillingMode = types.BillingModeProvisioned
		input.ProvisionedThroughput = &types.ProvisionedThroughput{
			ReadCapacityUnits:  aws.Int64(schema.ReadCapacity),
			WriteCapacityUnits: aws.Int64(schema.WriteCapacity),
		}
	}

	startTime := time.Now()
	if _, err := a.client.CreateTable(ctx, input); err != nil {
		var riu *types.ResourceInUseException
		if stderrors.As(err, &riu) {
			return fmt.Errorf("%w: %s", errors.NewAlreadyExistsError("table", schema.TableName), riu.ErrorMessage())
		}
		return fmt.Errorf("CreateTable failed: %w", err)
	}

	a.logger.Info("Table create issued",
		zap.String("table", schema.TableName),
		zap.Duration("took", time.Since(startTime)))
	return nil
}

// DeleteTable drops the table.
func (a *TableAdmin) DeleteTable(ctx context.Context, tableName string) error {
	if _, err := a.client.DeleteTable(ctx, &sdk.DeleteTableInput{TableName: aws.String(tableName)}); err != nil {
		var rnf *types.ResourceNotFoundException
		if stderrors.As(err, &rnf) {
			return fmt.Errorf("%w: %s", errors.NewNotFoundError("table", tableName), rnf.ErrorMessage())
		}
		return fmt.Errorf("DeleteTable failed: %w", err)
	}

	a.logger.Info("Table delete issued", zap.String("table", tableName))
	return nil
}

// DescribeTable reports the status of the table, TableStatusNotFound if it does not exist.
func (a *TableAdmin) DescribeTable(ctx context.Context, tableName string) (storagemodels.TableStatus, error) {
	out, err := a.client.DescribeTable(ctx, &sdk.DescribeTableInput{TableName: aws.String(tableName)})
	if err != nil {
		// Table Not Found is an expected error
		var rnf *types.ResourceNotFoundException
		if stderrors.As(err, &rnf) {
			return storagemodels.TableStatusNotFound, nil
		}
		return "", fmt.Errorf("DescribeTable failed: %w", err)
	}
	if out.Table == nil {
		return storagemodels.TableStatusNotFound, nil
	}
	return storagemodels.TableStatus(out.Table.TableStatus), nil
}

// WaitForActive blocks until the table exists and is active, using the SDK table waiter.
func (a *TableAdmin) WaitForActive(ctx context.Context, tableName string, timeout time.Duration) error {
	waiter := sdk.NewTableExistsWaiter(a.client, func(o *sdk.TableExistsWaiterOptions) {
		o.MinDelay = time.Second
		o.MaxDelay = 5 * time.Second
	})
	if err := waiter.Wait(ctx, &sdk.DescribeTableInput{TableName: aws.String(tableName)}, timeout); err != nil {
		status, _ := a.DescribeTable(ctx, tableName)
		return fmt.Errorf("%w: %v", errors.NewTableTimeoutError(tableName, string(status)), err)
	}
	return nil
}

func scalarType(kind storagemodels.KeyKind) types.ScalarAttributeType {
	switch kind {
	case storagemodels.KeyKindN:
		return types.ScalarAttributeTypeN
	case storagemodels.KeyKindB:
		return types.ScalarAttributeTypeB
	}
	return types.ScalarAttributeTypeS
}
