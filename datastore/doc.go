/*
Package datastore defines the store client boundary used by repositories.

DataStore[T] is the entity level client:

	type DataStore[T any] interface {
	    Load(ctx context.Context, key storagemodels.Key) (*T, error)
	    Save(ctx context.Context, entity T) error
	    BatchSave(ctx context.Context, entities []T) ([]storagemodels.FailedBatch, error)
	    Delete(ctx context.Context, entity T) error
	    BatchDelete(ctx context.Context, entities []T) ([]storagemodels.FailedBatch, error)
	    Query(ctx context.Context, expr *storagemodels.QueryExpression) ResultList[T]
	    Scan(ctx context.Context, expr *storagemodels.ScanExpression) ResultList[T]
	    CountQuery(ctx context.Context, expr *storagemodels.QueryExpression) (int64, error)
	    CountScan(ctx context.Context, expr *storagemodels.ScanExpression) (int64, error)
	    TableName() string
	}

TableAdmin creates, describes and drops tables for the table lifecycle.

Query and scan results are ResultLists: lazy sequences that fetch store pages while
being iterated and can be iterated again from the start:

	for user, err := range store.Scan(ctx, expr).All(ctx) {
	    if err != nil {
	        return err
	    }
	    // use user
	}

Implementations:
  - ddb: DynamoDB implementation on the AWS SDK v2
  - mock: In-memory implementation for testing
*/
package datastore
