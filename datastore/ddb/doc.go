/*
Package ddb provides a DynamoDB implementation of the DataStore and TableAdmin interfaces.

The DynamodbDataStore supports:
  - Entity mapping driven by mapping.EntityMetadata (attribute name overrides, marshallers)
  - Lazy, restartable query and scan result lists with retry of throttled pages
  - Server side counting with SELECT COUNT
  - Batch writes in chunks of 25 with resubmission of unprocessed items
  - Table name overrides and per environment prefixes

Key Features:

Paging:
Queries and scans are issued page by page as the result list is iterated:

	store := ddb.NewDynamodbDataStore(client, md,
	    ddb.WithTablePrefix("dev-"),
	    ddb.WithFetchOptions(
	        storagemodels.WithPageSize(25),
	        storagemodels.WithMaxRetries(3),
	        storagemodels.WithProgressHandler(func(p storagemodels.FetchProgress) {
	            log.Printf("Processed %d items", p.ItemsProcessed)
	        }),
	    ),
	)
	for user, err := range store.Query(ctx, expr).All(ctx) {
	    ...
	}

Instrumentation:
InstrumentedClient wraps any Client with OpenTelemetry spans, Prometheus metrics
and a circuit breaker:

	client := ddb.NewInstrumentedClient(raw,
	    ddb.WithClientMetrics(collector),
	    ddb.WithBreaker(ddb.NewCircuitBreaker(ddb.DefaultBreakerConfig("dynamodb"), logger)),
	)
*/
package ddb
