/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Key identifies a single item by its hash key and, for composite tables, its range key.
type Key struct {
	Hash     any
	Range    any
	HasRange bool
}

// HashKey builds a key for a table without a range key.
func HashKey(hash any) Key {
	return Key{Hash: hash}
}

// HashRangeKey builds a key for a table with a hash and a range key.
func HashRangeKey(hash, rng any) Key {
	return Key{Hash: hash, Range: rng, HasRange: true}
}

func (k Key) String() string {
	if k.HasRange {
		return fmt.Sprintf("%v|%v", k.Hash, k.Range)
	}
	return fmt.Sprintf("%v", k.Hash)
}

// QueryExpression defines parameters for a DynamoDB Query operation.
type QueryExpression struct {
	// HashKey is the hash key value the key condition is bound to.
	HashKey any
	// KeyConditionExpression is the primary condition for the query.
	KeyConditionExpression string
	// FilterExpression is an optional filter expression.
	FilterExpression *string
	// ExpressionAttributeNames maps name placeholders to attribute names.
	ExpressionAttributeNames map[string]string
	// ExpressionAttributeValues contains the values for expression placeholders.
	ExpressionAttributeValues map[string]types.AttributeValue
	// IndexName is optional if you wish to query a secondary index.
	IndexName *string
	// Limit caps the total number of items returned across all pages.
	Limit *int32
	// ScanIndexForward specifies the order for index traversal.
	// If true (default), traversal is in ascending order.
	ScanIndexForward *bool
	// ConsistentRead requests strongly consistent reads.
	ConsistentRead *bool
	// Conditions restate the key condition and filter in terms of entity properties.
	Conditions []Condition
}

// ScanExpression defines parameters for a DynamoDB Scan operation.
type ScanExpression struct {
	FilterExpression          *string
	ExpressionAttributeNames  map[string]string
	ExpressionAttributeValues map[string]types.AttributeValue
	IndexName                 *string
	// Limit caps the total number of items returned across all pages.
	Limit          *int32
	ConsistentRead *bool
	Conditions     []Condition
}

// Condition restricts one entity property by its logical (unmarshalled) value. Stores
// that evaluate items in process use them instead of the expression strings.
type Condition struct {
	Property string
	Operator string
	Values   []any
}

// FailedBatch describes one chunk of a batch write that the store did not process.
type FailedBatch struct {
	Table string
	// Unprocessed is the number of write requests left in the chunk.
	Unprocessed int
	Err         error
}
