/*
Package storagemodels defines the data structures shared between repositories and stores.

Key Types:

Key:
Identifies one item by hash key and optional range key:

	storagemodels.HashKey("user-1")
	storagemodels.HashRangeKey("michael", "playlist1")

QueryExpression / ScanExpression:
Native read descriptors, usually produced by the query package:

	expr := &QueryExpression{
	    HashKey:                "michael",
	    KeyConditionExpression: "#0 = :0",
	    ExpressionAttributeNames: map[string]string{"#0": "userName"},
	    ExpressionAttributeValues: map[string]types.AttributeValue{
	        ":0": &types.AttributeValueMemberS{Value: "michael"},
	    },
	    Limit: aws.Int32(10),
	}

TableSchema / TableStatus:
Everything the table lifecycle needs to create, describe and drop a table.

Pageable / Page:
Paging requests and results. The zero Pageable is unpaged.

FetchOptions:
Configuration for store-side paging:

	opts := []FetchOption{
	    WithPageSize(25),
	    WithMaxRetries(3),
	    WithProgressHandler(progressFunc),
	}
*/
package storagemodels
