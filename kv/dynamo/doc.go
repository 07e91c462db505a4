// Package dynamo provides a DynamoDB implementation of the kv.Backend
// interface: one table item per cell, keyed by the hex cell key.
//
// # Usage
//
//	client := dynamodb.NewFromConfig(cfg)
//	backend := dynamo.New(client, "cellar-cells")
//
//	store := cellar.Open(backend)
package dynamo
