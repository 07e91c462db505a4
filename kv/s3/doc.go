// Package s3 provides an S3 implementation of the kv.Backend interface.
//
// # Usage
//
//	client := s3.NewFromConfig(cfg)
//	backend := s3backend.New(client, "my-bucket", "cells/")
//
//	store := cellar.Open(backend)
//
// # Features
//
//   - One object per cell, named by the hex cell key
//   - Configurable prefix for multi-tenant isolation
//   - Pairs well with kv.CompressedBackend and kv.RateLimitedBackend
package s3
