package minio

import (
	"bytes"
	"context"
	"io"
	"path"

	"github.com/hupe1980/cellar/kv"
	"github.com/minio/minio-go/v7"
)

// Backend implements kv.Backend for MinIO and S3-compatible storage. Each
// cell is stored as one object named by the hex form of the cell key under
// the configured prefix.
type Backend struct {
	client *minio.Client
	bucket string
	prefix string
}

// New creates a new MinIO backend.
// bucket is the MinIO bucket name.
// rootPrefix is prepended to all object names (e.g. "cells/").
func New(client *minio.Client, bucket, rootPrefix string) *Backend {
	return &Backend{
		client: client,
		bucket: bucket,
		prefix: rootPrefix,
	}
}

func (b *Backend) objectKey(key kv.Key) string {
	return path.Join(b.prefix, key.String())
}

// Load reads the cell at key. A missing object maps to present=false.
func (b *Backend) Load(ctx context.Context, key kv.Key) ([]byte, bool, error) {
	obj, err := b.client.GetObject(ctx, b.bucket, b.objectKey(key), minio.GetObjectOptions{})
	if err != nil {
		return nil, false, err
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		// GetObject is lazy; absence surfaces on first read.
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.Code == "NotFound" {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

// Store writes the cell at key.
func (b *Backend) Store(ctx context.Context, key kv.Key, value []byte) error {
	_, err := b.client.PutObject(ctx, b.bucket, b.objectKey(key), bytes.NewReader(value), int64(len(value)), minio.PutObjectOptions{})
	return err
}

// Clear removes the cell at key. Removing an absent object is not an error.
func (b *Backend) Clear(ctx context.Context, key kv.Key) error {
	err := b.client.RemoveObject(ctx, b.bucket, b.objectKey(key), minio.RemoveObjectOptions{})
	if err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.Code == "NotFound" {
			return nil // Already gone
		}
		return err
	}
	return nil
}
