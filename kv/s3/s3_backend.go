package s3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/hupe1980/cellar/kv"
)

// Client is the interface for the S3 operations the backend uses.
type Client interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Backend implements kv.Backend for S3. Each cell is stored as one object
// whose name is the hex form of the cell key under the configured prefix.
//
// Cell values are small; the backend reads and writes whole objects and
// never needs range requests or multipart uploads.
type Backend struct {
	client Client
	bucket string
	prefix string
}

// New creates a new S3 backend.
// rootPrefix is prepended to all object names (e.g. "my-db/").
func New(client Client, bucket, rootPrefix string) *Backend {
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
	resp, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.objectKey(key)),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, false, nil
		}
		var nf *types.NotFound
		if errors.As(err, &nf) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Store writes the cell at key.
func (b *Backend) Store(ctx context.Context, key kv.Key, value []byte) error {
	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.objectKey(key)),
		Body:   bytes.NewReader(value),
	})
	return err
}

// Clear removes the cell at key. Deleting an absent object is not an error.
func (b *Backend) Clear(ctx context.Context, key kv.Key) error {
	_, err := b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.objectKey(key)),
	})
	return err
}
