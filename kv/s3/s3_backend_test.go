package s3

import (
	"bytes"
	"context"
	"io"
	"testing"

	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/hupe1980/cellar/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockClient struct {
	objects map[string][]byte
}

func newMockClient() *mockClient {
	return &mockClient{objects: make(map[string][]byte)}
}

func (m *mockClient) GetObject(_ context.Context, params *awss3.GetObjectInput, _ ...func(*awss3.Options)) (*awss3.GetObjectOutput, error) {
	data, ok := m.objects[*params.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &awss3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (m *mockClient) PutObject(_ context.Context, params *awss3.PutObjectInput, _ ...func(*awss3.Options)) (*awss3.PutObjectOutput, error) {
	data, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	m.objects[*params.Key] = data
	return &awss3.PutObjectOutput{}, nil
}

func (m *mockClient) DeleteObject(_ context.Context, params *awss3.DeleteObjectInput, _ ...func(*awss3.Options)) (*awss3.DeleteObjectOutput, error) {
	delete(m.objects, *params.Key)
	return &awss3.DeleteObjectOutput{}, nil
}

func TestBackend(t *testing.T) {
	ctx := context.Background()
	client := newMockClient()
	b := New(client, "bucket", "cells/")
	key := kv.RepeatKey(0x01)

	t.Run("missing key", func(t *testing.T) {
		_, present, err := b.Load(ctx, key)
		require.NoError(t, err)
		assert.False(t, present)
	})

	t.Run("store and load", func(t *testing.T) {
		require.NoError(t, b.Store(ctx, key, []byte("value")))

		data, present, err := b.Load(ctx, key)
		require.NoError(t, err)
		require.True(t, present)
		assert.Equal(t, []byte("value"), data)

		// Object names are prefixed hex keys.
		_, ok := client.objects["cells/"+key.String()]
		assert.True(t, ok)
	})

	t.Run("clear", func(t *testing.T) {
		require.NoError(t, b.Clear(ctx, key))
		_, present, err := b.Load(ctx, key)
		require.NoError(t, err)
		assert.False(t, present)

		// Clearing again is fine.
		require.NoError(t, b.Clear(ctx, key))
	})
}
