// Package minio provides a MinIO implementation of the kv.Backend
// interface, usable against any S3-compatible object store.
//
// # Usage
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds: credentials.NewStaticV4(accessKey, secretKey, ""),
//	})
//
//	backend := miniobackend.New(client, "my-bucket", "cells/")
//	store := cellar.Open(backend)
package minio
