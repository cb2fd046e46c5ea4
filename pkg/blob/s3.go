package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Store keeps blobs as objects under prefix/ab/cd/<checksum> in a bucket.
type S3Store struct {
	client S3Client
	bucket string
	prefix string
}

// S3Client is the subset of the AWS S3 API the store uses.
type S3Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

func NewS3Store(client S3Client, bucket, prefix string) *S3Store {
	return &S3Store{client: client, bucket: bucket, prefix: prefix}
}

func (s *S3Store) key(checksum string) string {
	return path.Join(s.prefix, Key(checksum))
}

func (s *S3Store) Put(ctx context.Context, data []byte) (string, error) {
	checksum := Checksum(data)

	exists, err := s.Exists(ctx, checksum)
	if err != nil {
		return "", err
	}
	if exists {
		return checksum, nil
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(checksum)),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return "", fmt.Errorf("failed to put blob %s to s3://%s: %w", checksum, s.bucket, err)
	}

	return checksum, nil
}

func (s *S3Store) Get(ctx context.Context, checksum string) ([]byte, error) {
	if len(checksum) < 4 {
		return nil, ErrNotFound
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(checksum)),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get blob %s from s3://%s: %w", checksum, s.bucket, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read blob %s body: %w", checksum, err)
	}
	return data, nil
}

func (s *S3Store) Exists(ctx context.Context, checksum string) (bool, error) {
	if len(checksum) < 4 {
		return false, nil
	}

	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(checksum)),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to head blob %s on s3://%s: %w", checksum, s.bucket, err)
	}
	return true, nil
}

// List pages through the bucket prefix and returns the stored checksums
// (the final path segment of every object key).
func (s *S3Store) List(ctx context.Context) ([]string, error) {
	var checksums []string

	var continuation *string
	for {
		out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(s.bucket),
			Prefix:            aws.String(s.prefix),
			ContinuationToken: continuation,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list blobs on s3://%s: %w", s.bucket, err)
		}

		for _, object := range out.Contents {
			if object.Key != nil {
				checksums = append(checksums, path.Base(*object.Key))
			}
		}

		if out.IsTruncated == nil || !*out.IsTruncated {
			break
		}
		continuation = out.NextContinuationToken
	}

	return checksums, nil
}

func (s *S3Store) Delete(ctx context.Context, checksum string) error {
	if len(checksum) < 4 {
		return nil
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(checksum)),
	})
	if err != nil {
		return fmt.Errorf("failed to delete blob %s from s3://%s: %w", checksum, s.bucket, err)
	}
	return nil
}
