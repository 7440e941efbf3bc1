package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"motoauto-service/internal/config"
	"motoauto-service/internal/domain/shared"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/rs/zerolog"
)

type fakeS3 struct {
	s3iface.S3API
	inputs []*s3.PutObjectInput
	bodies []string
	err    error
}

func (f *fakeS3) PutObjectWithContext(ctx aws.Context, in *s3.PutObjectInput, opts ...request.Option) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, _ := io.ReadAll(in.Body)
	f.inputs = append(f.inputs, in)
	f.bodies = append(f.bodies, string(body))
	return &s3.PutObjectOutput{}, nil
}

func TestPublicURL(t *testing.T) {
	cases := []struct {
		name string
		cfg  config.StorageConfig
		want string
	}{
		{"explicit", config.StorageConfig{Bucket: "imgs", PublicURL: "https://cdn.motoauto.ch/"}, "https://cdn.motoauto.ch"},
		{"custom endpoint", config.StorageConfig{Bucket: "imgs", Endpoint: "http://localhost:9000"}, "http://localhost:9000/imgs"},
		{"aws", config.StorageConfig{Bucket: "imgs", Region: "eu-central-2"}, "https://imgs.s3.eu-central-2.amazonaws.com"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := PublicURL(tc.cfg); got != tc.want {
				t.Fatalf("expected %s got %s", tc.want, got)
			}
		})
	}
}

func TestPutUploadsPublicObject(t *testing.T) {
	client := &fakeS3{}
	store, err := NewS3BlobStore(S3BlobStoreParams{
		Config: config.StorageConfig{Bucket: "imgs", PublicURL: "https://cdn.motoauto.ch"},
		Client: client,
		Logger: zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// a plain io.Reader must be buffered into a seeker
	body := io.MultiReader(strings.NewReader("jpeg-"), strings.NewReader("bytes"))
	url, err := store.Put(context.Background(), "abc/1.jpg", "", body, -1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "https://cdn.motoauto.ch/abc/1.jpg" {
		t.Fatalf("unexpected url %s", url)
	}

	in := client.inputs[0]
	if aws.StringValue(in.ACL) != s3.ObjectCannedACLPublicRead || aws.StringValue(in.ContentType) != "image/jpeg" {
		t.Fatalf("unexpected upload input %v", in)
	}
	if aws.Int64Value(in.ContentLength) != 10 || client.bodies[0] != "jpeg-bytes" {
		t.Fatalf("unexpected body %q (%d)", client.bodies[0], aws.Int64Value(in.ContentLength))
	}
}

func TestPutWrapsFailure(t *testing.T) {
	store, _ := NewS3BlobStore(S3BlobStoreParams{
		Config: config.StorageConfig{Bucket: "imgs"},
		Client: &fakeS3{err: errors.New("connection reset")},
		Logger: zerolog.Nop(),
	})

	if _, err := store.Put(context.Background(), "k", "image/png", strings.NewReader("x"), 1); !errors.Is(err, shared.ErrBlobUpload) {
		t.Fatalf("expected ErrBlobUpload got %v", err)
	}
}
