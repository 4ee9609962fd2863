package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// GetObjectAPI is the subset of the S3 client used by S3Loader.
type GetObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Config configures NewS3Client.
type S3Config struct {
	Region   string
	Endpoint string

	// PathStyle forces path-style addressing, required by most
	// S3-compatible stores such as MinIO.
	PathStyle bool
}

// NewS3Client builds an S3 client. Credentials are read from
// AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and AWS_SESSION_TOKEN.
func NewS3Client(cfg S3Config) *s3.Client {
	opts := s3.Options{
		Region:       cfg.Region,
		Credentials:  envCredentials(),
		UsePathStyle: cfg.PathStyle,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return s3.New(opts)
}

func envCredentials() aws.CredentialsProvider {
	return aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
		id, secret := os.Getenv("AWS_ACCESS_KEY_ID"), os.Getenv("AWS_SECRET_ACCESS_KEY")
		if id == "" || secret == "" {
			return aws.Credentials{}, errors.New("source: AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set")
		}
		return aws.Credentials{
			AccessKeyID:     id,
			SecretAccessKey: secret,
			SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
			Source:          "environment",
		}, nil
	})
}

// S3Loader loads templates from an S3 bucket.
//
// Example usage:
//
//	client := source.NewS3Client(source.S3Config{Region: "eu-west-1"})
//	loader := source.NewS3Loader(client, "my-bucket", "templates/")
type S3Loader struct {
	client GetObjectAPI
	bucket string
	prefix string
}

// NewS3Loader creates a loader reading bucket/prefix+path.
func NewS3Loader(client GetObjectAPI, bucket, prefix string) *S3Loader {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &S3Loader{client: client, bucket: bucket, prefix: prefix}
}

// Key returns the object key for a template path.
func (l *S3Loader) Key(name string) (string, error) {
	p, err := clean(name)
	if err != nil {
		return "", err
	}
	return l.prefix + p, nil
}

// Load implements Loader.
func (l *S3Loader) Load(ctx context.Context, name string) (string, error) {
	key, err := l.Key(name)
	if err != nil {
		return "", &LoadError{Path: name, Err: err}
	}
	out, err := l.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(l.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			err = ErrNotFound
		}
		return "", &LoadError{Path: name, Err: err}
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return "", &LoadError{Path: name, Err: fmt.Errorf("s3 read failed: %w", err)}
	}
	return string(data), nil
}
