package documents

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/dmitrijs2005/caregiver/internal/common"
	"github.com/dmitrijs2005/caregiver/internal/server/models"
)

// ObjectAPI is the part of *s3.Client the repository uses.
type ObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Settings locates the bucket; it mirrors the server config's S3 fields.
type S3Settings struct {
	AccessKey    string
	SecretKey    string
	Bucket       string
	Region       string
	BaseEndpoint string
}

var loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

// NewS3Client builds a path-style client with static credentials, which is
// what MinIO and most S3-compatible stores expect.
func NewS3Client(ctx context.Context, s S3Settings) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(s.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(s.AccessKey, s.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if s.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(s.BaseEndpoint)
		}
		o.UsePathStyle = true
	}), nil
}

// S3Repository keeps each document as <collection>/<id>.json.
type S3Repository struct {
	api    ObjectAPI
	bucket string
	now    func() time.Time
}

func NewS3Repository(api ObjectAPI, bucket string) *S3Repository {
	return &S3Repository{api: api, bucket: bucket, now: time.Now}
}

type s3Object struct {
	Fields    map[string]any `json:"fields"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func objectKey(collection, id string) string {
	return path.Join(collection, id+".json")
}

func (r *S3Repository) Put(ctx context.Context, doc *models.Document) error {
	obj := s3Object{Fields: doc.Fields, UpdatedAt: r.now().UTC()}
	body, err := json.Marshal(obj)
	if err != nil {
		return fmt.Errorf("encode document %s/%s: %w", doc.Collection, doc.ID, err)
	}

	_, err = r.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(objectKey(doc.Collection, doc.ID)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("s3 put %s: %w", objectKey(doc.Collection, doc.ID), err)
	}
	doc.UpdatedAt = obj.UpdatedAt
	return nil
}

func (r *S3Repository) Get(ctx context.Context, collection, id string) (*models.Document, error) {
	key := objectKey(collection, id)
	out, err := r.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("s3 get %s: %w", key, err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("s3 read %s: %w", key, err)
	}
	var obj s3Object
	if err := json.Unmarshal(body, &obj); err != nil {
		return nil, fmt.Errorf("decode document %s: %w", key, err)
	}
	return &models.Document{Collection: collection, ID: id, Fields: obj.Fields, UpdatedAt: obj.UpdatedAt}, nil
}
