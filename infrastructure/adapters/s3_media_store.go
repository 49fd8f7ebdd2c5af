package adapters

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/aniketduttaAD/open-education-backend-sub001/application/ports/outbound"
	"github.com/aniketduttaAD/open-education-backend-sub001/config"
)

type s3MediaStore struct {
	logger outbound.LoggerPort
	s3Svc  *s3.S3
	cfg    *config.S3Config
}

// NewS3MediaStore uploads published media to the course bucket. URL
// resolution follows the bucket's visibility: plain object URL for a
// public bucket, presigned GET otherwise.
func NewS3MediaStore(logger outbound.LoggerPort, cfg *config.S3Config) (outbound.MediaStorePort, error) {
	sess, err := session.NewSession(&aws.Config{Region: aws.String(cfg.Region)})
	if err != nil {
		logger.Error(err, "Failed to create AWS session")
		return nil, err
	}
	return &s3MediaStore{
		logger: logger,
		s3Svc:  s3.New(sess),
		cfg:    cfg,
	}, nil
}

func (s *s3MediaStore) Put(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	_, err := s.s3Svc.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		s.logger.ErrorWithFields(err, "Failed to upload object to S3", map[string]interface{}{
			"key": key,
		})
		return "", err
	}

	if s.cfg.PublicBucket {
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.BucketName, s.cfg.Region, key), nil
	}

	req, _ := s.s3Svc.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(s.cfg.BucketName),
		Key:    aws.String(key),
	})
	url, err := req.Presign(s.cfg.PresignTTL)
	if err != nil {
		s.logger.ErrorWithFields(err, "Failed to presign object URL", map[string]interface{}{
			"key": key,
		})
		return "", err
	}
	return url, nil
}
