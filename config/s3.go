package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type S3Config struct {
	BucketName string
	Region     string
	// PublicBucket controls URL resolution on publish: public buckets get a
	// plain object URL, private ones a presigned GET.
	PublicBucket bool
	PresignTTL   time.Duration
}

func GetS3Config() (*S3Config, error) {
	bucketName := os.Getenv("MEDIA_BUCKET_NAME")
	if bucketName == "" {
		return nil, fmt.Errorf("MEDIA_BUCKET_NAME must be set")
	}
	region := os.Getenv("AWS_REGION")
	if region == "" {
		return nil, fmt.Errorf("AWS_REGION must be set")
	}

	publicBucket := false
	if v := os.Getenv("MEDIA_BUCKET_PUBLIC"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("failed to parse MEDIA_BUCKET_PUBLIC")
		}
		publicBucket = parsed
	}

	presignTTL := 24 * time.Hour
	if v := os.Getenv("MEDIA_PRESIGN_TTL_HOURS"); v != "" {
		hours, err := strconv.Atoi(v)
		if err != nil || hours <= 0 {
			return nil, fmt.Errorf("failed to parse MEDIA_PRESIGN_TTL_HOURS")
		}
		presignTTL = time.Duration(hours) * time.Hour
	}

	return &S3Config{
		BucketName:   bucketName,
		Region:       region,
		PublicBucket: publicBucket,
		PresignTTL:   presignTTL,
	}, nil
}
