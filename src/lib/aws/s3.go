package aws

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"sltourism/src/config"
	"sltourism/src/lib"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

func GetS3Client(ctx context.Context) (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		log.Printf("Could not load default config: %s\n", err.Error())
		return nil, err
	}
	return s3.NewFromConfig(cfg), nil
}

// S3Uploader puts pictures in the assets bucket and hands back presigned
// GET URLs.
type S3Uploader struct {
	Bucket  string
	Expires time.Duration
	client  *s3.Client
}

func NewS3Uploader(ctx context.Context) (*S3Uploader, error) {
	client, err := GetS3Client(ctx)
	if err != nil {
		return nil, err
	}
	return &S3Uploader{Bucket: config.S3_ASSETS_BUCKET, Expires: 7 * 24 * time.Hour, client: client}, nil
}

func (u *S3Uploader) Upload(ctx context.Context, name string, contentType string, r io.Reader) (lib.UploadResult, error) {
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.Bucket),
		Key:         aws.String(name),
		Body:        r,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		log.Printf("Could not put object to S3 bucket: %s\n", err.Error())
		return lib.UploadResult{}, err
	}
	log.Printf("Added object '%s' to bucket '%s'", name, u.Bucket)
	pre := s3.NewPresignClient(u.client)
	res, err := pre.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(u.Bucket),
		Key:    aws.String(name),
	}, func(po *s3.PresignOptions) {
		po.Expires = u.Expires
	})
	if err != nil {
		log.Printf("Could not generate presigned URL for object [%s]: %s\n", name, err.Error())
		return lib.UploadResult{}, fmt.Errorf("presign %s: %w", name, err)
	}
	return lib.UploadResult{Provider: "s3", Key: name, URL: res.URL, ThumbnailURL: res.URL}, nil
}
