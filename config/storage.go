package config

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config holds S3 client and bucket info
type S3Config struct {
	Client     *s3.Client
	BucketName string
	PublicURL  string
}

// NewS3Config initializes the S3 client. A custom endpoint switches to
// path-style addressing for S3-compatible stores such as MinIO.
func NewS3Config(ctx context.Context, cfg *Config) (*S3Config, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.S3Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	publicURL := cfg.S3PublicURL
	if publicURL == "" {
		publicURL = fmt.Sprintf("https://%s.s3.amazonaws.com", cfg.S3Bucket)
	}

	return &S3Config{
		Client:     client,
		BucketName: cfg.S3Bucket,
		PublicURL:  strings.TrimRight(publicURL, "/"),
	}, nil
}

// ImagePrefix is the key prefix recipe images are stored under.
const ImagePrefix = "recipes/images/"

type policyStatement struct {
	Sid       string `json:"Sid"`
	Effect    string `json:"Effect"`
	Principal string `json:"Principal"`
	Action    string `json:"Action"`
	Resource  string `json:"Resource"`
}

type bucketPolicy struct {
	Version   string            `json:"Version"`
	Statement []policyStatement `json:"Statement"`
}

// ImagePolicy grants anonymous reads on recipe images only.
func (s *S3Config) ImagePolicy() (string, error) {
	body, err := json.Marshal(bucketPolicy{
		Version: "2012-10-17",
		Statement: []policyStatement{{
			Sid:       "PublicReadRecipeImages",
			Effect:    "Allow",
			Principal: "*",
			Action:    "s3:GetObject",
			Resource:  fmt.Sprintf("arn:aws:s3:::%s/%s*", s.BucketName, ImagePrefix),
		}},
	})
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// SetupBucketPolicy applies ImagePolicy to the bucket.
func (s *S3Config) SetupBucketPolicy(ctx context.Context) error {
	policy, err := s.ImagePolicy()
	if err != nil {
		return fmt.Errorf("build bucket policy: %w", err)
	}
	if _, err := s.Client.PutBucketPolicy(ctx, &s3.PutBucketPolicyInput{
		Bucket: aws.String(s.BucketName),
		Policy: aws.String(policy),
	}); err != nil {
		return fmt.Errorf("put bucket policy on %s: %w", s.BucketName, err)
	}
	return nil
}
