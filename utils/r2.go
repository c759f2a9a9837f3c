// utils/r2.go
package utils

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var r2Client *s3.Client
var r2Bucket string

// InitR2 configures the snapshot archive. Archiving is optional: when the R2
// credentials are absent the archive stays disabled and ArchiveSnapshot is a
// no-op, so local and test deployments need no object store.
func InitR2() error {
	accountID := os.Getenv("CLOUDFLARE_ACCOUNT_ID")
	accessKeyID := os.Getenv("R2_ACCESS_KEY_ID")
	accessKeySecret := os.Getenv("R2_ACCESS_KEY_SECRET")
	r2Bucket = os.Getenv("R2_BUCKET_NAME")

	if accountID == "" || accessKeyID == "" || accessKeySecret == "" || r2Bucket == "" {
		log.Println("⚠️  R2 credentials not set — raw snapshot archiving disabled")
		return nil
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion("auto"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKeyID, accessKeySecret, "",
		)),
		config.WithEndpointResolver(aws.EndpointResolverFunc(
			func(service, region string) (aws.Endpoint, error) {
				return aws.Endpoint{
					URL: fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID),
				}, nil
			}),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to load R2 config: %w", err)
	}

	r2Client = s3.NewFromConfig(cfg)
	return nil
}

// ArchiveSnapshot stores the raw payload a connector fetched, keyed under the
// run, so a failed extraction can be diagnosed against the exact bytes seen.
// Best-effort: archive failures are logged, never propagated into the run.
func ArchiveSnapshot(ctx context.Context, key string, body []byte, contentType string) {
	if r2Client == nil || len(body) == 0 {
		return
	}

	_, err := r2Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r2Bucket),
		Key:         aws.String(fmt.Sprintf("snapshots/%s", key)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		log.Printf("⚠️  Failed to archive snapshot %s: %v", key, err)
	}
}
