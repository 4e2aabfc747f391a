// Package ledger stores the resource ledger in an S3 object.
package ledger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	awsStd "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3Types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	appErrors "github.com/vpnforge/vpnforge/internal/errors"
	"github.com/vpnforge/vpnforge/internal/ledger"
	"github.com/vpnforge/vpnforge/internal/logger"
	"github.com/vpnforge/vpnforge/internal/providers/aws/client"
)

// S3Store keeps the ledger in a single S3 object, encrypted at rest.
// The format follows the key's extension.
type S3Store struct {
	client client.S3Client
	bucket string
	key    string
	logger *slog.Logger
}

var _ ledger.Store = (*S3Store)(nil)

// NewS3Store creates a store for s3://bucket/key.
func NewS3Store(s3Client client.S3Client, bucket, key string, log *slog.Logger) *S3Store {
	return &S3Store{
		client: s3Client,
		bucket: bucket,
		key:    key,
		logger: log,
	}
}

// Location returns the object URL.
func (s *S3Store) Location() string {
	return fmt.Sprintf("s3://%s/%s", s.bucket, s.key)
}

// Load reads the ledger object. A missing object is an empty ledger.
func (s *S3Store) Load(ctx context.Context) (*ledger.Ledger, error) {
	s.logCall(ctx, "S3.GetObject")
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: awsStd.String(s.bucket),
		Key:    awsStd.String(s.key),
	})
	if isMissingObject(err) {
		return ledger.New(""), nil
	}
	if err != nil {
		return nil, appErrors.ErrLedger(fmt.Sprintf("failed to read ledger %s", s.Location()), err)
	}
	defer func() { _ = out.Body.Close() }()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, appErrors.ErrLedger(fmt.Sprintf("failed to read ledger %s", s.Location()), err)
	}

	l, err := ledger.Decode(data, ledger.FormatForPath(s.key))
	if err != nil {
		return nil, appErrors.ErrLedger(fmt.Sprintf("failed to parse ledger %s", s.Location()), err)
	}
	return l, nil
}

// Save replaces the ledger object. A single PUT is atomic for readers.
func (s *S3Store) Save(ctx context.Context, l *ledger.Ledger) error {
	format := ledger.FormatForPath(s.key)
	data, err := ledger.Encode(l, format)
	if err != nil {
		return appErrors.ErrLedger("failed to encode ledger", err)
	}

	contentType := "application/json"
	if format == ledger.FormatYAML {
		contentType = "application/yaml"
	}

	s.logCall(ctx, "S3.PutObject", "bytes", len(data))
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:               awsStd.String(s.bucket),
		Key:                  awsStd.String(s.key),
		Body:                 bytes.NewReader(data),
		ContentType:          awsStd.String(contentType),
		ServerSideEncryption: s3Types.ServerSideEncryptionAes256,
	})
	if err != nil {
		return appErrors.ErrLedger(fmt.Sprintf("failed to write ledger %s", s.Location()), err)
	}
	return nil
}

func (s *S3Store) logCall(ctx context.Context, operation string, args ...any) {
	logArgs := append([]any{"operation", operation, "bucket", s.bucket, "key", s.key}, args...)
	logArgs = append(logArgs, logger.GetDeadlineInfo(ctx)...)
	logger.DeriveRequestLogger(ctx, s.logger).Debug("calling external service", "context", logger.SliceToMap(logArgs))
}

func isMissingObject(err error) bool {
	if err == nil {
		return false
	}
	var noSuchKey *s3Types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && (apiErr.ErrorCode() == "NoSuchKey" || apiErr.ErrorCode() == "NotFound")
}
