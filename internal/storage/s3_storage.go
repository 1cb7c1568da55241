package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	aws_config "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"

	"github.com/SaniatAzam/invoice-generator/internal/config"
)

const pdfContentType = "application/pdf"

// IInvoiceArchive stores rendered invoice documents.
type IInvoiceArchive interface {
	PutInvoicePDF(ctx context.Context, invoiceNo string, pdf []byte) (string, error)
	DeleteInvoicePDF(ctx context.Context, invoiceNo string) error
	PresignInvoiceURL(ctx context.Context, invoiceNo string, expires time.Duration) (string, error)
}

// s3API is the subset of *s3.Client used by the archive.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type presignAPI interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// s3Archive implements IInvoiceArchive.
type s3Archive struct {
	bucket  string
	client  s3API
	presign presignAPI
}

// NewS3Archive creates the S3 backed invoice archive.
func NewS3Archive(ctx context.Context, cfg *config.Config) (IInvoiceArchive, error) {
	opts := []func(*aws_config.LoadOptions) error{aws_config.WithRegion(cfg.AwsRegion)}
	if cfg.AwsAccessKeyID != "" {
		// Static keys when given, otherwise the default chain (instance role etc).
		opts = append(opts, aws_config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AwsAccessKeyID,
			cfg.AwsSecretAccessKey,
			"",
		)))
	}

	awsCfg, err := aws_config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg)
	return newS3Archive(cfg.AwsS3Bucket, client, s3.NewPresignClient(client)), nil
}

func newS3Archive(bucket string, client s3API, presign presignAPI) *s3Archive {
	return &s3Archive{bucket: bucket, client: client, presign: presign}
}

// InvoiceKey is the object key of an archived invoice.
func InvoiceKey(invoiceNo string) string {
	return fmt.Sprintf("invoices/%s.pdf", invoiceNo)
}

// PutInvoicePDF uploads the document, replacing any earlier version, and
// returns its key.
func (s *s3Archive) PutInvoicePDF(ctx context.Context, invoiceNo string, pdf []byte) (string, error) {
	key := InvoiceKey(invoiceNo)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(pdf),
		ContentType: aws.String(pdfContentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	log.Debug().Str("key", key).Int("bytes", len(pdf)).Msg("archived invoice")
	return key, nil
}

// DeleteInvoicePDF removes the archived document. S3 treats a missing key as
// success.
func (s *s3Archive) DeleteInvoicePDF(ctx context.Context, invoiceNo string) error {
	key := InvoiceKey(invoiceNo)
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// PresignInvoiceURL returns a time limited download link for the archived
// document.
func (s *s3Archive) PresignInvoiceURL(ctx context.Context, invoiceNo string, expires time.Duration) (string, error) {
	key := InvoiceKey(invoiceNo)
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket:                     aws.String(s.bucket),
		Key:                        aws.String(key),
		ResponseContentType:        aws.String(pdfContentType),
		ResponseContentDisposition: aws.String(fmt.Sprintf("inline; filename=%q", invoiceNo+".pdf")),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", fmt.Errorf("failed to presign %s: %w", key, err)
	}
	return req.URL, nil
}
