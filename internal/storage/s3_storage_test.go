package storage

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockS3 struct {
	mock.Mock
}

func (m *mockS3) PutObject(ctx context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	if out := args.Get(0); out != nil {
		return out.(*s3.PutObjectOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockS3) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	args := m.Called(ctx, params)
	if out := args.Get(0); out != nil {
		return out.(*s3.DeleteObjectOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockS3) PresignGetObject(ctx context.Context, params *s3.GetObjectInput, _ ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	args := m.Called(ctx, params)
	if out := args.Get(0); out != nil {
		return out.(*v4.PresignedHTTPRequest), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestInvoiceKey(t *testing.T) {
	assert.Equal(t, "invoices/INV-001.pdf", InvoiceKey("INV-001"))
}

func TestPutInvoicePDF(t *testing.T) {
	ctx := context.Background()
	client := new(mockS3)
	archive := newS3Archive("bucket", client, client)

	client.On("PutObject", ctx, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		body, _ := io.ReadAll(in.Body)
		return aws.ToString(in.Bucket) == "bucket" &&
			aws.ToString(in.Key) == "invoices/INV-001.pdf" &&
			aws.ToString(in.ContentType) == "application/pdf" &&
			string(body) == "%PDF-1.3"
	})).Return(&s3.PutObjectOutput{}, nil).Once()

	key, err := archive.PutInvoicePDF(ctx, "INV-001", []byte("%PDF-1.3"))
	require.NoError(t, err)
	assert.Equal(t, "invoices/INV-001.pdf", key)
	client.AssertExpectations(t)
}

func TestPutInvoicePDF_Error(t *testing.T) {
	ctx := context.Background()
	client := new(mockS3)
	archive := newS3Archive("bucket", client, client)

	client.On("PutObject", ctx, mock.Anything).Return(nil, errors.New("access denied")).Once()

	_, err := archive.PutInvoicePDF(ctx, "INV-001", []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invoices/INV-001.pdf")
	assert.Contains(t, err.Error(), "access denied")
}

func TestDeleteInvoicePDF(t *testing.T) {
	ctx := context.Background()
	client := new(mockS3)
	archive := newS3Archive("bucket", client, client)

	client.On("DeleteObject", ctx, mock.MatchedBy(func(in *s3.DeleteObjectInput) bool {
		return aws.ToString(in.Key) == "invoices/INV-002.pdf"
	})).Return(&s3.DeleteObjectOutput{}, nil).Once()

	require.NoError(t, archive.DeleteInvoicePDF(ctx, "INV-002"))
	client.AssertExpectations(t)
}

func TestPresignInvoiceURL(t *testing.T) {
	ctx := context.Background()
	client := new(mockS3)
	archive := newS3Archive("bucket", client, client)

	client.On("PresignGetObject", ctx, mock.MatchedBy(func(in *s3.GetObjectInput) bool {
		return aws.ToString(in.Key) == "invoices/INV-003.pdf"
	})).Return(&v4.PresignedHTTPRequest{URL: "https://bucket.s3/invoices/INV-003.pdf?sig"}, nil).Once()

	url, err := archive.PresignInvoiceURL(ctx, "INV-003", 10*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "https://bucket.s3/invoices/INV-003.pdf?sig", url)
}
