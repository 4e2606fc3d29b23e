package services

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const (
	invoiceFolder = "eduplatform_invoices"
	receiptFolder = "eduplatform_receipts"
)

type Archiver interface {
	Archive(ctx context.Context, data []byte, name string) (string, error)
}

// CloudinaryStore archives invoices and signs direct receipt uploads.
type CloudinaryStore struct {
	cld *cloudinary.Cloudinary
	now func() time.Time
}

func NewCloudinaryStore(cloudinaryURL string) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}
	return &CloudinaryStore{cld: cld, now: time.Now}, nil
}

func (s *CloudinaryStore) Archive(ctx context.Context, data []byte, name string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	uploadParams := uploader.UploadParams{
		PublicID:     name,
		Folder:       invoiceFolder,
		ResourceType: "raw",
	}

	uploadResult, err := s.cld.Upload.Upload(ctx, bytes.NewReader(data), uploadParams)
	if err != nil {
		return "", err
	}
	if uploadResult.Error.Message != "" {
		return "", fmt.Errorf("cloudinary: %s", uploadResult.Error.Message)
	}
	return uploadResult.SecureURL, nil
}

type UploadSignature struct {
	Signature string `json:"signature"`
	Timestamp int64  `json:"timestamp"`
	APIKey    string `json:"api_key"`
	CloudName string `json:"cloud_name"`
	Folder    string `json:"folder"`
}

// SignReceiptUpload returns the parameters a browser needs to upload a bank
// transfer receipt straight to Cloudinary.
func (s *CloudinaryStore) SignReceiptUpload() (*UploadSignature, error) {
	paramsToSign, err := api.StructToParams(uploader.UploadParams{
		Folder: receiptFolder,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to prepare signature params: %w", err)
	}

	timestamp := s.now().Unix()
	paramsToSign.Set("timestamp", strconv.FormatInt(timestamp, 10))

	signature, err := api.SignParameters(paramsToSign, s.cld.Config.Cloud.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign upload params: %w", err)
	}

	return &UploadSignature{
		Signature: signature,
		Timestamp: timestamp,
		APIKey:    s.cld.Config.Cloud.APIKey,
		CloudName: s.cld.Config.Cloud.CloudName,
		Folder:    receiptFolder,
	}, nil
}
