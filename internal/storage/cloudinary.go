package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"time"

	"jobboard/internal/config"

	"github.com/cenkalti/backoff/v4"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"
)

const (
	uploadTimeout = 30 * time.Second
	deleteTimeout = 10 * time.Second
)

// CloudinaryService stores files in Cloudinary
type CloudinaryService struct {
	client     *cloudinary.Cloudinary
	maxRetries int
	logger     *zap.Logger
}

// NewCloudinaryService creates a Cloudinary backed file storage
func NewCloudinaryService(cfg config.CloudinaryConfig, logger *zap.Logger) (*CloudinaryService, error) {
	if !cfg.IsConfigured() {
		return nil, ErrMissingCredentials
	}

	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}
	cld.Config.URL.Secure = true

	return &CloudinaryService{
		client:     cld,
		maxRetries: cfg.UploadRetries,
		logger:     logger,
	}, nil
}

func ptrBool(b bool) *bool {
	return &b
}

// UploadFile streams a multipart file to Cloudinary, retrying transient failures
func (c *CloudinaryService) UploadFile(ctx context.Context, file *multipart.FileHeader, folder string) (*UploadResult, error) {
	startTime := time.Now()

	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnableToOpenFile, err)
	}
	defer src.Close()

	params := uploader.UploadParams{
		Folder:         folder,
		UseFilename:    ptrBool(true),
		UniqueFilename: ptrBool(true),
		ResourceType:   "auto",
	}

	var result *uploader.UploadResult
	operation := func() error {
		if _, err := src.Seek(0, io.SeekStart); err != nil {
			return backoff.Permanent(err)
		}

		res, err := c.client.Upload.Upload(ctx, src, params)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return backoff.Permanent(err)
			}
			return err
		}
		if res.Error.Message != "" {
			return fmt.Errorf("cloudinary: %s", res.Error.Message)
		}

		result = res
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = uploadTimeout / 2

	err = backoff.RetryNotify(
		operation,
		backoff.WithContext(backoff.WithMaxRetries(b, uint64(c.maxRetries)), ctx),
		func(err error, d time.Duration) {
			c.logger.Warn("Upload attempt failed",
				zap.String("filename", file.Filename),
				zap.Error(err),
				zap.Duration("backoff", d),
			)
		},
	)
	if err != nil {
		c.logger.Error("All upload attempts failed",
			zap.String("filename", file.Filename),
			zap.String("folder", folder),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	c.logger.Info("File uploaded successfully",
		zap.String("filename", file.Filename),
		zap.Int64("size", file.Size),
		zap.Duration("duration", time.Since(startTime)),
		zap.String("public_id", result.PublicID),
	)

	return &UploadResult{
		URL:      result.SecureURL,
		PublicID: result.PublicID,
		Format:   result.Format,
		Size:     result.Bytes,
	}, nil
}

// DeleteFile removes a file from Cloudinary by its public ID
func (c *CloudinaryService) DeleteFile(ctx context.Context, publicID string) error {
	ctx, cancel := context.WithTimeout(ctx, deleteTimeout)
	defer cancel()

	if _, err := c.client.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID}); err != nil {
		c.logger.Error("Failed to delete file",
			zap.String("public_id", publicID),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %v", ErrDeleteFailed, err)
	}

	c.logger.Info("File deleted", zap.String("public_id", publicID))
	return nil
}
