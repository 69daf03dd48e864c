package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"
)

// UploadKind selects the validation rules and S3 prefix for an upload.
type UploadKind string

const (
	// KindAvatar is an organization or volunteer avatar (images, max 5MB).
	KindAvatar UploadKind = "avatars"
	// KindDocument is an organization verification document (pdf or image, max 20MB).
	KindDocument UploadKind = "documents"
	// KindEventImage is an event cover image (images, max 10MB).
	KindEventImage UploadKind = "events"
)

const (
	MaxAvatarSize     = 5 * 1024 * 1024
	MaxDocumentSize   = 20 * 1024 * 1024
	MaxEventImageSize = 10 * 1024 * 1024
)

var (
	avatarExtensions = map[string]string{
		".jpg":  "image/jpeg",
		".jpeg": "image/jpeg",
		".png":  "image/png",
		".gif":  "image/gif",
	}
	documentExtensions = map[string]string{
		".pdf":  "application/pdf",
		".jpg":  "image/jpeg",
		".jpeg": "image/jpeg",
		".png":  "image/png",
	}
	eventImageExtensions = map[string]string{
		".jpg":  "image/jpeg",
		".jpeg": "image/jpeg",
		".png":  "image/png",
		".webp": "image/webp",
	}
)

// ValidateUpload checks extension and size ceilings for an upload kind before
// any bytes are handed to S3. Returns the content type to store.
func ValidateUpload(kind UploadKind, filename string, size int64) (string, error) {
	ext := strings.ToLower(path.Ext(filename))
	var allowed map[string]string
	var max int64
	switch kind {
	case KindAvatar:
		allowed, max = avatarExtensions, MaxAvatarSize
	case KindDocument:
		allowed, max = documentExtensions, MaxDocumentSize
	case KindEventImage:
		allowed, max = eventImageExtensions, MaxEventImageSize
	default:
		return "", fmt.Errorf("unknown upload kind: %s", kind)
	}
	ct, ok := allowed[ext]
	if !ok {
		return "", fmt.Errorf("file type %s not allowed for %s", ext, kind)
	}
	if size <= 0 || size > max {
		return "", fmt.Errorf("file size %d exceeds limit for %s", size, kind)
	}
	return ct, nil
}

// ObjectKey returns the S3 object key: {kind}/{ownerID}/{filename}.
func ObjectKey(kind UploadKind, ownerID, filename string) string {
	return path.Join(string(kind), ownerID, path.Base(filename))
}

// S3Config holds S3 client configuration.
type S3Config struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	UploadsBucket   string
}

// S3 provides upload storage with validation and public URLs.
type S3 struct {
	client   *s3.Client
	uploader *manager.Uploader
	cfg      S3Config
	logger   *zap.Logger
}

// NewS3 creates an S3 client using credentials from config or the environment.
func NewS3(ctx context.Context, cfg S3Config, logger *zap.Logger) (*S3, error) {
	accessKey := cfg.AccessKeyID
	secretKey := cfg.SecretAccessKey
	if accessKey == "" || secretKey == "" {
		accessKey = os.Getenv("AWS_ACCESS_KEY_ID")
		secretKey = os.Getenv("AWS_SECRET_ACCESS_KEY")
	}
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}
	if accessKey != "" && secretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKey, secretKey, "",
		)))
	} else if logger != nil {
		logger.Warn("S3 client using default credential chain (AWS_ACCESS_KEY_ID/AWS_SECRET_ACCESS_KEY not set)")
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg)
	uploader := manager.NewUploader(client, func(u *manager.Uploader) {
		u.PartSize = 5 * 1024 * 1024
	})
	if logger == nil {
		logger = zap.NewNop()
	}
	return &S3{
		client:   client,
		uploader: uploader,
		cfg:      cfg,
		logger:   logger,
	}, nil
}

// Upload streams a reader to the uploads bucket and returns the public URL.
// Avatars and event images are stored public-read; documents are not.
func (s *S3) Upload(ctx context.Context, kind UploadKind, key, contentType string, body io.Reader, contentLength int64) (string, error) {
	var contentLengthPtr *int64
	if contentLength > 0 {
		contentLengthPtr = &contentLength
	}
	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.UploadsBucket),
		Key:           aws.String(key),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: contentLengthPtr,
	}
	if kind != KindDocument {
		input.ACL = types.ObjectCannedACLPublicRead
	}
	if _, err := s.uploader.Upload(ctx, input); err != nil {
		return "", fmt.Errorf("upload: %w", err)
	}
	return s.PublicObjectURL(key), nil
}

// PublicObjectURL returns the public URL for an object in the uploads bucket.
func (s *S3) PublicObjectURL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.UploadsBucket, s.cfg.Region, key)
}

// DeleteObject removes an object from the uploads bucket.
func (s *S3) DeleteObject(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.UploadsBucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

// KeyFromURL extracts the object key from a public URL produced by this
// client, or returns an empty string.
func (s *S3) KeyFromURL(url string) string {
	prefix := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", s.cfg.UploadsBucket, s.cfg.Region)
	if strings.HasPrefix(url, prefix) {
		return strings.TrimPrefix(url, prefix)
	}
	return ""
}
