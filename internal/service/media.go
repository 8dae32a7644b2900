package service

import (
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"resty.dev/v3"
)

const POST_IMAGES_PATH = "post-images"

var allowedImageExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
	".webp": {},
}

type mediaService struct {
	logger *zap.Logger
	client *resty.Client
	origin string
}

func newMediaService(logger *zap.Logger, cfg Config) Media {
	client := resty.New()
	client.AddResponseMiddleware(cdnMetricMiddleware)

	return &mediaService{
		logger: logger,
		client: client,
		origin: strings.TrimRight(cfg.CDNOrigin, "/"),
	}
}

// UploadImage stores the image on the CDN and returns its URL.
func (s *mediaService) UploadImage(ctx context.Context, fileHeader *multipart.FileHeader) (string, error) {
	if !strings.HasPrefix(fileHeader.Header.Get("Content-Type"), "image/") {
		return "", ErrFileMustBeImage
	}
	if _, ok := allowedImageExtensions[strings.ToLower(filepath.Ext(fileHeader.Filename))]; !ok {
		return "", ErrFileMustHaveAValidExtension
	}

	file, err := fileHeader.Open()
	if err != nil {
		s.logger.Sugar().Errorf("failed to open file: %s", err.Error())
		return "", ErrInternal
	}
	defer file.Close()

	endpoint := "/upload"
	resp, err := s.client.R().
		WithContext(ctx).
		SetFileReader("file", fileHeader.Filename, file).
		SetFormData(map[string]string{"path": POST_IMAGES_PATH}).
		SetHeader("type", "IMAGE").
		Post(s.origin + endpoint)
	if err != nil {
		s.logger.Sugar().Errorf("failed to do CDN request: %s", err.Error())
		return "", ErrInternal
	}

	body := resp.String()
	if resp.StatusCode() != http.StatusOK {
		var bodyJSON map[string]interface{}
		if err := json.Unmarshal([]byte(body), &bodyJSON); err != nil {
			s.logger.Sugar().Errorf("failed to decode error response from CDN: %s", err.Error())
		} else {
			s.logger.Sugar().Errorf("ERROR from CDN endpoint(%s), code(%d), details: %s", endpoint, resp.StatusCode(), bodyJSON["details"])
		}
		return "", ErrFailedToUploadPostImageToCDN
	}

	return strings.TrimSpace(body), nil
}
