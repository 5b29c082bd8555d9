package uploader

import (
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/luxestudio-live/coupon-bazaar/internal/pkg/config"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/google/uuid"
)

// 允许上传的商品图片类型
var allowedImageExt = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
}

type Uploader interface {
	UploadFile(prefix string, file *multipart.FileHeader) (string, error)
}

// objectPutter bucket 上用到的方法
type objectPutter interface {
	PutObject(objectKey string, reader io.Reader, options ...oss.Option) error
}

type AliyunOSSUploader struct {
	bucket objectPutter
	config config.OSSConfig
}

func NewAliyunOSSUploader(cfg config.OSSConfig) (*AliyunOSSUploader, error) {
	if cfg.Endpoint == "" || cfg.BucketName == "" {
		return nil, fmt.Errorf("oss config is missing")
	}
	client, err := oss.New(cfg.Endpoint, cfg.AccessKeyID, cfg.AccessKeySecret)
	if err != nil {
		return nil, err
	}

	bucket, err := client.Bucket(cfg.BucketName)
	if err != nil {
		return nil, err
	}

	return &AliyunOSSUploader{
		bucket: bucket,
		config: cfg,
	}, nil
}

// ObjectKey 生成对象名: prefix/YYYYMMDD/uuid.ext
func ObjectKey(prefix, filename string, now time.Time) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedImageExt[ext] {
		return "", fmt.Errorf("unsupported image type %q", ext)
	}
	return fmt.Sprintf("%s/%s/%s%s", prefix, now.Format("20060102"), uuid.New().String(), ext), nil
}

func (u *AliyunOSSUploader) UploadFile(prefix string, file *multipart.FileHeader) (string, error) {
	key, err := ObjectKey(prefix, file.Filename, time.Now())
	if err != nil {
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	if err := u.bucket.PutObject(key, src); err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}

	// bucket 为公共读 (或走 CDN)，直接拼接公网地址
	return fmt.Sprintf("https://%s.%s/%s", u.config.BucketName, u.config.Endpoint, key), nil
}
