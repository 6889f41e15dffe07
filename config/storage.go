package config

import (
	"os"
)

const (
	StorageS3    = "s3"
	StorageLocal = "local"
)

// StorageConfig selects and configures the recipe image backend.
type StorageConfig struct {
	Driver string

	// local backend
	LocalPath string

	// s3 backend; Endpoint and UsePathStyle are for MinIO-compatible stores
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool

	// PublicURL prefixes stored keys when rendering image references
	PublicURL string
}

func loadStorageConfig() StorageConfig {
	return StorageConfig{
		Driver:          getEnv("STORAGE_DRIVER", StorageLocal),
		LocalPath:       getEnv("MEDIA_ROOT", "media"),
		Bucket:          getEnv("S3_BUCKET_NAME", "foodgram-recipe-images"),
		Region:          getEnv("AWS_REGION", "us-east-1"),
		Endpoint:        os.Getenv("S3_ENDPOINT"),
		AccessKeyID:     os.Getenv("S3_ACCESS_KEY"),
		SecretAccessKey: os.Getenv("S3_SECRET_KEY"),
		UsePathStyle:    os.Getenv("S3_USE_PATH_STYLE") == "true",
		PublicURL:       getEnv("MEDIA_URL", "/media"),
	}
}
