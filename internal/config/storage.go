package config

import "strings"

// StorageConfig describes the S3-compatible bucket that receives uploaded
// tour images.  Endpoint is only needed for non-AWS providers (MinIO, R2,
// LocalStack); PublicBaseURL is the prefix clients use to fetch objects.
type StorageConfig struct {
    Bucket         string
    Region         string
    Endpoint       string
    AccessKey      string
    SecretKey      string
    PublicBaseURL  string
    ForcePathStyle bool
    MaxUploadBytes int64
}

// LoadStorageConfig reads STORAGE_* variables.
func LoadStorageConfig() StorageConfig {
    return StorageConfig{
        Bucket:         envStr("STORAGE_BUCKET", ""),
        Region:         envStr("STORAGE_REGION", "us-east-1"),
        Endpoint:       envStr("STORAGE_ENDPOINT", ""),
        AccessKey:      envStr("STORAGE_ACCESS_KEY", ""),
        SecretKey:      envStr("STORAGE_SECRET_KEY", ""),
        PublicBaseURL:  strings.TrimRight(envStr("STORAGE_PUBLIC_BASE_URL", ""), "/"),
        ForcePathStyle: envBool("STORAGE_FORCE_PATH_STYLE", false),
        MaxUploadBytes: envInt64("UPLOAD_MAX_BYTES", 5<<20),
    }
}

// Configured reports whether uploads can be accepted.
func (s StorageConfig) Configured() bool {
    return s.Bucket != "" && s.PublicBaseURL != ""
}
