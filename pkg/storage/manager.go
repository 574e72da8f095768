package storage

import (
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/shashiranjanraj/canteen/config"
	"github.com/shashiranjanraj/canteen/pkg/logger"
)

var (
	mu      sync.RWMutex
	current Disk
)

// Connect installs the disk selected by STORAGE_DISK. An S3 disk that
// cannot be configured falls back to local with a warning.
func Connect() {
	var d Disk = NewLocal(config.StorageLocalRoot(), config.StorageURL())
	if config.StorageDefault() == "s3" {
		s3d, err := NewS3(S3Options{
			Bucket:   config.StorageS3Bucket(),
			Region:   config.StorageS3Region(),
			Key:      config.StorageS3Key(),
			Secret:   config.StorageS3Secret(),
			Endpoint: config.StorageS3Endpoint(),
			BaseURL:  config.StorageS3URL(),
		})
		if err != nil {
			logger.Warn("storage: s3 disabled, using local disk", "error", err)
		} else {
			d = s3d
		}
	}
	Use(d)
}

// Use installs d as the default disk. Tests pass a temp-dir local disk.
func Use(d Disk) {
	mu.Lock()
	current = d
	mu.Unlock()
}

// Default returns the installed disk, booting the configured one on first use.
func Default() Disk {
	mu.RLock()
	d := current
	mu.RUnlock()
	if d == nil {
		Connect()
		return Default()
	}
	return d
}

// URL renders the public URL of path, "" for an empty path.
func URL(p string) string {
	if p == "" {
		return ""
	}
	return Default().URL(p)
}

// ItemImagePath builds a collision-free key under item_images/ keeping the
// original extension.
func ItemImagePath(itemID uint, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("item_images/%d/%s%s", itemID, uuid.NewString(), ext)
}
