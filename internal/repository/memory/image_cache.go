package memory

import (
	"fmt"
	"time"

	"symptom-checker-be/internal/entity"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// ImageCache keeps recently analyzed image records in memory so the
// image lookup endpoint avoids a database round trip right after upload.
type ImageCache struct {
	cache *cache.Cache
}

func NewImageCache() *ImageCache {
	// Image payloads are large; keep them short-lived and purge often.
	c := cache.New(15*time.Minute, 5*time.Minute)
	return &ImageCache{
		cache: c,
	}
}

func key(userId uuid.UUID, imageName string) string {
	return fmt.Sprintf("%s:%s", userId, imageName)
}

func (r *ImageCache) Save(record *entity.DiagnosisRecord) {
	if record == nil || record.ImageName == "" {
		return
	}
	r.cache.Set(key(record.UserId, record.ImageName), record, cache.DefaultExpiration)
}

func (r *ImageCache) Get(userId uuid.UUID, imageName string) (*entity.DiagnosisRecord, bool) {
	if x, found := r.cache.Get(key(userId, imageName)); found {
		return x.(*entity.DiagnosisRecord), true
	}
	return nil, false
}

func (r *ImageCache) Delete(userId uuid.UUID, imageName string) {
	r.cache.Delete(key(userId, imageName))
}
