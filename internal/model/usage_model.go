package model

import (
	"time"

	"github.com/google/uuid"
)

type UsageCounter struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_usage_user_day_type"`
	Day       time.Time `gorm:"type:date;not null;uniqueIndex:idx_usage_user_day_type"`
	Type      string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_usage_user_day_type"`
	Count     int       `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (UsageCounter) TableName() string {
	return "usage_counters"
}
