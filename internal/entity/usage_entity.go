package entity

import (
	"time"

	"github.com/google/uuid"
)

// UsageCounter tracks per-user daily analysis volume, keyed by day and type.
type UsageCounter struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Day       time.Time // truncated to date, UTC
	Type      string
	Count     int
	UpdatedAt time.Time
}
