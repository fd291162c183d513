package specification

import (
	"time"

	"gorm.io/gorm"
)

type ByImageName struct {
	ImageName string
}

func (s ByImageName) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("image_name = ?", s.ImageName)
}

type ByDiagnosisType struct {
	Type string
}

func (s ByDiagnosisType) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("type = ?", s.Type)
}

type ByUsageDay struct {
	Day time.Time
}

func (s ByUsageDay) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("day = ?", s.Day.UTC().Truncate(24*time.Hour))
}
