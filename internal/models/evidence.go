package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EvidenceFile is an uploaded attachment for one report. The blob lives in
// the row; StoragePath keeps the "{report_id}/{timestamp}.{ext}" convention
// so the content can be moved to an object store without a schema change.
type EvidenceFile struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	ReportID    string    `gorm:"index;not null" json:"report_id"`
	StoragePath string    `gorm:"uniqueIndex;not null" json:"storage_path"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	Content     []byte    `gorm:"type:bytea" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}

// BeforeCreate assigns a UUID when the ID is not set.
func (e *EvidenceFile) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return
}
