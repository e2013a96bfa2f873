package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CaseAttachment is an uploaded evidence file tied to a case
type CaseAttachment struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	CaseID         string `gorm:"type:uuid;not null;index" json:"case_id"`
	UploaderUserID string `gorm:"type:uuid;not null" json:"uploader_user_id"`
	FileURL        string `gorm:"not null" json:"file_url"`
	FileName       string `gorm:"not null" json:"file_name"`
	FileType       string `json:"file_type"`
	FileSize       int64  `json:"file_size"`
}

// BeforeCreate hook to generate UUID
func (a *CaseAttachment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for CaseAttachment model
func (CaseAttachment) TableName() string {
	return "case_attachments"
}
