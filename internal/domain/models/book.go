package models

import (
	"time"
)

// Book is a catalog entry that may carry a direct PDF reference independent
// of the folder/file index. The resolver reconciles the two lazily.
type Book struct {
	ID            string    `json:"id" db:"id"`
	Title         string    `json:"title" db:"title"`
	Description   string    `json:"description,omitempty" db:"description"`
	PDFURL        string    `json:"pdf_url,omitempty" db:"pdf_url"`
	FolderID      string    `json:"folder_id,omitempty" db:"folder_id"`
	FolderTitle   string    `json:"folder_title,omitempty" db:"folder_title"`
	DownloadCount int       `json:"download_count" db:"download_count"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}
