package models

import (
	"time"
)

// File is an index entry pointing at a blob-store object.
// FolderTitle is a denormalized copy of the folder's title at creation time
// and is not kept in sync with later folder renames.
type File struct {
	ID          string    `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description,omitempty" db:"description"`
	URL         string    `json:"url" db:"url"`
	PublicID    string    `json:"public_id,omitempty" db:"public_id"`
	FolderID    string    `json:"folder_id" db:"folder_id"`
	FolderTitle string    `json:"folder_title,omitempty" db:"folder_title"`
	FileType    string    `json:"file_type,omitempty" db:"file_type"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
