package models

import (
	"time"
)

// Folder is one node in the e-library's organizational hierarchy.
// ParentID is deliberately not foreign-key enforced: a dangling parent is
// tolerated and the cascade on delete is handled at the service layer.
type Folder struct {
	ID          string    `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description,omitempty" db:"description"`
	ParentID    *string   `json:"parent_id" db:"parent_id"` // NULL = root level
	SortOrder   int       `json:"order" db:"sort_order"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// FolderNode is a folder in the nested tree returned to clients.
type FolderNode struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	ParentID    *string       `json:"parent_id"`
	Type        string        `json:"type"` // always "folder"
	Children    []*FolderNode `json:"children"`
}
