package elibrary

import (
	_ "embed"
	"fmt"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"saedshub/internal/domain/models"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// defaultNode is one entry of the embedded default structure
type defaultNode struct {
	ID          string        `yaml:"id"`
	Title       string        `yaml:"title"`
	Description string        `yaml:"description"`
	Children    []defaultNode `yaml:"children"`
}

type defaultStructure struct {
	Folders []defaultNode `yaml:"folders"`
}

var loadDefaults = sync.OnceValue(func() []defaultNode {
	var structure defaultStructure
	if err := yaml.Unmarshal(defaultsYAML, &structure); err != nil {
		// The structure is a compiled-in asset; a parse failure is a build defect
		panic(fmt.Sprintf("parse embedded default folder structure: %v", err))
	}
	return structure.Folders
})

// DefaultFolders flattens the embedded default hierarchy into one insertion
// batch. Each node keeps its fixed slug ID and gets its index among its
// immediate siblings as sort order.
func DefaultFolders() []models.Folder {
	now := time.Now()

	var rows []models.Folder
	var walk func(nodes []defaultNode, parentID *string)
	walk = func(nodes []defaultNode, parentID *string) {
		for i, node := range nodes {
			rows = append(rows, models.Folder{
				ID:          node.ID,
				Title:       node.Title,
				Description: node.Description,
				ParentID:    parentID,
				SortOrder:   i,
				CreatedAt:   now,
				UpdatedAt:   now,
			})
			id := node.ID
			walk(node.Children, &id)
		}
	}
	walk(loadDefaults(), nil)

	return rows
}
