package elibrary

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"saedshub/internal/domain/models"
	"saedshub/internal/domain/repositories"
	"saedshub/internal/domain/services"
)

// BuildTree builds the nested folder tree rooted at parentID (nil = root).
// Pure and synchronous: siblings are sorted by sort order ascending, ties
// broken by title case-insensitive. The parent graph is assumed acyclic -
// folders are only ever created under a pre-existing parent - so no cycle
// detection is performed.
func BuildTree(all []models.Folder, parentID *string) []*models.FolderNode {
	var siblings []models.Folder
	for _, folder := range all {
		if sameParent(folder.ParentID, parentID) {
			siblings = append(siblings, folder)
		}
	}

	sort.Slice(siblings, func(i, j int) bool {
		if siblings[i].SortOrder != siblings[j].SortOrder {
			return siblings[i].SortOrder < siblings[j].SortOrder
		}
		return strings.ToLower(siblings[i].Title) < strings.ToLower(siblings[j].Title)
	})

	nodes := make([]*models.FolderNode, 0, len(siblings))
	for _, folder := range siblings {
		id := folder.ID
		nodes = append(nodes, &models.FolderNode{
			ID:          folder.ID,
			Title:       folder.Title,
			Description: folder.Description,
			ParentID:    folder.ParentID,
			Type:        "folder",
			Children:    BuildTree(all, &id),
		})
	}

	return nodes
}

// CollectDescendants returns the set {targetID} plus every transitive child,
// the blast radius of a cascading folder delete.
func CollectDescendants(all []models.Folder, targetID string) map[string]struct{} {
	result := map[string]struct{}{targetID: {}}
	frontier := []string{targetID}

	for len(frontier) > 0 {
		var next []string
		for _, folder := range all {
			if folder.ParentID == nil {
				continue
			}
			if _, seen := result[folder.ID]; seen {
				continue
			}
			for _, id := range frontier {
				if *folder.ParentID == id {
					result[folder.ID] = struct{}{}
					next = append(next, folder.ID)
					break
				}
			}
		}
		frontier = next
	}

	return result
}

func sameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// treeService implements the TreeService interface
type treeService struct {
	folderRepo repositories.FolderRepository
	logger     *slog.Logger
}

// NewTreeService creates a new tree service
func NewTreeService(folderRepo repositories.FolderRepository, logger *slog.Logger) services.TreeService {
	return &treeService{
		folderRepo: folderRepo,
		logger:     logger,
	}
}

// GetTree returns the full nested folder tree, seeding the default structure
// first when the collection is empty. Seeding is best-effort: the tree read
// must always succeed, so seed failures are logged and swallowed.
func (s *treeService) GetTree(ctx context.Context) ([]*models.FolderNode, error) {
	s.ensureDefaultStructure(ctx)

	all, err := s.folderRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	tree := BuildTree(all, nil)

	s.logger.Debug("folder tree built", "folder_count", len(all))

	return tree, nil
}

// ensureDefaultStructure seeds the fixed default hierarchy when the folder
// collection is empty. The count guard is not transactionally safe: two
// concurrent first-requests can both observe "empty", so the batch insert
// skips rows whose IDs already exist.
func (s *treeService) ensureDefaultStructure(ctx context.Context) {
	count, err := s.folderRepo.Count(ctx)
	if err != nil {
		s.logger.Warn("default structure count check failed", "error", err)
		return
	}
	if count > 0 {
		return
	}

	folders := DefaultFolders()
	if err := s.folderRepo.CreateBatch(ctx, folders); err != nil {
		s.logger.Warn("default structure seeding failed", "error", err)
		return
	}

	s.logger.Info("default folder structure seeded", "folder_count", len(folders))
}
