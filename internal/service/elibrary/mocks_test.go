package elibrary

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"saedshub/internal/blobstore"
	"saedshub/internal/domain"
	"saedshub/internal/domain/models"
	"saedshub/internal/domain/repositories"
)

// mockFolderRepo is an in-memory FolderRepository for tests
type mockFolderRepo struct {
	mu               sync.Mutex
	folders          []models.Folder
	createBatchCalls int
	countErr         error
	batchErr         error
}

func (m *mockFolderRepo) Create(_ context.Context, folder *models.Folder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.folders {
		if f.ID == folder.ID {
			return fmt.Errorf("folder '%s': %w", folder.ID, domain.ErrConflict)
		}
	}
	m.folders = append(m.folders, *folder)
	return nil
}

func (m *mockFolderRepo) CreateBatch(_ context.Context, folders []models.Folder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createBatchCalls++
	if m.batchErr != nil {
		return m.batchErr
	}
	existing := make(map[string]struct{}, len(m.folders))
	for _, f := range m.folders {
		existing[f.ID] = struct{}{}
	}
	for _, f := range folders {
		if _, ok := existing[f.ID]; ok {
			continue // duplicate IDs are skipped, matching ON CONFLICT DO NOTHING
		}
		m.folders = append(m.folders, f)
	}
	return nil
}

func (m *mockFolderRepo) GetByID(_ context.Context, id string) (*models.Folder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.folders {
		if f.ID == id {
			folder := f
			return &folder, nil
		}
	}
	return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
}

func (m *mockFolderRepo) Update(_ context.Context, folder *models.Folder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, f := range m.folders {
		if f.ID == folder.ID {
			m.folders[i] = *folder
			return nil
		}
	}
	return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrNotFound)
}

func (m *mockFolderRepo) DeleteByIDs(_ context.Context, ids []string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	var kept []models.Folder
	var deleted int64
	for _, f := range m.folders {
		if _, ok := drop[f.ID]; ok {
			deleted++
			continue
		}
		kept = append(kept, f)
	}
	m.folders = kept
	return deleted, nil
}

func (m *mockFolderRepo) GetAll(_ context.Context) ([]models.Folder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Folder, len(m.folders))
	copy(out, m.folders)
	return out, nil
}

func (m *mockFolderRepo) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.countErr != nil {
		return 0, m.countErr
	}
	return int64(len(m.folders)), nil
}

// mockFileRepo is an in-memory FileRepository for tests
type mockFileRepo struct {
	mu    sync.Mutex
	files []models.File
}

func (m *mockFileRepo) Create(_ context.Context, file *models.File) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.files {
		if f.URL == file.URL {
			return fmt.Errorf("file '%s': %w", file.URL, domain.ErrConflict)
		}
	}
	m.files = append(m.files, *file)
	return nil
}

func (m *mockFileRepo) GetByID(_ context.Context, id string) (*models.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.files {
		if f.ID == id {
			file := f
			return &file, nil
		}
	}
	return nil, fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
}

func (m *mockFileRepo) GetByURL(_ context.Context, url string) (*models.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.files {
		if f.URL == url {
			file := f
			return &file, nil
		}
	}
	return nil, nil
}

func (m *mockFileRepo) FindLatestPDF(_ context.Context, search repositories.PDFSearch) (*models.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var best *models.File
	for i := range m.files {
		f := m.files[i]
		if search.FolderID != nil && f.FolderID != *search.FolderID {
			continue
		}
		if !strings.Contains(strings.ToLower(f.Title), strings.ToLower(search.Title)) {
			continue
		}
		looksPDF := strings.Contains(strings.ToLower(f.FileType), "pdf") ||
			strings.Contains(strings.ToLower(f.URL), ".pdf")
		if !looksPDF {
			continue
		}
		if best == nil || f.CreatedAt.After(best.CreatedAt) {
			best = &m.files[i]
		}
	}
	if best == nil {
		return nil, nil
	}
	file := *best
	return &file, nil
}

func (m *mockFileRepo) ListByFolder(_ context.Context, folderID string) ([]models.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.File
	for _, f := range m.files {
		if f.FolderID == folderID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (m *mockFileRepo) ListAll(_ context.Context) ([]models.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.File, len(m.files))
	copy(out, m.files)
	return out, nil
}

func (m *mockFileRepo) ListByFolderIDs(_ context.Context, folderIDs []string) ([]models.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	want := make(map[string]struct{}, len(folderIDs))
	for _, id := range folderIDs {
		want[id] = struct{}{}
	}
	var out []models.File
	for _, f := range m.files {
		if _, ok := want[f.FolderID]; ok {
			out = append(out, f)
		}
	}
	return out, nil
}

func (m *mockFileRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, f := range m.files {
		if f.ID == id {
			m.files = append(m.files[:i], m.files[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
}

func (m *mockFileRepo) DeleteByFolderIDs(_ context.Context, folderIDs []string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	drop := make(map[string]struct{}, len(folderIDs))
	for _, id := range folderIDs {
		drop[id] = struct{}{}
	}
	var kept []models.File
	var deleted int64
	for _, f := range m.files {
		if _, ok := drop[f.FolderID]; ok {
			deleted++
			continue
		}
		kept = append(kept, f)
	}
	m.files = kept
	return deleted, nil
}

// mockBookRepo is an in-memory BookRepository for tests
type mockBookRepo struct {
	mu              sync.Mutex
	books           map[string]*models.Book
	memberDownloads map[string]int // "member/book" -> count
}

func newMockBookRepo(books ...*models.Book) *mockBookRepo {
	m := &mockBookRepo{
		books:           make(map[string]*models.Book),
		memberDownloads: make(map[string]int),
	}
	for _, b := range books {
		m.books[b.ID] = b
	}
	return m
}

func (m *mockBookRepo) GetByID(_ context.Context, id string) (*models.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	book, ok := m.books[id]
	if !ok {
		return nil, fmt.Errorf("book %s: %w", id, domain.ErrNotFound)
	}
	copied := *book
	return &copied, nil
}

func (m *mockBookRepo) IncrementDownloadCount(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	book, ok := m.books[id]
	if !ok {
		return fmt.Errorf("book %s: %w", id, domain.ErrNotFound)
	}
	book.DownloadCount++
	return nil
}

func (m *mockBookRepo) IncrementMemberDownload(_ context.Context, bookID, memberID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.memberDownloads[memberID+"/"+bookID]++
	return nil
}

// mockBlobStore records destroy calls and can simulate failures
type mockBlobStore struct {
	mu         sync.Mutex
	destroyed  []string
	destroyErr error
}

func (m *mockBlobStore) Fetch(_ context.Context, _ string) (*blobstore.FetchResult, error) {
	return nil, fmt.Errorf("not implemented in mock")
}

func (m *mockBlobStore) Destroy(_ context.Context, publicID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.destroyed = append(m.destroyed, publicID)
	return m.destroyErr
}

// mockTxManager runs the function directly without a real transaction
type mockTxManager struct{}

func (mockTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}
