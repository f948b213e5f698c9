package elibrary

import (
	"context"
	"errors"
	"testing"
	"time"

	"saedshub/internal/domain"
	"saedshub/internal/domain/models"
	"saedshub/internal/domain/services"
)

func newFolderService(folders *mockFolderRepo, files *mockFileRepo, blobs *mockBlobStore) services.FolderService {
	return NewFolderService(folders, files, blobs, mockTxManager{}, testLogger())
}

func TestCreateFolder_GeneratesIDWhenAbsent(t *testing.T) {
	svc := newFolderService(&mockFolderRepo{}, &mockFileRepo{}, &mockBlobStore{})

	folder, err := svc.CreateFolder(context.Background(), &services.CreateFolderRequest{Title: "Scholarships"})
	if err != nil {
		t.Fatalf("CreateFolder: %v", err)
	}
	if folder.ID == "" {
		t.Error("expected generated ID")
	}
	if folder.ParentID != nil {
		t.Error("expected root folder")
	}
}

func TestCreateFolder_RejectsMissingTitle(t *testing.T) {
	svc := newFolderService(&mockFolderRepo{}, &mockFileRepo{}, &mockBlobStore{})

	_, err := svc.CreateFolder(context.Background(), &services.CreateFolderRequest{})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestCreateFolder_RejectsUnknownParent(t *testing.T) {
	svc := newFolderService(&mockFolderRepo{}, &mockFileRepo{}, &mockBlobStore{})

	_, err := svc.CreateFolder(context.Background(), &services.CreateFolderRequest{
		Title:    "Child",
		ParentID: strptr("ghost"),
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing parent, got %v", err)
	}
}

func TestUpdateFolder_PartialPatch(t *testing.T) {
	folders := &mockFolderRepo{folders: []models.Folder{{
		ID:          "f1",
		Title:       "Old Title",
		Description: "keep me",
	}}}
	svc := newFolderService(folders, &mockFileRepo{}, &mockBlobStore{})

	updated, err := svc.UpdateFolder(context.Background(), "f1", &services.UpdateFolderRequest{
		Title: strptr("New Title"),
	})
	if err != nil {
		t.Fatalf("UpdateFolder: %v", err)
	}
	if updated.Title != "New Title" {
		t.Errorf("title not updated: %s", updated.Title)
	}
	if updated.Description != "keep me" {
		t.Errorf("description clobbered: %s", updated.Description)
	}
}

// Deleting A (parent of B, which owns file F) removes A, B and F even when
// the blob destroy for F fails
func TestDeleteFolder_CascadeSurvivesBlobFailure(t *testing.T) {
	folders := &mockFolderRepo{folders: []models.Folder{
		flatFolder("a", nil, 0, "A"),
		flatFolder("b", strptr("a"), 0, "B"),
		flatFolder("other", nil, 1, "Other"),
	}}
	files := &mockFileRepo{files: []models.File{
		{ID: "f", Title: "F", URL: "https://cdn.example/f.pdf", PublicID: "elibrary/f", FolderID: "b", CreatedAt: time.Now()},
		{ID: "keep", Title: "Keep", URL: "https://cdn.example/k.pdf", PublicID: "elibrary/k", FolderID: "other", CreatedAt: time.Now()},
	}}
	blobs := &mockBlobStore{destroyErr: errors.New("cloud unavailable")}
	svc := newFolderService(folders, files, blobs)

	result, err := svc.DeleteFolder(context.Background(), "a")
	if err != nil {
		t.Fatalf("DeleteFolder: %v", err)
	}

	if result.DeletedFolders != 2 {
		t.Errorf("expected 2 folders deleted, got %d", result.DeletedFolders)
	}
	if result.DeletedFiles != 1 {
		t.Errorf("expected 1 file deleted, got %d", result.DeletedFiles)
	}

	if len(blobs.destroyed) != 1 || blobs.destroyed[0] != "elibrary/f" {
		t.Errorf("expected one destroy attempt for elibrary/f, got %v", blobs.destroyed)
	}

	// Subsequent reads see neither A, B nor F
	all, _ := folders.GetAll(context.Background())
	for _, f := range all {
		if f.ID == "a" || f.ID == "b" {
			t.Errorf("folder %s still present after cascade", f.ID)
		}
	}
	if _, err := files.GetByID(context.Background(), "f"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("file f still present after cascade")
	}
	if _, err := files.GetByID(context.Background(), "keep"); err != nil {
		t.Errorf("unrelated file was deleted: %v", err)
	}
}

func TestDeleteFolder_NotFound(t *testing.T) {
	svc := newFolderService(&mockFolderRepo{}, &mockFileRepo{}, &mockBlobStore{})

	_, err := svc.DeleteFolder(context.Background(), "ghost")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFileService_DeleteKeepsGoingOnBlobFailure(t *testing.T) {
	files := &mockFileRepo{files: []models.File{{
		ID:       "f1",
		Title:    "Doomed",
		URL:      "https://cdn.example/d.pdf",
		PublicID: "elibrary/doomed",
	}}}
	blobs := &mockBlobStore{destroyErr: errors.New("cloud unavailable")}
	svc := NewFileService(files, &mockFolderRepo{}, blobs, testLogger())

	if err := svc.DeleteFile(context.Background(), "f1"); err != nil {
		t.Fatalf("DeleteFile: %v", err)
	}
	if _, err := files.GetByID(context.Background(), "f1"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("index record survived blob failure")
	}
}

func TestFileService_CreateDenormalizesFolderTitle(t *testing.T) {
	folders := &mockFolderRepo{folders: []models.Folder{flatFolder("al-bio-biology-notes", nil, 0, "Notes")}}
	svc := NewFileService(&mockFileRepo{}, folders, &mockBlobStore{}, testLogger())

	file, err := svc.CreateFile(context.Background(), &services.CreateFileRequest{
		Title:    "Photosynthesis",
		URL:      "https://cdn.example/photo.pdf",
		FolderID: "al-bio-biology-notes",
		FileType: "application/pdf",
	})
	if err != nil {
		t.Fatalf("CreateFile: %v", err)
	}
	if file.FolderTitle != "Notes" {
		t.Errorf("folder title not denormalized: %q", file.FolderTitle)
	}
}

func TestFileService_CreateToleratesDanglingFolder(t *testing.T) {
	svc := NewFileService(&mockFileRepo{}, &mockFolderRepo{}, &mockBlobStore{}, testLogger())

	file, err := svc.CreateFile(context.Background(), &services.CreateFileRequest{
		Title:    "Orphan",
		URL:      "https://cdn.example/orphan.pdf",
		FolderID: "no-such-folder",
	})
	if err != nil {
		t.Fatalf("dangling folder must be tolerated: %v", err)
	}
	if file.FolderTitle != "" {
		t.Errorf("expected empty folder title, got %q", file.FolderTitle)
	}
}
