package elibrary

import (
	"context"
	"errors"
	"testing"
	"time"

	"saedshub/internal/domain"
	"saedshub/internal/domain/models"
)

func TestResolve_DirectURLWinsAndIsPermissive(t *testing.T) {
	// Opaque share links with no .pdf extension still resolve directly
	books := newMockBookRepo(&models.Book{
		ID:     "b1",
		Title:  "Combined Maths Guide",
		PDFURL: "https://drive.example.com/share/abc123",
	})
	resolver := NewFileResolver(books, &mockFileRepo{}, testLogger())

	res, err := resolver.Resolve(context.Background(), "b1")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Strategy != StrategyDirectURL {
		t.Errorf("expected %s, got %s", StrategyDirectURL, res.Strategy)
	}
	if res.URL != "https://drive.example.com/share/abc123" {
		t.Errorf("unexpected url %s", res.URL)
	}
	if res.FileType != "application/pdf" {
		t.Errorf("direct resolutions are reported as pdf, got %s", res.FileType)
	}
}

func TestResolve_IndexedLookupBeatsEnsureFromBook(t *testing.T) {
	books := newMockBookRepo(&models.Book{
		ID:       "b2",
		Title:    "Algebra Basics",
		PDFURL:   "",
		FolderID: "al-past-maths",
	})
	files := &mockFileRepo{files: []models.File{{
		ID:        "f1",
		Title:     "Algebra Basics Notes",
		URL:       "https://cdn.example/x.pdf",
		FolderID:  "al-past-maths",
		FileType:  "application/pdf",
		CreatedAt: time.Now(),
	}}}
	resolver := NewFileResolver(books, files, testLogger())

	res, err := resolver.Resolve(context.Background(), "b2")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Strategy != StrategyIndexedLookup {
		t.Errorf("expected %s, got %s", StrategyIndexedLookup, res.Strategy)
	}
	if res.URL != "https://cdn.example/x.pdf" || res.FileID != "f1" {
		t.Errorf("unexpected resolution: %+v", res)
	}
	if len(files.files) != 1 {
		t.Errorf("resolution must not create records, have %d", len(files.files))
	}
}

func TestResolve_TitleLookupDropsFolderConstraint(t *testing.T) {
	books := newMockBookRepo(&models.Book{
		ID:       "b3",
		Title:    "Physics Unit 1",
		FolderID: "some-other-folder",
	})
	files := &mockFileRepo{files: []models.File{{
		ID:        "f2",
		Title:     "physics unit 1 revision",
		URL:       "https://cdn.example/p.pdf",
		FolderID:  "al-physics-notes",
		FileType:  "application/pdf",
		CreatedAt: time.Now(),
	}}}
	resolver := NewFileResolver(books, files, testLogger())

	res, err := resolver.Resolve(context.Background(), "b3")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Strategy != StrategyTitleLookup {
		t.Errorf("expected %s, got %s", StrategyTitleLookup, res.Strategy)
	}
	if res.FileID != "f2" {
		t.Errorf("unexpected file: %+v", res)
	}
}

func TestResolve_IndexedLookupPicksNewest(t *testing.T) {
	now := time.Now()
	books := newMockBookRepo(&models.Book{
		ID:       "b4",
		Title:    "Chemistry",
		FolderID: "al-chem",
	})
	files := &mockFileRepo{files: []models.File{
		{ID: "old", Title: "Chemistry v1", URL: "https://cdn.example/c1.pdf", FolderID: "al-chem", FileType: "application/pdf", CreatedAt: now.Add(-time.Hour)},
		{ID: "new", Title: "Chemistry v2", URL: "https://cdn.example/c2.pdf", FolderID: "al-chem", FileType: "application/pdf", CreatedAt: now},
	}}
	resolver := NewFileResolver(books, files, testLogger())

	res, err := resolver.Resolve(context.Background(), "b4")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.FileID != "new" {
		t.Errorf("expected most recent record, got %s", res.FileID)
	}
}

func TestResolve_NotFound(t *testing.T) {
	books := newMockBookRepo(&models.Book{ID: "b5", Title: "Unindexed Book"})
	resolver := NewFileResolver(books, &mockFileRepo{}, testLogger())

	_, err := resolver.Resolve(context.Background(), "b5")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestResolve_UnknownBook(t *testing.T) {
	resolver := NewFileResolver(newMockBookRepo(), &mockFileRepo{}, testLogger())

	_, err := resolver.Resolve(context.Background(), "nope")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEnsureFromBook_CreatesOnceKeyedByURL(t *testing.T) {
	books := newMockBookRepo(&models.Book{
		ID:          "b6",
		Title:       "Statistics Notes",
		Description: "Grade 13",
		PDFURL:      "https://cdn.example/unique.pdf",
		FolderID:    "al-maths-combined-notes",
		FolderTitle: "Notes",
	})
	files := &mockFileRepo{}
	resolver := NewFileResolver(books, files, testLogger())

	first, err := resolver.EnsureFromBook(context.Background(), "b6")
	if err != nil {
		t.Fatalf("first ensure: %v", err)
	}
	if first.URL != "https://cdn.example/unique.pdf" {
		t.Errorf("unexpected url %s", first.URL)
	}
	if first.FolderID != "al-maths-combined-notes" {
		t.Errorf("folder not copied from book: %s", first.FolderID)
	}

	second, err := resolver.EnsureFromBook(context.Background(), "b6")
	if err != nil {
		t.Fatalf("second ensure: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("second ensure created a new record: %s vs %s", second.ID, first.ID)
	}
	if len(files.files) != 1 {
		t.Fatalf("expected exactly one record, got %d", len(files.files))
	}
}

func TestEnsureFromBook_SyntheticFallbacks(t *testing.T) {
	// No folder and an opaque URL: both publicID and folderID get synthetics
	books := newMockBookRepo(&models.Book{
		ID:     "b7",
		Title:  "Opaque Share",
		PDFURL: "https://drive.example.com/open?id=xyz",
	})
	files := &mockFileRepo{}
	resolver := NewFileResolver(books, files, testLogger())

	file, err := resolver.EnsureFromBook(context.Background(), "b7")
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if file.PublicID != "book-b7" {
		t.Errorf("expected synthetic public id, got %s", file.PublicID)
	}
	if file.FolderID != "book-b7" {
		t.Errorf("expected synthetic folder id, got %s", file.FolderID)
	}
}

func TestEnsureFromBook_NoDirectURL(t *testing.T) {
	books := newMockBookRepo(&models.Book{ID: "b8", Title: "No File"})
	resolver := NewFileResolver(books, &mockFileRepo{}, testLogger())

	_, err := resolver.EnsureFromBook(context.Background(), "b8")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestExtractPublicID(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://res.cloudinary.com/demo/raw/upload/v1699999999/elibrary/algebra-notes.pdf", "elibrary/algebra-notes"},
		{"https://res.cloudinary.com/demo/raw/upload/report.pdf", "report"},
		{"https://res.cloudinary.com/demo/raw/upload/v12/a/b/c.docx", "a/b/c"},
		{"https://res.cloudinary.com/demo/raw/upload/v12/paper.pdf?dl=1", "paper"},
		{"https://drive.example.com/open?id=xyz", ""},
		{"https://cdn.example/no-upload-segment.pdf", ""},
		{"", ""},
	}

	for _, tc := range cases {
		if got := ExtractPublicID(tc.url); got != tc.want {
			t.Errorf("ExtractPublicID(%q) = %q, want %q", tc.url, got, tc.want)
		}
	}
}
