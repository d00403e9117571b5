package browser

import (
	"context"
	"testing"

	"github.com/ifor-lux/luxconsole/internal/store"
)

// TestUploadThenRefresh verifies that an upload lands in the store and the
// settle refresh replaces the optimistic entry with the authoritative one.
func TestUploadThenRefresh(t *testing.T) {
	fs := newFakeStore()
	s := newTestSession(t, fs)
	ctx := context.Background()

	if err := s.Upload(ctx, "report.pdf", []byte("%PDF")); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if !fs.has("report.pdf") {
		t.Fatal("uploaded blob missing from store")
	}

	items := s.Listing()
	if len(items) != 1 || items[0].Name != "report.pdf" {
		t.Fatalf("Listing() = %v, want [report.pdf]", names(items))
	}
	if items[0].SHA == "" {
		t.Error("listing entry has no hash; settle refresh did not run")
	}
}

// TestUploadRejectsInvalidName verifies upload validation short-circuits
// before any store call.
func TestUploadRejectsInvalidName(t *testing.T) {
	fs := newFakeStore()
	s := newTestSession(t, fs)

	if err := s.Upload(context.Background(), "a/b.txt", []byte("x")); err == nil {
		t.Fatal("Upload() with slash in name succeeded, want error")
	}
	if fs.has("a/b.txt") {
		t.Error("invalid upload reached the store")
	}
}

// TestCreateFolder verifies the placeholder write that makes an empty
// directory representable, and that the placeholder stays hidden.
func TestCreateFolder(t *testing.T) {
	fs := newFakeStore()
	s := newTestSession(t, fs)
	ctx := context.Background()

	if err := s.CreateFolder(ctx, "images"); err != nil {
		t.Fatalf("CreateFolder() error = %v", err)
	}
	if !fs.has("images/.gitkeep") {
		t.Fatal("placeholder blob missing from store")
	}

	items := s.Listing()
	if len(items) != 1 || items[0].Name != "images" || !items[0].IsDir() {
		t.Errorf("Listing() = %+v, want single images directory", items)
	}

	if err := s.Enter(ctx, "images"); err != nil {
		t.Fatalf("Enter(images) error = %v", err)
	}
	if got := s.Listing(); len(got) != 0 {
		t.Errorf("Listing() inside new folder = %v, want empty", names(got))
	}
}

// TestRenameReusesExtension verifies that a dotless entered name inherits
// the original's extension.
func TestRenameReusesExtension(t *testing.T) {
	fs := newFakeStore()
	fs.seed("summary.txt", []byte("body"))

	s := newTestSession(t, fs)
	ctx := context.Background()
	if err := s.Refresh(ctx, true); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	item, ok := s.ItemByName("summary.txt")
	if !ok {
		t.Fatal("seed entry not listed")
	}

	if err := s.Rename(ctx, item, "overview"); err != nil {
		t.Fatalf("Rename() error = %v", err)
	}
	if !fs.has("overview.txt") {
		t.Error("renamed blob missing; extension not reused")
	}
	if fs.has("summary.txt") {
		t.Error("original path still present after rename")
	}
}

// TestRenameExplicitExtensionWins verifies that an entered name containing
// a dot is taken verbatim.
func TestRenameExplicitExtensionWins(t *testing.T) {
	fs := newFakeStore()
	fs.seed("notes.txt", []byte("body"))

	s := newTestSession(t, fs)
	ctx := context.Background()
	if err := s.Refresh(ctx, true); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	item, _ := s.ItemByName("notes.txt")

	if err := s.Rename(ctx, item, "final.md"); err != nil {
		t.Fatalf("Rename() error = %v", err)
	}
	if !fs.has("final.md") {
		t.Error("expected final.md in store")
	}
	if fs.has("final.txt") {
		t.Error("entered extension was overridden")
	}
}

// TestRenameDeletePhaseFailureTolerated verifies that a failed cleanup
// delete leaves both names in place without failing the rename.
func TestRenameDeletePhaseFailureTolerated(t *testing.T) {
	fs := newFakeStore()
	fs.seed("a.txt", []byte("body"))

	s := newTestSession(t, fs)
	ctx := context.Background()
	if err := s.Refresh(ctx, true); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	item, _ := s.ItemByName("a.txt")

	fs.deleteErr = &store.APIError{Kind: store.FailureRejected, StatusCode: 409, Message: "conflict"}
	if err := s.Rename(ctx, item, "b"); err != nil {
		t.Fatalf("Rename() error = %v, want tolerated delete failure", err)
	}
	if !fs.has("b.txt") || !fs.has("a.txt") {
		t.Error("expected both names present after failed cleanup delete")
	}
}

// TestDeleteRemovesExactlyOne verifies delete only touches the named entry.
func TestDeleteRemovesExactlyOne(t *testing.T) {
	fs := newFakeStore()
	fs.seed("keep.txt", nil)
	fs.seed("drop.txt", nil)

	s := newTestSession(t, fs)
	ctx := context.Background()
	if err := s.Refresh(ctx, true); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	item, _ := s.ItemByName("drop.txt")

	if err := s.Delete(ctx, item); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if fs.has("drop.txt") {
		t.Error("deleted blob still in store")
	}
	if !fs.has("keep.txt") {
		t.Error("unrelated blob removed")
	}
	if got := names(s.Listing()); len(got) != 1 || got[0] != "keep.txt" {
		t.Errorf("Listing() = %v, want [keep.txt]", got)
	}
}

// TestDeleteAbsentPathSucceeds verifies the idempotent delete: removing an
// already-gone entry is success, not an error.
func TestDeleteAbsentPathSucceeds(t *testing.T) {
	fs := newFakeStore()
	s := newTestSession(t, fs)

	ghost := store.Item{Name: "gone.txt", Kind: store.KindFile, SHA: "sha-stale"}
	if err := s.Delete(context.Background(), ghost); err != nil {
		t.Fatalf("Delete() of absent path error = %v, want nil", err)
	}
}

// TestSaveEditUsesFreshHash verifies the save re-fetches the file and pins
// the write to the hash current at save time, not the stale one from open.
func TestSaveEditUsesFreshHash(t *testing.T) {
	fs := newFakeStore()
	fs.seed("doc.md", []byte("v1"))

	s := newTestSession(t, fs)
	ctx := context.Background()
	if err := s.Refresh(ctx, true); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	item, _ := s.ItemByName("doc.md")

	if err := s.BeginEdit(ctx, item); err != nil {
		t.Fatalf("BeginEdit() error = %v", err)
	}
	if got := s.Interaction(); got.Kind != InteractionEditing || got.Buffer != "v1" {
		t.Fatalf("Interaction() = %+v, want editing with v1 buffer", got)
	}

	// A concurrent writer lands between open and save.
	freshSHA := fs.seed("doc.md", []byte("v2"))

	if err := s.SaveEdit(ctx, item, []byte("v3")); err != nil {
		t.Fatalf("SaveEdit() error = %v", err)
	}
	if len(fs.putSHAs) == 0 || fs.putSHAs[len(fs.putSHAs)-1] != freshSHA {
		t.Errorf("SaveEdit pinned sha %v, want fresh %q", fs.putSHAs, freshSHA)
	}
	if s.Interaction().Kind != InteractionNone {
		t.Error("editing interaction still open after save")
	}
}

// TestBeginEditRejectsNonText verifies that only text-editable files open
// the editor.
func TestBeginEditRejectsNonText(t *testing.T) {
	fs := newFakeStore()
	fs.seed("photo.png", []byte{0x89})

	s := newTestSession(t, fs)
	ctx := context.Background()
	if err := s.Refresh(ctx, true); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	item, _ := s.ItemByName("photo.png")

	if err := s.BeginEdit(ctx, item); err == nil {
		t.Fatal("BeginEdit() on image succeeded, want error")
	}
	if s.Interaction().Kind != InteractionNone {
		t.Error("interaction opened for non-text file")
	}
}

// TestMoveIntoDirectory verifies the copy-then-delete move: the blob ends
// up under the target directory and the original path is gone.
func TestMoveIntoDirectory(t *testing.T) {
	fs := newFakeStore()
	fs.seed("a.txt", []byte("body"))
	fs.seed("docs/.gitkeep", nil)

	s := newTestSession(t, fs)
	ctx := context.Background()
	if err := s.Refresh(ctx, true); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	item, _ := s.ItemByName("a.txt")
	target, _ := s.ItemByName("docs")

	if err := s.Move(ctx, item, target); err != nil {
		t.Fatalf("Move() error = %v", err)
	}
	if !fs.has("docs/a.txt") {
		t.Error("moved blob missing from target directory")
	}
	if fs.has("a.txt") {
		t.Error("original path still present after move")
	}
	if got := names(s.Listing()); len(got) != 1 || got[0] != "docs" {
		t.Errorf("Listing() = %v, want [docs]", got)
	}
}

// TestMoveRejectsNonDirectoryTarget verifies the target guard.
func TestMoveRejectsNonDirectoryTarget(t *testing.T) {
	fs := newFakeStore()
	fs.seed("a.txt", nil)
	fs.seed("b.txt", nil)

	s := newTestSession(t, fs)
	ctx := context.Background()
	if err := s.Refresh(ctx, true); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	item, _ := s.ItemByName("a.txt")
	target, _ := s.ItemByName("b.txt")

	if err := s.Move(ctx, item, target); err == nil {
		t.Fatal("Move() onto a file succeeded, want error")
	}
	if fs.has("b.txt/a.txt") {
		t.Error("move onto a file reached the store")
	}
}

// TestDownloadFallsBackToRawURL verifies the raw-host fallback for entries
// without a store-supplied URL.
func TestDownloadFallsBackToRawURL(t *testing.T) {
	fs := newFakeStore()
	fs.seed("data.bin", []byte{1, 2, 3})

	s := newTestSession(t, fs)
	item := store.Item{Name: "data.bin", Kind: store.KindFile} // no DownloadURL

	data, err := s.Download(context.Background(), item)
	if err != nil {
		t.Fatalf("Download() error = %v", err)
	}
	if len(data) != 3 {
		t.Errorf("Download() = %v, want 3 bytes", data)
	}
}

// TestDownloadRejectsDirectory verifies that directories cannot be
// downloaded.
func TestDownloadRejectsDirectory(t *testing.T) {
	fs := newFakeStore()
	s := newTestSession(t, fs)

	if _, err := s.Download(context.Background(), store.Item{Name: "docs", Kind: store.KindDir}); err == nil {
		t.Fatal("Download() of directory succeeded, want error")
	}
}

// TestPreview verifies the image guard and URL resolution.
func TestPreview(t *testing.T) {
	fs := newFakeStore()
	s := newTestSession(t, fs)

	url, err := s.Preview(store.Item{Name: "pic.jpg", Kind: store.KindFile, DownloadURL: "raw://pic.jpg"})
	if err != nil {
		t.Fatalf("Preview() error = %v", err)
	}
	if url != "raw://pic.jpg" {
		t.Errorf("Preview() url = %q, want raw://pic.jpg", url)
	}
	if got := s.Interaction(); got.Kind != InteractionPreviewing {
		t.Errorf("Interaction() kind = %v, want previewing", got.Kind)
	}

	if _, err := s.Preview(store.Item{Name: "doc.txt", Kind: store.KindFile}); err == nil {
		t.Error("Preview() of non-image succeeded, want error")
	}
}

// TestMutationHoldsUpdatingFlag verifies that the shared updating flag is
// down again once an operation settles.
func TestMutationHoldsUpdatingFlag(t *testing.T) {
	fs := newFakeStore()
	s := newTestSession(t, fs)

	if err := s.Upload(context.Background(), "f.txt", []byte("x")); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if s.Updating() {
		t.Error("Updating() still true after settle")
	}
	if s.Err() != "" {
		t.Errorf("Err() = %q after successful mutation, want empty", s.Err())
	}
}
