package browser

import (
	"context"
	"fmt"

	"github.com/ifor-lux/luxconsole/internal/classify"
	"github.com/ifor-lux/luxconsole/internal/constants"
	"github.com/ifor-lux/luxconsole/internal/events"
	"github.com/ifor-lux/luxconsole/internal/store"
	"github.com/ifor-lux/luxconsole/internal/util/paths"
)

// Mutation operations. Each is a short sequence of store calls with its own
// partial-failure policy; none are atomic at the store level. Every
// operation:
//
//   - clears the previous surfaced error,
//   - holds the shared updating flag for its duration (which also keeps the
//     scheduled refresh loop away),
//   - applies its optimistic listing change, and
//   - finishes with a triggered refresh so the authoritative listing
//     supersedes the optimistic one.

// Upload writes content as a new file in the current directory.
//
// This is a create-only put: a colliding name silently overwrites the
// existing blob in the store. The original console does not guard this and
// neither do we.
func (s *Session) Upload(ctx context.Context, filename string, content []byte) error {
	if err := paths.ValidateEntryName(filename); err != nil {
		return s.surface("upload", err, "error uploading file")
	}

	done := s.beginMutation(ctx, "upload", filename)

	target := paths.Child(s.PathString(), filename)
	_, err := s.storeClient.Put(ctx, target, "Upload "+filename, content, "")
	if err != nil {
		return done(s.surface("upload", err, "error uploading file"))
	}

	// Placeholder entry until the refresh brings the real hash and URL.
	s.appendOptimistic(store.Item{Name: filename, Kind: store.KindFile})
	return done(nil)
}

// CreateFolder makes a directory appear by writing the zero-byte placeholder
// file inside it; the store has no empty-directory concept.
func (s *Session) CreateFolder(ctx context.Context, name string) error {
	if err := paths.ValidateEntryName(name); err != nil {
		return s.surface("mkdir", err, "error creating folder")
	}

	done := s.beginMutation(ctx, "mkdir", name)

	target := paths.Join(s.PathString(), name, constants.FolderPlaceholderName)
	_, err := s.storeClient.Put(ctx, target, "Create folder "+name, nil, "")
	if err != nil {
		return done(s.surface("mkdir", err, "error creating folder"))
	}

	s.appendOptimistic(store.Item{Name: name, Kind: store.KindDir})
	s.CancelInteraction()
	return done(nil)
}

// Rename relocates an entry within its directory: read the old blob, write
// it at the new name, delete the old path pinned to the original hash.
//
// The entered name reuses the original extension unless it contains a dot.
// If the delete phase fails after the write succeeded, the entry exists
// under both names; this is tolerated and shows up on the next refresh.
func (s *Session) Rename(ctx context.Context, item store.Item, entered string) error {
	if err := paths.ValidateEntryName(entered); err != nil {
		return s.surface("rename", err, "error renaming file")
	}
	finalName := paths.ApplyExtension(entered, item.Name)

	done := s.beginMutation(ctx, "rename", item.Name)

	dir := s.PathString()
	oldPath := paths.Child(dir, item.Name)
	newPath := paths.Child(dir, finalName)

	file, err := s.storeClient.Get(ctx, oldPath)
	if err != nil {
		return done(s.surface("rename", err, "error renaming file"))
	}

	msg := fmt.Sprintf("Rename %s to %s", item.Name, finalName)
	if _, err := s.storeClient.Put(ctx, newPath, msg, file.Content, ""); err != nil {
		return done(s.surface("rename", err, "error renaming file"))
	}

	if err := s.storeClient.Delete(ctx, oldPath, "Remove "+item.Name+" after rename", file.SHA); err != nil {
		// Both paths exist now. Not rolled back; the next refresh shows
		// the duplicate and the user resolves it.
		s.logger.Warnf("rename %s: old path not removed: %v", item.Name, err)
	}

	s.CancelInteraction()
	return done(nil)
}

// Delete removes an entry. Deleting an already-absent path succeeds; the
// entry is optimistically dropped from the listing right away.
func (s *Session) Delete(ctx context.Context, item store.Item) error {
	done := s.beginMutation(ctx, "delete", item.Name)

	target := paths.Child(s.PathString(), item.Name)
	if err := s.storeClient.Delete(ctx, target, "Delete "+item.Name, item.SHA); err != nil {
		return done(s.surface("delete", err, "error deleting file"))
	}

	s.removeOptimistic(item.Name)
	s.CancelInteraction()
	return done(nil)
}

// BeginEdit loads a file's content and opens the editing interaction.
// Only text-editable files qualify.
func (s *Session) BeginEdit(ctx context.Context, item store.Item) error {
	if !classify.IsEditableText(item.Name) {
		return s.surface("edit", fmt.Errorf("%s cannot be edited as text", item.Name), "this file type cannot be edited as text")
	}

	file, err := s.storeClient.Get(ctx, paths.Child(s.PathString(), item.Name))
	if err != nil {
		return s.surface("edit", err, "could not load file content")
	}

	s.setInteraction(Interaction{
		Kind:   InteractionEditing,
		Item:   item,
		Buffer: string(file.Content),
	})
	return nil
}

// SaveEdit writes new content to an open file. The file is re-fetched
// immediately before the write for its current hash: the store requires the
// hash, and a fresh one avoids clobbering a concurrent edit with a stale
// pin. Last write still wins; there is no merge.
func (s *Session) SaveEdit(ctx context.Context, item store.Item, content []byte) error {
	done := s.beginMutation(ctx, "edit", item.Name)

	target := paths.Child(s.PathString(), item.Name)
	current, err := s.storeClient.Get(ctx, target)
	if err != nil {
		return done(s.surface("edit", err, "error saving edit"))
	}

	if _, err := s.storeClient.Put(ctx, target, "Edit "+item.Name, content, current.SHA); err != nil {
		return done(s.surface("edit", err, "error saving edit"))
	}

	s.CancelInteraction()
	return done(nil)
}

// Move relocates a file into a directory of the same listing: write a copy
// at targetDir/name, then delete the original. Two-phase and non-atomic; an
// interruption between phases leaves the file in both places.
//
// A move is only offered onto a directory that is not the item itself.
func (s *Session) Move(ctx context.Context, item store.Item, targetDir store.Item) error {
	if !targetDir.IsDir() || targetDir.Name == item.Name {
		return s.surface("move", fmt.Errorf("target %q is not a directory", targetDir.Name), "error moving file")
	}

	done := s.beginMutation(ctx, "move", item.Name)

	dir := s.PathString()
	oldPath := paths.Child(dir, item.Name)
	newPath := paths.Join(dir, targetDir.Name, item.Name)

	file, err := s.storeClient.Get(ctx, oldPath)
	if err != nil {
		return done(s.surface("move", err, "error moving file"))
	}

	msg := fmt.Sprintf("Move %s to %s", item.Name, targetDir.Name)
	if _, err := s.storeClient.Put(ctx, newPath, msg, file.Content, ""); err != nil {
		return done(s.surface("move", err, "error moving file"))
	}

	if err := s.storeClient.Delete(ctx, oldPath, "Remove "+item.Name+" after move", file.SHA); err != nil {
		if !store.IsNotFound(err) {
			return done(s.surface("move", err, "error moving file"))
		}
	}

	s.removeOptimistic(item.Name)
	return done(nil)
}

// Download fetches a file's bytes, preferring the store-supplied URL and
// falling back to the raw host for entries that never got one.
func (s *Session) Download(ctx context.Context, item store.Item) ([]byte, error) {
	if item.IsDir() {
		return nil, s.surface("download", fmt.Errorf("%s is a directory", item.Name), "folders cannot be downloaded, only individual files")
	}

	url := item.DownloadURL
	if url == "" {
		url = s.storeClient.RawURL(paths.Child(s.PathString(), item.Name))
	}

	data, err := s.storeClient.FetchRaw(ctx, url)
	if err != nil {
		return nil, s.surface("download", err, "error downloading file")
	}
	return data, nil
}

// Preview resolves an image entry to a fetchable URL and opens the preview
// interaction.
func (s *Session) Preview(item store.Item) (string, error) {
	if !classify.IsImage(item.Name) {
		return "", s.surface("preview", fmt.Errorf("%s is not an image", item.Name), "only images can be previewed")
	}

	url := item.DownloadURL
	if url == "" {
		url = s.storeClient.RawURL(paths.Child(s.PathString(), item.Name))
	}

	s.setInteraction(Interaction{Kind: InteractionPreviewing, Item: item, URL: url})
	return url, nil
}

// beginMutation raises the shared updating flag and returns the settle
// function. Settling publishes the mutation outcome and issues the
// mandatory triggered refresh, after the mutation, never concurrently.
func (s *Session) beginMutation(ctx context.Context, op, name string) func(error) error {
	s.mu.Lock()
	s.updating = true
	s.lastErr = ""
	s.mu.Unlock()

	s.bus.PublishMutation(events.EventMutationStarted, op, name, nil)

	return func(opErr error) error {
		s.mu.Lock()
		s.updating = false
		s.mu.Unlock()

		s.bus.PublishMutation(events.EventMutationSettled, op, name, opErr)

		// Reconcile the listing against truth regardless of outcome.
		if err := s.Refresh(ctx, true); err != nil {
			s.logger.Warnf("post-%s refresh failed: %v", op, err)
		}
		return opErr
	}
}

// surface records err as the single current error message and returns it.
func (s *Session) surface(op string, err error, fallback string) error {
	msg := surfaceMessage(err, fallback)
	s.mu.Lock()
	s.lastErr = msg
	s.mu.Unlock()
	s.bus.PublishError(op, msg)
	return err
}

// appendOptimistic adds a pending entry to the listing until the next
// authoritative refresh replaces it.
func (s *Session) appendOptimistic(item store.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.listing {
		if it.Name == item.Name {
			return
		}
	}
	s.listing = append(s.listing, item)
}

// removeOptimistic drops exactly the named entry from the listing.
func (s *Session) removeOptimistic(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.listing[:0]
	for _, it := range s.listing {
		if it.Name != name {
			out = append(out, it)
		}
	}
	s.listing = out
}
