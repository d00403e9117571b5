package browser

import (
	"context"
	"errors"
	"time"

	"github.com/ifor-lux/luxconsole/internal/constants"
	"github.com/ifor-lux/luxconsole/internal/events"
	"github.com/ifor-lux/luxconsole/internal/store"
)

const defaultRefreshInterval = constants.RefreshInterval

// Refresh re-fetches the current directory and atomically replaces the
// listing.
//
// A scheduled refresh (forced=false) is a best-effort freshness probe: it is
// skipped entirely while the session is busy, and a dropped tick is fine
// because the next one covers it. A triggered refresh (forced=true) follows
// navigation or a settled mutation and always runs, so the listing reflects
// the outcome rather than a race.
//
// On failure the listing becomes empty and the classified error is surfaced;
// the error is returned but never propagates to a crash in the loop.
func (s *Session) Refresh(ctx context.Context, forced bool) error {
	s.mu.Lock()
	if !forced && s.busyLocked() {
		path := s.pathStringLocked()
		s.mu.Unlock()
		s.bus.Publish(events.BaseEvent{EventType: events.EventRefreshSkipped, Time: s.clock()})
		s.logger.Debugf("refresh skipped (busy): %s", path)
		return nil
	}
	path := s.pathStringLocked()
	s.lastErr = ""
	s.mu.Unlock()

	// Replacing the listing can change page height; keep the user's place
	// for background refreshes. Navigation intentionally resets the view.
	var scrollPos int
	if !forced && s.scroll != nil {
		scrollPos = s.scroll.Capture()
	}

	items, err := s.storeClient.List(ctx, path)
	if err != nil {
		s.mu.Lock()
		s.listing = nil
		s.lastErr = surfaceMessage(err, "error loading files")
		msg := s.lastErr
		s.mu.Unlock()
		s.bus.PublishError("refresh", msg)
		s.logger.Warnf("refresh %q failed: %v", path, err)
		return err
	}

	filtered := filterPlaceholders(items)

	s.mu.Lock()
	// The path may have changed while the fetch was in flight; a stale
	// result must not overwrite the new directory's pending fetch.
	if s.pathStringLocked() != path {
		s.mu.Unlock()
		return nil
	}
	s.listing = filtered
	s.mu.Unlock()

	if !forced && s.scroll != nil {
		s.scroll.Restore(scrollPos)
	}

	s.bus.PublishListing(path, len(filtered), forced)
	return nil
}

// Run drives scheduled refreshes until the context is cancelled. Errors are
// surfaced through the session and the event bus; the loop never stops on
// them.
func (s *Session) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = s.Refresh(ctx, false)
		}
	}
}

// busyLocked is the suppression predicate for scheduled refreshes: one
// derived signal instead of scattered booleans, so the condition stays
// auditable.
func (s *Session) busyLocked() bool {
	now := s.clock()
	switch {
	case s.menuOpen:
		return true
	case s.updating:
		return true
	case s.interaction.Kind != InteractionNone:
		return true
	case now.Sub(s.lastScroll) < constants.ScrollQuietWindow:
		return true
	case now.Sub(s.lastInteraction) < constants.InteractionQuietWindow:
		return true
	}
	return false
}

// filterPlaceholders removes the folder placeholder file from a listing.
// It exists only to make empty folders representable and is never shown.
func filterPlaceholders(items []store.Item) []store.Item {
	out := make([]store.Item, 0, len(items))
	for _, it := range items {
		if it.Name == constants.FolderPlaceholderName {
			continue
		}
		out = append(out, it)
	}
	return out
}

// surfaceMessage converts a store failure into the single human-readable
// string shown inline. The store's own message wins when it sent one.
func surfaceMessage(err error, fallback string) string {
	var apiErr *store.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Kind == store.FailureTransport {
			return "could not reach store"
		}
		if apiErr.Message != "" {
			return apiErr.Message
		}
	}
	return fallback
}
