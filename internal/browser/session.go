// Package browser emulates a hierarchical, mutable filesystem on top of the
// content store's single-file commit API.
//
// A Session owns the current directory listing and all the state a file
// browser needs around it: the path stack, the multi-select set, the one
// open interaction, and the activity signals that keep the background
// refresh loop from disrupting the user.
package browser

import (
	"context"
	"sync"
	"time"

	"github.com/ifor-lux/luxconsole/internal/events"
	"github.com/ifor-lux/luxconsole/internal/logging"
	"github.com/ifor-lux/luxconsole/internal/store"
)

// ContentStore is the store surface the browser consumes.
// *store.Client satisfies it.
type ContentStore interface {
	List(ctx context.Context, path string) ([]store.Item, error)
	Get(ctx context.Context, path string) (*store.File, error)
	Put(ctx context.Context, path, message string, content []byte, sha string) (string, error)
	Delete(ctx context.Context, path, message, sha string) error
	RawURL(path string) string
	FetchRaw(ctx context.Context, url string) ([]byte, error)
}

// InteractionKind tags the one interaction a session may have open.
type InteractionKind int

const (
	InteractionNone InteractionKind = iota
	InteractionRenaming
	InteractionEditing
	InteractionCreatingFolder
	InteractionDeleting
	InteractionPreviewing
)

// Interaction is the pending interaction state. Exactly one may be open;
// its presence suppresses scheduled refreshes.
type Interaction struct {
	Kind   InteractionKind
	Item   store.Item // renaming, editing, deleting, previewing
	Buffer string     // editing: current text content
	URL    string     // previewing: resolved image URL
}

// ScrollKeeper captures and restores a view position around a listing
// replacement, since swapping the listing can change page height.
// Implementations belong to the presentation layer.
type ScrollKeeper interface {
	Capture() int
	Restore(pos int)
}

// Session is the in-memory browsing state for one repository.
// All state is per-session; nothing is persisted locally.
type Session struct {
	storeClient ContentStore
	bus         *events.Bus
	logger      *logging.Logger
	scroll      ScrollKeeper

	mu              sync.Mutex
	path            []string
	listing         []store.Item
	selection       map[string]struct{}
	interaction     Interaction
	menuOpen        bool
	lastScroll      time.Time
	lastInteraction time.Time
	updating        bool
	lastErr         string

	interval time.Duration
	clock    func() time.Time
}

// Option configures a Session.
type Option func(*Session)

// WithScrollKeeper installs the presentation layer's scroll hook.
func WithScrollKeeper(sk ScrollKeeper) Option {
	return func(s *Session) { s.scroll = sk }
}

// WithRefreshInterval overrides the scheduled refresh period. Non-positive
// durations are ignored and the default period stays.
func WithRefreshInterval(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.interval = d
		}
	}
}

// withClock replaces the activity clock in tests.
func withClock(clock func() time.Time) Option {
	return func(s *Session) { s.clock = clock }
}

// NewSession creates a session rooted at the repository root.
func NewSession(cs ContentStore, bus *events.Bus, logger *logging.Logger, opts ...Option) *Session {
	if bus == nil {
		bus = events.NewBus(0)
	}
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	s := &Session{
		storeClient: cs,
		bus:         bus,
		logger:      logger,
		selection:   make(map[string]struct{}),
		interval:    defaultRefreshInterval,
		clock:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns a copy of the current path stack.
func (s *Session) Path() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.path...)
}

// PathString returns the slash-joined current path, "" at root.
func (s *Session) PathString() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pathStringLocked()
}

// Breadcrumbs derives the breadcrumb trail: the root label followed by each
// path segment.
func (s *Session) Breadcrumbs(rootLabel string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	crumbs := make([]string, 0, len(s.path)+1)
	crumbs = append(crumbs, rootLabel)
	crumbs = append(crumbs, s.path...)
	return crumbs
}

// Enter descends into a directory of the current listing and re-fetches.
// Selection does not survive navigation.
func (s *Session) Enter(ctx context.Context, name string) error {
	s.mu.Lock()
	s.path = append(s.path, name)
	s.clearNavScopedLocked()
	s.mu.Unlock()

	s.bus.Publish(events.PathEvent{
		BaseEvent: events.BaseEvent{EventType: events.EventPathChanged, Time: s.clock()},
		Path:      s.PathString(),
	})
	return s.Refresh(ctx, true)
}

// Back pops the deepest path segment. At root it only refreshes.
func (s *Session) Back(ctx context.Context) error {
	s.mu.Lock()
	if len(s.path) > 0 {
		s.path = s.path[:len(s.path)-1]
	}
	s.clearNavScopedLocked()
	s.mu.Unlock()
	return s.Refresh(ctx, true)
}

// NavigateTo truncates the path to the first n segments, as when clicking a
// breadcrumb. n = 0 returns to the root.
func (s *Session) NavigateTo(ctx context.Context, n int) error {
	s.mu.Lock()
	if n < 0 {
		n = 0
	}
	if n < len(s.path) {
		s.path = s.path[:n]
	}
	s.clearNavScopedLocked()
	s.mu.Unlock()
	return s.Refresh(ctx, true)
}

// clearNavScopedLocked drops state scoped to one directory view.
func (s *Session) clearNavScopedLocked() {
	s.selection = make(map[string]struct{})
	s.interaction = Interaction{}
}

// Listing returns a copy of the current listing. The folder placeholder is
// already filtered out at refresh time.
func (s *Session) Listing() []store.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]store.Item(nil), s.listing...)
}

// ItemByName finds a listing entry by name.
func (s *Session) ItemByName(name string) (store.Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.listing {
		if it.Name == name {
			return it, true
		}
	}
	return store.Item{}, false
}

// ToggleSelect flips an item's membership in the selection set.
// Selection is independent of navigation handlers.
func (s *Session) ToggleSelect(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.selection[name]; ok {
		delete(s.selection, name)
	} else {
		s.selection[name] = struct{}{}
	}
}

// Selected reports whether an item is selected.
func (s *Session) Selected(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.selection[name]
	return ok
}

// SelectionCount returns the number of selected items.
func (s *Session) SelectionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.selection)
}

// SetMenuOpen records whether a context menu is showing. An open menu
// suppresses scheduled refreshes: replacing the listing would tear the menu
// off the entry it belongs to.
func (s *Session) SetMenuOpen(open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.menuOpen = open
}

// NoteScroll records a scroll; scheduled refreshes stay suppressed for a
// quiet window afterwards.
func (s *Session) NoteScroll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastScroll = s.clock()
}

// NoteInteraction records any other tracked user interaction.
func (s *Session) NoteInteraction() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastInteraction = s.clock()
}

// Interaction returns the pending interaction state.
func (s *Session) Interaction() Interaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interaction
}

// BeginRename opens the rename interaction for an item.
func (s *Session) BeginRename(item store.Item) {
	s.setInteraction(Interaction{Kind: InteractionRenaming, Item: item})
}

// BeginDelete opens the delete confirmation for an item.
func (s *Session) BeginDelete(item store.Item) {
	s.setInteraction(Interaction{Kind: InteractionDeleting, Item: item})
}

// BeginCreateFolder opens the folder-name interaction.
func (s *Session) BeginCreateFolder() {
	s.setInteraction(Interaction{Kind: InteractionCreatingFolder})
}

// CancelInteraction closes whatever interaction is open.
func (s *Session) CancelInteraction() {
	s.setInteraction(Interaction{})
}

func (s *Session) setInteraction(in Interaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interaction = in
}

// Updating reports whether any mutation operation is in flight. The UI
// renders this as one unified synchronizing indicator.
func (s *Session) Updating() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updating
}

// Err returns the current surfaced error message, "" when none.
func (s *Session) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Session) pathStringLocked() string {
	if len(s.path) == 0 {
		return ""
	}
	out := s.path[0]
	for _, seg := range s.path[1:] {
		out += "/" + seg
	}
	return out
}
