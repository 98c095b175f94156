package fixture

import (
	"log/slog"
	"sync/atomic"

	"github.com/ofwtools/ofwmock/pkg/logging"
)

// Store holds the currently published fixture snapshot.
//
// The snapshot is replaced wholesale by Reload via a single atomic pointer
// swap; individual entities are never mutated in place. Readers call
// Snapshot and keep using the value they got, even across a reload.
type Store struct {
	dir          string
	defaultToken string
	log          *slog.Logger
	current      atomic.Pointer[Snapshot]
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets the operational logger for the store.
func WithLogger(log *slog.Logger) StoreOption {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// NewStore creates a store for the given fixture directory. The store is
// empty until the first Load; Snapshot still returns usable defaults.
func NewStore(dir string, defaultToken string, opts ...StoreOption) *Store {
	s := &Store{
		dir:          dir,
		defaultToken: defaultToken,
		log:          logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the configured fixture directory.
func (s *Store) Dir() string {
	return s.dir
}

// Snapshot returns the current snapshot. Before the first successful load
// it returns a snapshot of pure defaults.
func (s *Store) Snapshot() *Snapshot {
	if snap := s.current.Load(); snap != nil {
		return snap
	}
	return emptySnapshot(s.defaultToken)
}

// Load builds a snapshot from the fixture directory and publishes it.
// On failure the previously published snapshot (if any) stays in place.
func (s *Store) Load() error {
	snap, err := Load(s.dir, s.defaultToken)
	if err != nil {
		return err
	}

	for i := range snap.Warnings {
		w := &snap.Warnings[i]
		s.log.Warn("fixture problem", "file", w.File, "reason", w.Message)
	}
	s.log.Info("fixtures loaded",
		"dir", s.dir,
		"folders", len(snap.Folders.SystemFolders)+len(snap.Folders.UserFolders),
		"messages", len(snap.Messages),
		"fullMessages", len(snap.FullMessages),
		"warnings", len(snap.Warnings),
	)

	s.current.Store(snap)
	return nil
}

// Reload re-reads the originally configured fixture directory and
// atomically swaps in the new snapshot. On failure the old snapshot
// stays published.
func (s *Store) Reload() error {
	return s.Load()
}

func emptySnapshot(defaultToken string) *Snapshot {
	return &Snapshot{
		Folders:      FolderSet{SystemFolders: []Folder{}, UserFolders: []Folder{}},
		Messages:     []Message{},
		FullMessages: map[string]Message{},
		LocalStorage: map[string]any{"auth": defaultToken, "userId": nil},
	}
}
