// Package fixture loads captured OFW API responses from disk and serves
// them as immutable in-memory snapshots.
//
// A snapshot is built wholesale from the fixture directory and published
// with a single atomic pointer swap, so concurrent readers always observe
// either the fully-old or fully-new data, never a mix.
package fixture

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Fixture file names, fixed by the upstream OFW client export format.
const (
	FileFolders      = "folders.json"
	FileMessages     = "messages.json"
	FileAllMessages  = "all_messages.json"
	FileFullMessage  = "full_message.json"
	FileLocalStorage = "localstorage_data.json"
)

// Files returns the fixture file names a snapshot is built from.
func Files() []string {
	return []string{
		FileFolders,
		FileMessages,
		FileAllMessages,
		FileFullMessage,
		FileLocalStorage,
	}
}

// Folder is an opaque folder record as captured from the real API.
type Folder = map[string]any

// Message is an opaque message record as captured from the real API.
type Message = map[string]any

// FolderSet is the payload of the messageFolders endpoint.
type FolderSet struct {
	SystemFolders []Folder `json:"systemFolders"`
	UserFolders   []Folder `json:"userFolders"`
}

// Metadata describes one page of a message listing.
type Metadata struct {
	Page  int  `json:"page"`
	Count int  `json:"count"`
	First bool `json:"first"`
	Last  bool `json:"last"`
}

// MessageList is the paged message payload as captured in messages.json.
type MessageList struct {
	Metadata Metadata  `json:"metadata"`
	Data     []Message `json:"data"`
}

// Snapshot is the complete immutable view of all loaded fixtures.
// Once published it is never mutated; reload builds a replacement.
type Snapshot struct {
	// Folders holds the folder fixture, or empty lists when absent.
	Folders FolderSet

	// Messages is the merged message pool: messages.json data first,
	// then the flat all_messages.json entries, insertion order kept.
	Messages []Message

	// FullMessages maps canonical message id to the enriched record
	// from full_message.json.
	FullMessages map[string]Message

	// LocalStorage is the client storage bag from localstorage_data.json.
	LocalStorage map[string]any

	// LoadedAt is when this snapshot was built.
	LoadedAt time.Time

	// Warnings are the non-fatal problems hit while loading.
	Warnings []LoadError
}

// LoadError describes a non-fatal problem loading one fixture file.
type LoadError struct {
	File    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.File, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.File, e.Message)
}

// CanonicalID renders a fixture id value as a comparable string.
// Numeric and string forms of the same id compare equal ("7" matches 7).
// Returns "" for nil or unrepresentable values.
func CanonicalID(v any) string {
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		return id
	case json.Number:
		return id.String()
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	case int:
		return strconv.Itoa(id)
	case int64:
		return strconv.FormatInt(id, 10)
	default:
		return fmt.Sprintf("%v", id)
	}
}
