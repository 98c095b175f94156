package fixture

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Load reads the fixture files from dir and builds a snapshot.
//
// A missing or unparsable file is never fatal: the corresponding entity
// gets its documented default and a warning is recorded on the snapshot.
// Load fails only when dir itself is not a readable directory.
//
// defaultToken is the auth token placed in the localstorage default when
// localstorage_data.json is absent.
func Load(dir string, defaultToken string) (*Snapshot, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("fixture directory not found: %s", dir)
		}
		return nil, fmt.Errorf("failed to access fixture directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("fixture path is not a directory: %s", dir)
	}

	snap := &Snapshot{
		Folders:      FolderSet{SystemFolders: []Folder{}, UserFolders: []Folder{}},
		Messages:     []Message{},
		FullMessages: map[string]Message{},
		LocalStorage: map[string]any{"auth": defaultToken, "userId": nil},
		LoadedAt:     time.Now().UTC(),
	}

	// folders.json
	var folders FolderSet
	if ok := loadFile(snap, dir, FileFolders, &folders); ok {
		if folders.SystemFolders == nil {
			folders.SystemFolders = []Folder{}
		}
		if folders.UserFolders == nil {
			folders.UserFolders = []Folder{}
		}
		snap.Folders = folders
	}

	// messages.json contributes its data array to the pool.
	var list MessageList
	if ok := loadFile(snap, dir, FileMessages, &list); ok {
		snap.Messages = append(snap.Messages, list.Data...)
	}

	// all_messages.json is a flat array appended after messages.json.
	var all []Message
	if ok := loadFile(snap, dir, FileAllMessages, &all); ok {
		snap.Messages = append(snap.Messages, all...)
	}

	// full_message.json is a single enriched record keyed by its id.
	var full Message
	if ok := loadFile(snap, dir, FileFullMessage, &full); ok {
		if id := CanonicalID(full["id"]); id != "" {
			snap.FullMessages[id] = full
		} else {
			snap.Warnings = append(snap.Warnings, LoadError{
				File:    FileFullMessage,
				Message: "record has no id, ignoring",
			})
		}
	}

	// localstorage_data.json is served verbatim.
	var local map[string]any
	if ok := loadFile(snap, dir, FileLocalStorage, &local); ok && local != nil {
		snap.LocalStorage = local
	}

	return snap, nil
}

// loadFile decodes one fixture file into v. Returns false and records a
// warning when the file is missing or not valid JSON.
func loadFile(snap *Snapshot, dir, name string, v any) bool {
	path := filepath.Join(dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		msg := "file missing, using default"
		if !os.IsNotExist(err) {
			msg = "file unreadable, using default"
		}
		snap.Warnings = append(snap.Warnings, LoadError{File: name, Message: msg, Err: err})
		return false
	}

	// UseNumber keeps ids as json.Number so numeric and string forms
	// stay comparable without float rounding.
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		snap.Warnings = append(snap.Warnings, LoadError{
			File:    name,
			Message: "invalid JSON, using default",
			Err:     err,
		})
		return false
	}
	return true
}
