package server

import (
	"net/http"
	"strings"

	"github.com/ofwtools/ofwmock/pkg/fixture"
	"github.com/ofwtools/ofwmock/pkg/httputil"
)

// Folder count fields injected when includeFolderCounts is requested.
const (
	fieldTotalCount  = "totalMessageCount"
	fieldUnreadCount = "unreadMessageCount"
)

// handleHealth answers the liveness probe. No auth, fixed payload.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteOK(w, map[string]string{
		"status":  "ok",
		"service": "ofwmock",
	})
}

// handleLocalStorage returns the captured client storage bag verbatim.
func (s *Server) handleLocalStorage(w http.ResponseWriter, _ *http.Request) {
	snap := s.store.Snapshot()
	httputil.WriteOK(w, snap.LocalStorage)
}

// handleFolders returns the folder fixture. includeFolderCounts defaults
// to true; when set, folders missing their count fields get them injected
// as zero. Counts are never computed from the message pool.
func (s *Server) handleFolders(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()

	include := true
	if raw := r.URL.Query().Get("includeFolderCounts"); raw != "" {
		include = strings.EqualFold(raw, "true")
	}
	if !include {
		httputil.WriteOK(w, snap.Folders)
		return
	}

	httputil.WriteOK(w, fixture.FolderSet{
		SystemFolders: withZeroCounts(snap.Folders.SystemFolders),
		UserFolders:   withZeroCounts(snap.Folders.UserFolders),
	})
}

// withZeroCounts returns the folders with both count fields present,
// cloning any folder it has to modify so the snapshot stays untouched.
func withZeroCounts(folders []fixture.Folder) []fixture.Folder {
	out := make([]fixture.Folder, len(folders))
	for i, f := range folders {
		_, hasTotal := f[fieldTotalCount]
		_, hasUnread := f[fieldUnreadCount]
		if hasTotal && hasUnread {
			out[i] = f
			continue
		}
		clone := make(fixture.Folder, len(f)+2)
		for k, v := range f {
			clone[k] = v
		}
		if !hasTotal {
			clone[fieldTotalCount] = 0
		}
		if !hasUnread {
			clone[fieldUnreadCount] = 0
		}
		out[i] = clone
	}
	return out
}

// handleReload rebuilds the snapshot from disk. Either the new snapshot
// fully replaces the old one or the old one stays published.
func (s *Server) handleReload(w http.ResponseWriter, _ *http.Request) {
	if err := s.store.Reload(); err != nil {
		s.log.Error("reload failed", "error", err)
		httputil.WriteJSON(w, http.StatusInternalServerError, map[string]string{
			"status":  "error",
			"message": err.Error(),
		})
		return
	}

	snap := s.store.Snapshot()
	resp := map[string]any{
		"status":  "ok",
		"message": "data reloaded",
	}
	if len(snap.Warnings) > 0 {
		warnings := make([]string, len(snap.Warnings))
		for i := range snap.Warnings {
			warnings[i] = snap.Warnings[i].Error()
		}
		resp["warnings"] = warnings
	}
	httputil.WriteOK(w, resp)
}
