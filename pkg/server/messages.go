// Message listing and lookup over the fixture snapshot.

package server

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/ohler55/ojg/jp"

	"github.com/ofwtools/ofwmock/pkg/fixture"
	"github.com/ofwtools/ofwmock/pkg/httputil"
)

// Listing defaults, matching the real API's behavior.
const (
	defaultPageSize = 50
	defaultSortKey  = "date"
)

// handleMessages lists messages: filter by folder, stable sort, paginate.
func (s *Server) handleMessages(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()
	q := r.URL.Query()

	page, err := positiveIntParam(q.Get("page"), 1)
	if err != nil {
		httputil.WriteBadRequest(w, "invalid_input", "page must be a positive integer")
		return
	}
	size, err := positiveIntParam(q.Get("size"), defaultPageSize)
	if err != nil {
		httputil.WriteBadRequest(w, "invalid_input", "size must be a positive integer")
		return
	}

	filtered := filterByFolder(snap.Messages, q.Get("folders"))

	sortKey := q.Get("sort")
	if sortKey == "" {
		sortKey = defaultSortKey
	}
	descending := !strings.EqualFold(q.Get("sortDirection"), "asc")
	sortMessages(filtered, sortKey, descending)

	total := len(filtered)
	start := (page - 1) * size
	end := start + size
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	httputil.WriteOK(w, fixture.MessageList{
		Metadata: fixture.Metadata{
			Page:  page,
			Count: total,
			First: page == 1,
			Last:  page*size >= total,
		},
		Data: filtered[start:end],
	})
}

// handleMessage returns a single message by id: the enriched record from
// full_message.json when present, otherwise the first matching summary
// from the message pool, otherwise 404.
func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()
	id := r.PathValue("id")

	if full, ok := snap.FullMessages[id]; ok {
		httputil.WriteOK(w, full)
		return
	}

	for _, msg := range snap.Messages {
		if fixture.CanonicalID(msg["id"]) == id {
			httputil.WriteOK(w, msg)
			return
		}
	}

	httputil.WriteNotFound(w, "not_found", "Message not found")
}

// positiveIntParam parses a query parameter that must be >= 1.
// An absent parameter yields the fallback.
func positiveIntParam(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, strconv.ErrSyntax
	}
	return n, nil
}

// filterByFolder keeps the messages whose folder-reference field equals
// the requested folder id. An empty folder id means no filtering; an id
// matching nothing yields an empty slice, not an error.
func filterByFolder(messages []fixture.Message, folderID string) []fixture.Message {
	if folderID == "" {
		return append([]fixture.Message{}, messages...)
	}
	filtered := make([]fixture.Message, 0, len(messages))
	for _, msg := range messages {
		if fixture.CanonicalID(msg["folder"]) == folderID {
			filtered = append(filtered, msg)
		}
	}
	return filtered
}

// sortMessages stably sorts the messages by the given field. The sort key
// is extracted with a JSONPath so nested fields like "sender.name" work.
// Messages missing the field sort after those that have it, in either
// direction.
func sortMessages(messages []fixture.Message, field string, descending bool) {
	expr, err := jp.ParseString("$." + field)
	if err != nil {
		return
	}

	key := func(msg fixture.Message) (any, bool) {
		values := expr.Get(msg)
		if len(values) == 0 || values[0] == nil {
			return nil, false
		}
		return values[0], true
	}

	sort.SliceStable(messages, func(i, j int) bool {
		a, okA := key(messages[i])
		b, okB := key(messages[j])
		if okA != okB {
			return okA
		}
		if !okA {
			return false
		}
		cmp := compareValues(a, b)
		if descending {
			return cmp > 0
		}
		return cmp < 0
	})
}

// compareValues orders two sort-key values: numerically when both are
// numbers, otherwise by string form. RFC 3339 dates order correctly as
// strings.
func compareValues(a, b any) int {
	fa, okA := toFloat(a)
	fb, okB := toFloat(b)
	if okA && okB {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(fixture.CanonicalID(a), fixture.CanonicalID(b))
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
