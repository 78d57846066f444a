// Package ingest imports the OBS production schedule CSV feed into the
// event store.
package ingest

import (
	"strings"

	"github.com/mfalcone/airgrid/internal/config"
)

// aliasEntry maps one lowercased feed substring to a canonical network
// name.
type aliasEntry struct {
	substring string
	canonical string
}

// AliasResolver canonicalizes network labels. The feed spells the same
// network several historical ways ("Rai Sport", "RAI SPORT HD", ...);
// the configured alias table resolves them to one stable label. The
// resolver is built once at load time — labels are never re-matched per
// render.
type AliasResolver struct {
	entries []aliasEntry
}

// NewAliasResolver compiles the configured alias table. A network's own
// canonical name always matches itself.
func NewAliasResolver(networks []config.NetworkConfig) *AliasResolver {
	r := &AliasResolver{}
	for _, n := range networks {
		r.entries = append(r.entries, aliasEntry{
			substring: strings.ToLower(n.Name),
			canonical: n.Name,
		})
		for _, a := range n.Aliases {
			r.entries = append(r.entries, aliasEntry{
				substring: strings.ToLower(strings.TrimSpace(a)),
				canonical: n.Name,
			})
		}
	}
	// Longer substrings match first so "RAI SPORT HD" beats "RAI".
	for i := 1; i < len(r.entries); i++ {
		for j := i; j > 0 && len(r.entries[j].substring) > len(r.entries[j-1].substring); j-- {
			r.entries[j], r.entries[j-1] = r.entries[j-1], r.entries[j]
		}
	}
	return r
}

// Resolve returns the canonical name for a feed label, or the trimmed
// label itself when nothing matches.
func (r *AliasResolver) Resolve(label string) string {
	trimmed := strings.TrimSpace(label)
	if r == nil || trimmed == "" {
		return trimmed
	}
	lower := strings.ToLower(trimmed)
	for _, e := range r.entries {
		if e.substring != "" && strings.Contains(lower, e.substring) {
			return e.canonical
		}
	}
	return trimmed
}
