// Package session keeps the latest scan of every open document.
//
// Scans may finish out of order. A result is only kept when it was produced
// for a version at least as new as the stored one, so a slow scan of stale
// text never replaces a newer result.
package session

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/walteh/tagsense/pkg/scanner"
)

// Document is one tracked file and its most recent scan.
type Document struct {
	URI     string
	Version int32
	Content string
	Result  *scanner.Result
}

type entry struct {
	mu  sync.Mutex
	doc *Document
}

// Store handles document operations. It is safe for concurrent use.
type Store struct {
	store *sync.Map // map[string]*entry
}

func NewStore() *Store {
	return &Store{
		store: &sync.Map{},
	}
}

// NormalizeURI strips file scheme prefixes so that URIs and paths address the
// same document.
func NormalizeURI(uri string) string {
	uri = strings.TrimPrefix(uri, "file://")
	uri = strings.TrimPrefix(uri, "file:")
	return uri
}

func (s *Store) entry(uri string) *entry {
	e, _ := s.store.LoadOrStore(NormalizeURI(uri), &entry{})
	return e.(*entry)
}

// Get returns a copy of the stored document.
func (s *Store) Get(uri string) (Document, bool) {
	e, ok := s.store.Load(NormalizeURI(uri))
	if !ok {
		return Document{}, false
	}

	ent := e.(*entry)
	ent.mu.Lock()
	defer ent.mu.Unlock()

	if ent.doc == nil {
		return Document{}, false
	}
	return *ent.doc, true
}

// Update stores the scan of content at version. It reports false, and keeps
// the current document, when a newer version is already stored.
func (s *Store) Update(ctx context.Context, uri string, version int32, content string, res *scanner.Result) bool {
	ent := s.entry(uri)
	ent.mu.Lock()
	defer ent.mu.Unlock()

	if ent.doc != nil && ent.doc.Version > version {
		zerolog.Ctx(ctx).Debug().
			Str("uri", uri).
			Int32("stored", ent.doc.Version).
			Int32("incoming", version).
			Msg("discarding stale scan")
		return false
	}

	ent.doc = &Document{
		URI:     NormalizeURI(uri),
		Version: version,
		Content: content,
		Result:  res,
	}
	return true
}

// Scan runs the scanner over content and stores the result under the
// last-result-wins rule.
func (s *Store) Scan(ctx context.Context, uri string, version int32, content string, watched []string) (*scanner.Result, bool) {
	res := scanner.Scan(content, watched, scanner.NoQuery)
	return res, s.Update(ctx, uri, version, content, res)
}

// Delete forgets a document.
func (s *Store) Delete(uri string) {
	s.store.Delete(NormalizeURI(uri))
}

// URIs lists the tracked documents.
func (s *Store) URIs() []string {
	var uris []string
	s.store.Range(func(key, value any) bool {
		ent := value.(*entry)
		ent.mu.Lock()
		if ent.doc != nil {
			uris = append(uris, key.(string))
		}
		ent.mu.Unlock()
		return true
	})
	return uris
}
