package session_test

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/tagsense/pkg/scanner"
	"github.com/walteh/tagsense/pkg/session"
)

func TestNormalizeURI(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{uri: "file:///tmp/a.html", want: "/tmp/a.html"},
		{uri: "file:/private/a.html", want: "/private/a.html"},
		{uri: "/tmp/a.html", want: "/tmp/a.html"},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			assert.Equal(t, tt.want, session.NormalizeURI(tt.uri))
		})
	}
}

func TestStore_Update(t *testing.T) {
	ctx := context.Background()
	store := session.NewStore()

	_, ok := store.Get("/a.html")
	assert.False(t, ok)

	res2 := &scanner.Result{}
	require.True(t, store.Update(ctx, "file:///a.html", 2, "two", res2))

	doc, ok := store.Get("/a.html")
	require.True(t, ok)
	assert.Equal(t, int32(2), doc.Version)
	assert.Equal(t, "two", doc.Content)
	assert.Same(t, res2, doc.Result)

	assert.False(t, store.Update(ctx, "/a.html", 1, "one", &scanner.Result{}), "older version must be discarded")
	doc, _ = store.Get("/a.html")
	assert.Equal(t, "two", doc.Content)

	assert.True(t, store.Update(ctx, "/a.html", 2, "two again", nil), "same version replaces")
	assert.True(t, store.Update(ctx, "/a.html", 3, "three", nil))
	doc, _ = store.Get("/a.html")
	assert.Equal(t, "three", doc.Content)

	store.Delete("file:///a.html")
	_, ok = store.Get("/a.html")
	assert.False(t, ok)
}

func TestStore_Scan(t *testing.T) {
	store := session.NewStore()

	res, ok := store.Scan(context.Background(), "/a.html", 1, `<a class=x>`, []string{"class"})
	require.True(t, ok)
	require.Len(t, res.Tags, 1)
	assert.Len(t, res.Tags[0].Cache.Watched, 1)

	doc, ok := store.Get("/a.html")
	require.True(t, ok)
	assert.Same(t, res, doc.Result)
}

func TestStore_ConcurrentUpdatesKeepNewest(t *testing.T) {
	ctx := context.Background()
	store := session.NewStore()

	var wg sync.WaitGroup
	for v := int32(1); v <= 50; v++ {
		wg.Add(1)
		go func(v int32) {
			defer wg.Done()
			store.Scan(ctx, "/a.html", v, `<a b=c>`, nil)
		}(v)
	}
	wg.Wait()

	doc, ok := store.Get("/a.html")
	require.True(t, ok)
	assert.Equal(t, int32(50), doc.Version)
}

func TestStore_URIs(t *testing.T) {
	ctx := context.Background()
	store := session.NewStore()

	store.Update(ctx, "/b.html", 1, "", nil)
	store.Update(ctx, "file:///a.html", 1, "", nil)

	uris := store.URIs()
	sort.Strings(uris)
	assert.Equal(t, []string{"/a.html", "/b.html"}, uris)
}
