package resource_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdlive/pkg/decorate"
	"github.com/yaklabco/mdlive/pkg/decorate/rules"
	"github.com/yaklabco/mdlive/pkg/resource"
)

const (
	idA   = "0123456789abcdef0123456789abcdef"
	idB   = "fedcba9876543210fedcba9876543210"
	addrA = ":/" + idA
	addrB = ":/" + idB
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newResolver(t *testing.T, dir string) (*resource.Resolver, *decorate.CounterCache) {
	t.Helper()

	cache := decorate.NewCounterCache()
	r := resource.New(dir, cache, resource.DefaultOptions())
	t.Cleanup(func() { _ = r.Close() })
	return r, cache
}

func drain(r *resource.Resolver) []decorate.Token {
	var tokens []decorate.Token
	r.Drain(func(tok decorate.Token) { tokens = append(tokens, tok) })
	return tokens
}

func TestResolverRequest(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	pathA := writeFile(t, dir, idA+".png", "png")
	pathB := writeFile(t, dir, idB, "raw")

	r, cache := newResolver(t, dir)
	r.Request(addrA)
	r.Request(addrB)
	r.Wait()

	got, ok := r.Path(addrA)
	require.True(t, ok)
	assert.Equal(t, pathA, got)

	got, ok = r.Path(addrB)
	require.True(t, ok)
	assert.Equal(t, pathB, got)

	assert.Equal(t, 1, cache.Get(addrA))
	assert.Equal(t, 1, cache.Get(addrB))

	tokens := drain(r)
	assert.ElementsMatch(t, []decorate.Token{
		{Kind: rules.ResourceTokenKind, Key: addrA},
		{Kind: rules.ResourceTokenKind, Key: addrB},
	}, tokens)
}

func TestResolverRequestIsIdempotent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, idA+".png", "png")

	r, cache := newResolver(t, dir)
	for range 3 {
		r.Request(addrA)
	}
	r.Wait()
	r.Request(addrA)
	r.Wait()

	assert.Equal(t, 1, cache.Get(addrA))
	assert.Len(t, drain(r), 1)
}

func TestResolverMissingResource(t *testing.T) {
	t.Parallel()

	r, cache := newResolver(t, t.TempDir())
	r.Request(addrA)
	r.Wait()

	_, ok := r.Path(addrA)
	assert.False(t, ok)
	assert.Equal(t, 0, cache.Get(addrA))
	assert.Empty(t, drain(r))
}

func TestResolverIgnoresInvalidAddress(t *testing.T) {
	t.Parallel()

	r, _ := newResolver(t, t.TempDir())
	r.Request("https://example.com/a.png")
	r.Request(":/short")
	r.Wait()

	assert.Empty(t, drain(r))
}

func TestResolverClosed(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, idA, "raw")

	r, cache := newResolver(t, dir)
	require.NoError(t, r.Close())
	require.NoError(t, r.Close())

	r.Request(addrA)
	r.Wait()
	assert.Equal(t, 0, cache.Get(addrA))
	assert.ErrorIs(t, r.Watch(), resource.ErrClosed)
}

func TestResolverWatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	r, cache := newResolver(t, dir)

	r.Request(addrA)
	r.Wait()
	require.Equal(t, 0, cache.Get(addrA))

	require.NoError(t, r.Watch())
	path := writeFile(t, dir, idA+".png", "png")

	select {
	case tok := <-r.Updates():
		assert.Equal(t, decorate.Token{Kind: rules.ResourceTokenKind, Key: addrA}, tok)
	case <-time.After(5 * time.Second):
		t.Fatal("no update after resource was created")
	}

	got, ok := r.Path(addrA)
	require.True(t, ok)
	assert.Equal(t, path, got)
	assert.GreaterOrEqual(t, cache.Get(addrA), 1)
}

func TestResolverWatchIgnoresUnknownFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	r, _ := newResolver(t, dir)
	require.NoError(t, r.Watch())

	writeFile(t, dir, idB+".png", "png")
	writeFile(t, dir, "notes.txt", "text")

	select {
	case tok := <-r.Updates():
		t.Fatalf("unexpected update %v", tok)
	case <-time.After(200 * time.Millisecond):
	}
}
