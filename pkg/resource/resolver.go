// Package resource resolves ":/<id>" resource addresses to files in a
// resource directory.
//
// Lookups run off the host thread. When one completes, or a watched file
// changes, the resolver bumps the address's refresh counter and queues a
// refresh token. The host drains Updates on its own thread and forwards
// each token to its engines.
package resource

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/yaklabco/mdlive/pkg/decorate"
	"github.com/yaklabco/mdlive/pkg/decorate/rules"
)

// ErrClosed is returned by operations on a closed resolver.
var ErrClosed = errors.New("resolver closed")

// DefaultBufferSize is the default capacity of the updates channel.
const DefaultBufferSize = 64

// Options configures a Resolver.
type Options struct {
	// BufferSize is the capacity of the updates channel. Tokens that do not
	// fit are dropped; the counter is still bumped.
	BufferSize int

	// Logger receives lookup diagnostics. Nil uses the default logger.
	Logger *log.Logger
}

// DefaultOptions returns the default resolver options.
func DefaultOptions() Options {
	return Options{BufferSize: DefaultBufferSize}
}

type entry struct {
	path    string
	pending bool
}

// Resolver maps resource addresses to files.
type Resolver struct {
	dir    string
	cache  decorate.RefreshCache
	logger *log.Logger

	mu      sync.Mutex
	entries map[string]*entry
	closed  bool

	updates chan decorate.Token
	done    chan struct{}
	wg      sync.WaitGroup

	watcher *fsnotify.Watcher
}

// New creates a resolver for dir that bumps counters in cache.
func New(dir string, cache decorate.RefreshCache, opts Options) *Resolver {
	size := opts.BufferSize
	if size <= 0 {
		size = DefaultBufferSize
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Resolver{
		dir:     dir,
		cache:   cache,
		logger:  logger,
		entries: make(map[string]*entry),
		updates: make(chan decorate.Token, size),
		done:    make(chan struct{}),
	}
}

// Dir returns the resource directory.
func (r *Resolver) Dir() string {
	return r.dir
}

// Updates returns the channel of refresh tokens.
func (r *Resolver) Updates() <-chan decorate.Token {
	return r.updates
}

// Path returns the file an address resolved to.
func (r *Resolver) Path(addr string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[addr]
	if !ok || e.path == "" {
		return "", false
	}
	return e.path, true
}

// Request starts resolving addr unless it is known or already pending.
// It never blocks.
func (r *Resolver) Request(addr string) {
	if _, ok := rules.ResourceAddr(addr); !ok {
		return
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	if _, known := r.entries[addr]; known {
		r.mu.Unlock()
		return
	}
	r.entries[addr] = &entry{pending: true}
	r.wg.Add(1)
	r.mu.Unlock()

	go func() {
		defer r.wg.Done()
		r.resolve(addr)
	}()
}

// Drain calls fn for every queued token without blocking and returns the
// number of tokens delivered.
func (r *Resolver) Drain(fn func(decorate.Token)) int {
	n := 0
	for {
		select {
		case tok := <-r.updates:
			fn(tok)
			n++
		default:
			return n
		}
	}
}

// Wait blocks until all pending lookups finish.
func (r *Resolver) Wait() {
	r.wg.Wait()
}

// Watch starts watching the resource directory. Changes to files of known
// addresses re-resolve them.
func (r *Resolver) Watch() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}
	if r.watcher != nil {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(r.dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch %s: %w", r.dir, err)
	}
	r.watcher = watcher

	r.wg.Add(1)
	go r.watchLoop(watcher)
	return nil
}

// Close stops the watcher and waits for pending lookups.
func (r *Resolver) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	close(r.done)
	watcher := r.watcher
	r.mu.Unlock()

	var err error
	if watcher != nil {
		err = watcher.Close()
	}
	r.wg.Wait()
	return err
}

func (r *Resolver) watchLoop(watcher *fsnotify.Watcher) {
	defer r.wg.Done()

	for {
		select {
		case <-r.done:
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename) {
				continue
			}
			addr, ok := addrForFile(event.Name)
			if !ok || !r.known(addr) {
				continue
			}
			r.logger.Debug("resource changed", "addr", addr, "op", event.Op.String())
			r.resolve(addr)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			r.logger.Warn("resource watcher error", "dir", r.dir, "error", err)
		}
	}
}

func (r *Resolver) known(addr string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.entries[addr]
	return ok
}

// resolve looks addr up and publishes a refresh when it resolves or its
// resolution changes.
func (r *Resolver) resolve(addr string) {
	path, err := r.lookup(addr)
	if err != nil {
		r.logger.Debug("resource lookup failed", "addr", addr, "error", err)
	}

	r.mu.Lock()
	e := r.entries[addr]
	if e == nil || r.closed {
		r.mu.Unlock()
		return
	}
	wasPending := e.pending
	e.path, e.pending = path, false
	r.mu.Unlock()

	if wasPending && path == "" {
		return
	}

	if r.cache != nil {
		r.cache.Bump(addr)
	}
	select {
	case r.updates <- decorate.Token{Kind: rules.ResourceTokenKind, Key: addr}:
	default:
		r.logger.Warn("resource update dropped", "addr", addr)
	}
}

// lookup finds the file for addr: <dir>/<id> or <dir>/<id>.<ext>.
func (r *Resolver) lookup(addr string) (string, error) {
	id := strings.TrimPrefix(addr, ":/")

	exact := filepath.Join(r.dir, id)
	if info, err := os.Stat(exact); err == nil && !info.IsDir() {
		return exact, nil
	}

	matches, err := filepath.Glob(filepath.Join(r.dir, id+".*"))
	if err != nil {
		return "", fmt.Errorf("glob resources: %w", err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no file for %s in %s", addr, r.dir)
	}
	return matches[0], nil
}

// addrForFile returns the address of a resource file.
func addrForFile(name string) (string, bool) {
	base := filepath.Base(name)
	id := strings.TrimSuffix(base, filepath.Ext(base))
	return rules.ResourceAddr(":/" + id)
}
