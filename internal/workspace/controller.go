// Package workspace orchestrates the document tree: ingestion, selection, loading and saving.
package workspace

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/n2code/docspace/internal/fsio"
	"github.com/n2code/docspace/internal/ident"
	"github.com/n2code/docspace/internal/logging"
	"github.com/n2code/docspace/internal/metrics"
	"github.com/n2code/docspace/internal/node"
)

// Options wires a Controller to its collaborators. Only Prompter is mandatory.
type Options struct {
	Adapter  fsio.Adapter //defaults to fsio.Local
	Prompter Prompter
	Listener Listener //defaults to NopListener
	Settings Settings
	Logger   *zap.Logger //defaults to the global logger
}

// Controller owns one workspace tree. All methods are safe for concurrent use;
// the tree lock is never held while waiting for the filesystem or the user.
type Controller struct {
	mu         sync.Mutex
	store      *node.Store
	ids        *ident.Allocator
	displayIds *ident.Allocator
	roots      []ident.Id //opened folders in opening order
	selected   ident.Id   //last selected leaf
	active     ident.Id   //document shown in the editor
	settings   Settings
	closed     bool

	persistLocks map[ident.Id]*sync.Mutex
	pending      int        //delayed checks in flight, guarded by mu
	settled      *sync.Cond //signalled when pending drops to zero

	fsa      fsio.Adapter
	prompt   Prompter
	listener Listener
	log      *zap.Logger
}

func New(opts Options) *Controller {
	c := &Controller{
		store:        node.NewStore(),
		ids:          ident.New(),
		displayIds:   ident.New(),
		settings:     opts.Settings,
		persistLocks: make(map[ident.Id]*sync.Mutex),
		fsa:          opts.Adapter,
		prompt:       opts.Prompter,
		listener:     opts.Listener,
		log:          opts.Logger,
	}
	c.settled = sync.NewCond(&c.mu)
	if c.fsa == nil {
		c.fsa = fsio.Local{}
	}
	if c.listener == nil {
		c.listener = NopListener{}
	}
	if c.log == nil {
		c.log = logging.L()
	}
	if c.settings.AutoSaveDelay <= 0 {
		c.settings.AutoSaveDelay = DefaultAutoSaveDelay
	}
	c.log = c.log.Named("workspace").With(zap.String("session", uuid.NewString()))
	return c
}

// Close stops scheduling delayed checks and waits for those already pending.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.Wait()
}

// Wait blocks until every scheduled delayed check (and the autosave it may trigger) has finished.
// Checks scheduled by edits racing with Wait may or may not be waited for.
func (c *Controller) Wait() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for c.pending > 0 {
		c.settled.Wait()
	}
}

func (c *Controller) Settings() Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings
}

// SetAutoSave toggles autosave. Delayed checks evaluate the setting when they fire.
func (c *Controller) SetAutoSave(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.settings.AutoSave = enabled
}

// View runs fn with exclusive access to the tree. fn must not call back into the Controller.
func (c *Controller) View(fn func(store *node.Store)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c.store)
}

// Roots lists the opened folders followed by the synthetic roots that exist so far.
func (c *Controller) Roots() []ident.Id {
	c.mu.Lock()
	defer c.mu.Unlock()
	roots := append([]ident.Id(nil), c.roots...)
	for _, kind := range []node.SyntheticRoot{node.TempWorkspace, node.ImageLibrary} {
		if id, exists := c.store.SyntheticRootId(kind); exists {
			roots = append(roots, id)
		}
	}
	return roots
}

func (c *Controller) Selected() ident.Id {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected
}

func (c *Controller) Active() ident.Id {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Dirty reports whether the document has changes that were not persisted.
func (c *Controller) Dirty(id ident.Id) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, doc, err := c.document(id)
	if err != nil {
		return false, err
	}
	return doc.Dirty(), nil
}

// Current returns the content of the active document as the editor would send it.
func (c *Controller) Current() (FileData, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	doc, err := c.activeDocument()
	if err != nil {
		return FileData{}, err
	}
	text, _ := doc.Cached()
	return FileData{Id: c.active, Version: doc.Version, Content: text}, nil
}

// activeDocument resolves the document shown in the editor, c.mu must be held.
// Its content is always cached, otherwise the editor would work on text that was never loaded.
func (c *Controller) activeDocument() (*node.Document, error) {
	if c.active == ident.Missing {
		return nil, newError(NotFound, "no active document", nil)
	}
	_, doc, err := c.document(c.active)
	if err != nil {
		return nil, err
	}
	if _, cached := doc.Cached(); !cached {
		return nil, newError(NotFound, "content of node "+c.active.String()+" is not loaded", nil)
	}
	return doc, nil
}

// document resolves a document node, c.mu must be held.
func (c *Controller) document(id ident.Id) (*node.Node, *node.Document, error) {
	n, exists := c.store.Get(id)
	if !exists {
		return nil, nil, newError(NotFound, "node "+id.String()+" does not exist", nil)
	}
	doc, isDoc := n.Content.(*node.Document)
	if !isDoc {
		return nil, nil, newError(InvalidNodeKind, "node "+id.String()+" is not a document", nil)
	}
	return n, doc, nil
}

// tracked updates the size gauge, c.mu must be held.
func (c *Controller) tracked() {
	metrics.SetNodesTracked(c.store.Len())
}

func (c *Controller) persistLock(id ident.Id) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	lock, exists := c.persistLocks[id]
	if !exists {
		lock = &sync.Mutex{}
		c.persistLocks[id] = lock
	}
	return lock
}
