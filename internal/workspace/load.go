package workspace

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/n2code/docspace/internal/ident"
	"github.com/n2code/docspace/internal/logging"
	"github.com/n2code/docspace/internal/metrics"
	"github.com/n2code/docspace/internal/node"
)

// Select acts on a node the way a click in the tree would: directories fold or unfold,
// documents are loaded into the editor and images are shown.
// A failed selection leaves the previous selection untouched.
func (c *Controller) Select(ctx context.Context, id ident.Id) error {
	c.mu.Lock()
	n, exists := c.store.Get(id)
	if !exists {
		c.mu.Unlock()
		err := newError(NotFound, "cannot select node "+id.String(), nil)
		c.log.Warn("selection failed", logging.Node(uint32(id)), logging.Err(err))
		return err
	}
	switch content := n.Content.(type) {
	case *node.RealDir, *node.TempDir:
		n.ToggleExpanded()
		c.mu.Unlock()
		return nil
	case *node.Image:
		c.mu.Unlock()
		return c.showImage(ctx, id)
	case *node.Document:
		c.mu.Unlock()
		outgoing, err := c.gate(ctx, id)
		if err != nil {
			return err
		}
		return c.loadDocument(ctx, id, outgoing)
	default:
		c.mu.Unlock()
		return newError(InvalidNodeKind, fmt.Sprintf("node %s has unknown content %T", id, content), nil)
	}
}

// gate decides whether the active document may be replaced in the editor.
// It returns the document whose changes the user agreed to drop; discarding happens only once
// the next document has been loaded.
func (c *Controller) gate(ctx context.Context, next ident.Id) (discard ident.Id, err error) {
	c.mu.Lock()
	current := c.active
	if current == ident.Missing || current == next {
		c.mu.Unlock()
		return ident.Missing, nil
	}
	n, doc, err := c.document(current)
	if err != nil || !doc.Dirty() {
		c.mu.Unlock()
		return ident.Missing, nil
	}
	text, _ := doc.Cached()
	pending := FileData{Id: current, Version: doc.Version, Content: text}
	autoSave := c.settings.AutoSave
	name := n.Name
	c.mu.Unlock()

	if autoSave {
		if _, err := c.persist(ctx, Autosave, pending); err != nil {
			//reported through SaveCompleted, the edits stay in memory
			c.log.Warn("autosave before switching documents failed", logging.Node(uint32(current)), logging.Err(err))
		}
		return ident.Missing, nil
	}

	confirmed, err := c.prompt.Confirm(ctx, fmt.Sprintf("Discard unsaved changes to %s?", name))
	if err != nil {
		return ident.Missing, newError(IoFailure, "confirmation failed", err)
	}
	if !confirmed {
		return ident.Missing, newError(LoadDeclined, "unsaved changes to "+name+" kept", nil)
	}
	return current, nil
}

// Discard throws away in-memory changes of a document. Path-backed documents are re-read on next load,
// temporary ones start empty. A discarded active document leaves the editor until it is selected again.
func (c *Controller) Discard(id ident.Id) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.discard(id)
}

// discard is Discard with c.mu held.
func (c *Controller) discard(id ident.Id) error {
	_, doc, err := c.document(id)
	if err != nil {
		return err
	}
	doc.Discard()
	if c.active == id {
		c.active = ident.Missing
	}
	c.log.Info("changes discarded", logging.Node(uint32(id)))
	return nil
}

// loadDocument brings the document into the editor, preferring the cache over the disk.
// Only after the content is available is the outgoing document discarded (if any) and the selection moved.
func (c *Controller) loadDocument(ctx context.Context, id ident.Id, outgoing ident.Id) error {
	c.mu.Lock()
	_, doc, err := c.document(id)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	source := metrics.SourceCache
	if _, cached := doc.Cached(); !cached {
		if doc.Temporary() {
			doc.SetCache("")
			source = metrics.SourceEmpty
		} else {
			path := doc.Path
			c.mu.Unlock()
			text, err := c.fsa.ReadText(ctx, path)
			if err != nil {
				err := ioError("cannot load document", err)
				c.log.Error("document load failed", logging.Node(uint32(id)), logging.Path(path), logging.Err(err))
				return err
			}
			c.log.Debug("document read", logging.Node(uint32(id)), logging.Path(path), zap.Int("bytes", len(text)))
			c.mu.Lock()
			if _, cached := doc.Cached(); !cached { //a concurrent load or edit may have won
				doc.Reload(text)
			}
			source = metrics.SourceDisk
		}
	}
	if outgoing != ident.Missing {
		if err := c.discard(outgoing); err != nil {
			c.log.Warn("outgoing document vanished", logging.Node(uint32(outgoing)), logging.Err(err))
		}
	}
	text, _ := doc.Cached()
	data := c.activate(id, doc, text)
	c.mu.Unlock()
	metrics.RecordDocumentLoad(source)
	c.listener.DocumentLoaded(data)
	return nil
}

// activate commits the selection, c.mu must be held.
func (c *Controller) activate(id ident.Id, doc *node.Document, text string) FileData {
	c.selected, c.active = id, id
	return FileData{Id: id, Version: doc.Version, Content: text}
}

func (c *Controller) showImage(ctx context.Context, id ident.Id) error {
	c.mu.Lock()
	n, _ := c.store.Get(id)
	img := n.Content.(*node.Image)
	if img.Picture != nil {
		c.selected = id
		data := imageData(n, img)
		c.mu.Unlock()
		c.listener.ImageShown(data)
		return nil
	}
	path := img.Path
	c.mu.Unlock()

	picture, err := c.fsa.DecodeImage(ctx, path)
	metrics.RecordImageDecode(err)
	if err != nil {
		err := ioError("cannot decode image", err)
		c.log.Error("image decode failed", logging.Node(uint32(id)), logging.Path(path), logging.Err(err))
		return err
	}

	c.mu.Lock()
	if img.Picture == nil {
		img.Picture = picture
	}
	c.selected = id
	data := imageData(n, img)
	c.mu.Unlock()
	c.listener.ImageShown(data)
	return nil
}

func imageData(n *node.Node, img *node.Image) ImageData {
	return ImageData{Id: n.Id, DisplayId: img.DisplayId, Name: n.Name, Picture: img.Picture}
}
