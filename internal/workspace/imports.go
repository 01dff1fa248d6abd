package workspace

import (
	"context"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/n2code/docspace/internal/fsio"
	"github.com/n2code/docspace/internal/ident"
	"github.com/n2code/docspace/internal/ingest"
	"github.com/n2code/docspace/internal/logging"
	"github.com/n2code/docspace/internal/metrics"
	"github.com/n2code/docspace/internal/node"
)

const DefaultDocumentName = "Untitled.md"

// OpenFolder ingests a directory tree and adds it as a workspace root.
func (c *Controller) OpenFolder(ctx context.Context, path string) (ident.Id, error) {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	root, batch, err := ingest.Directory(ctx, c.fsa, c.ids, path)
	metrics.RecordIngestion("folder", err)
	if err != nil {
		err := ioError("cannot open folder "+path, err)
		c.log.Error("folder ingestion failed", logging.Path(path), logging.Err(err))
		return ident.Missing, err
	}

	c.mu.Lock()
	c.store.Merge(batch)
	c.roots = append(c.roots, root)
	c.tracked()
	c.mu.Unlock()
	c.log.Info("folder opened", logging.Path(path), zap.Int("nodes", len(batch)))
	return root, nil
}

// OpenFolderDialog asks for a folder first. Cancelling yields ident.Missing without error.
func (c *Controller) OpenFolderDialog(ctx context.Context) (ident.Id, error) {
	path, selected, err := c.prompt.SelectOpenFolder(ctx)
	if err != nil {
		return ident.Missing, newError(IoFailure, "folder dialog failed", err)
	}
	if !selected {
		c.log.Debug("folder selection cancelled")
		return ident.Missing, nil
	}
	return c.OpenFolder(ctx, path)
}

// ImportImages decodes all images below dir into the image library, ordered by display id.
func (c *Controller) ImportImages(ctx context.Context, dir string) ([]ident.Id, error) {
	batch, err := ingest.Images(ctx, c.fsa, c.ids, c.displayIds, dir)
	metrics.RecordIngestion("images", err)
	if err != nil {
		err := ioError("cannot import images from "+dir, err)
		c.log.Error("image ingestion failed", logging.Path(dir), logging.Err(err))
		return nil, err
	}

	loaded := make([]ImageData, 0, len(batch))
	for _, n := range batch {
		loaded = append(loaded, imageData(n, n.Content.(*node.Image)))
	}
	sort.Slice(loaded, func(i, j int) bool { return loaded[i].DisplayId < loaded[j].DisplayId })
	ids := make([]ident.Id, len(loaded))
	for i, data := range loaded {
		ids[i] = data.Id
	}

	c.mu.Lock()
	c.store.Merge(batch)
	c.store.InsertUnderSyntheticRoot(node.ImageLibrary, c.ids, ids...)
	c.tracked()
	c.mu.Unlock()
	c.log.Info("images imported", logging.Path(dir), zap.Int("count", len(ids)))
	c.listener.ImagesLoaded(loaded)
	return ids, nil
}

// ImportImagesDialog asks for the folder to import from. Cancelling yields nil without error.
func (c *Controller) ImportImagesDialog(ctx context.Context) ([]ident.Id, error) {
	dir, selected, err := c.prompt.SelectOpenFolder(ctx)
	if err != nil {
		return nil, newError(IoFailure, "folder dialog failed", err)
	}
	if !selected {
		return nil, nil
	}
	return c.ImportImages(ctx, dir)
}

// ImportFile adds a single file below the matching synthetic root and selects it.
// Images go to the image library, everything else is treated as a text document.
func (c *Controller) ImportFile(ctx context.Context, path string) (ident.Id, error) {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	var id ident.Id
	var err error
	if fsio.IsImage(path) {
		id, err = c.importImage(ctx, path)
	} else {
		id, err = c.importDocument(ctx, path)
	}
	if err != nil {
		return ident.Missing, err
	}
	return id, c.Select(ctx, id)
}

// OpenFileDialog asks for a file first. Cancelling yields ident.Missing without error.
func (c *Controller) OpenFileDialog(ctx context.Context) (ident.Id, error) {
	path, selected, err := c.prompt.SelectOpenPath(ctx)
	if err != nil {
		return ident.Missing, newError(IoFailure, "file dialog failed", err)
	}
	if !selected {
		return ident.Missing, nil
	}
	return c.ImportFile(ctx, path)
}

func (c *Controller) importDocument(ctx context.Context, path string) (ident.Id, error) {
	text, err := c.fsa.ReadText(ctx, path)
	if err != nil {
		err := ioError("cannot import document", err)
		c.log.Error("document import failed", logging.Path(path), logging.Err(err))
		return ident.Missing, err
	}
	doc := &node.Document{Path: path}
	doc.Reload(text)

	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.ids.Next()
	c.store.Put(&node.Node{Id: id, Name: filepath.Base(path), Content: doc})
	c.store.InsertUnderSyntheticRoot(node.TempWorkspace, c.ids, id)
	c.tracked()
	return id, nil
}

func (c *Controller) importImage(ctx context.Context, path string) (ident.Id, error) {
	picture, err := c.fsa.DecodeImage(ctx, path)
	metrics.RecordImageDecode(err)
	if err != nil {
		err := ioError("cannot import image", err)
		c.log.Error("image import failed", logging.Path(path), logging.Err(err))
		return ident.Missing, err
	}

	c.mu.Lock()
	id := c.ids.Next()
	n := &node.Node{Id: id, Name: filepath.Base(path), Content: &node.Image{
		Path:      path,
		DisplayId: c.displayIds.Next(),
		Picture:   picture,
	}}
	c.store.Put(n)
	c.store.InsertUnderSyntheticRoot(node.ImageLibrary, c.ids, id)
	c.tracked()
	data := imageData(n, n.Content.(*node.Image))
	c.mu.Unlock()
	c.listener.ImagesLoaded([]ImageData{data})
	return id, nil
}

// NewDocument creates an empty temporary document and selects it.
func (c *Controller) NewDocument(ctx context.Context, name string) (ident.Id, error) {
	if name == "" {
		name = DefaultDocumentName
	}
	c.mu.Lock()
	id := c.ids.Next()
	c.store.Put(&node.Node{Id: id, Name: name, Content: &node.Document{}})
	c.store.InsertUnderSyntheticRoot(node.TempWorkspace, c.ids, id)
	c.tracked()
	c.mu.Unlock()
	return id, c.Select(ctx, id)
}
