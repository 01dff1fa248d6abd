package workspace

import (
	"context"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/n2code/docspace/internal/ident"
	"github.com/n2code/docspace/internal/logging"
	"github.com/n2code/docspace/internal/markdown"
	"github.com/n2code/docspace/internal/metrics"
)

// Edit applies new full text to the active document, bumps its version and schedules a delayed check.
func (c *Controller) Edit(text string) (FileData, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	doc, err := c.activeDocument()
	if err != nil {
		return FileData{}, err
	}
	version := doc.Edit(text)
	c.schedule(c.active, doc.Generation, version)
	return FileData{Id: c.active, Version: version, Content: text}, nil
}

// schedule arms a delayed check for the given snapshot, c.mu must be held.
// Superseded timers are not cancelled, they find a newer version when they fire and do nothing.
func (c *Controller) schedule(id ident.Id, generation uint64, version uint64) {
	if c.closed {
		return
	}
	c.pending++
	time.AfterFunc(c.settings.AutoSaveDelay, func() {
		defer c.settle()
		c.delayedCheck(context.Background(), id, generation, version)
	})
}

func (c *Controller) settle() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending--; c.pending == 0 {
		c.settled.Broadcast()
	}
}

func (c *Controller) delayedCheck(ctx context.Context, id ident.Id, generation uint64, version uint64) {
	c.mu.Lock()
	_, doc, err := c.document(id)
	if err != nil {
		c.mu.Unlock()
		return
	}
	if doc.Generation != generation || doc.Version != version {
		c.mu.Unlock()
		metrics.RecordDelayedCheck(metrics.CheckStale)
		return
	}
	if !c.settings.AutoSave {
		c.mu.Unlock()
		metrics.RecordDelayedCheck(metrics.CheckDisabled)
		return
	}
	text, _ := doc.Cached()
	data := FileData{Id: id, Version: version, Content: text}
	c.mu.Unlock()

	metrics.RecordDelayedCheck(metrics.CheckFired)
	c.persist(ctx, Autosave, data)
}

// Save persists the payload to the document's path, asking for one if there is none yet.
func (c *Controller) Save(ctx context.Context, data FileData) (SaveResult, error) {
	return c.persist(ctx, ManualSave, data)
}

// SaveAs always asks for a destination first.
func (c *Controller) SaveAs(ctx context.Context, data FileData) (SaveResult, error) {
	return c.persist(ctx, SaveAs, data)
}

// Autosave persists path-backed documents and only buffers temporary ones.
func (c *Controller) Autosave(ctx context.Context, data FileData) (SaveResult, error) {
	return c.persist(ctx, Autosave, data)
}

// persist runs the save pipeline. Saves of one document are serialized so that writes land in order.
func (c *Controller) persist(ctx context.Context, trigger Trigger, data FileData) (result SaveResult, err error) {
	result = SaveResult{Id: data.Id, Version: data.Version, Trigger: trigger}
	outcome := "error"
	defer func() {
		result.Err = err
		metrics.RecordSave(trigger.String(), outcome)
		c.report(result, outcome)
		c.listener.SaveCompleted(result)
	}()

	lock := c.persistLock(data.Id)
	lock.Lock()
	defer lock.Unlock()

	c.mu.Lock()
	n, doc, err := c.document(data.Id)
	if err != nil {
		c.mu.Unlock()
		return
	}
	if data.Version >= doc.Version {
		doc.Version = data.Version
		doc.SetCache(data.Content)
	} else {
		//an edit overtook this request, the newest content is saved instead
		c.log.Warn("stale save payload", logging.Node(uint32(data.Id)), logging.Version(data.Version), zap.Uint64("current", doc.Version))
	}
	text, _ := doc.Cached()
	version, generation := doc.Version, doc.Generation
	path, name := doc.Path, n.Name
	result.Version = version
	c.mu.Unlock()

	askForPath := trigger == SaveAs
	if path == "" && trigger != SaveAs {
		if trigger == Autosave {
			c.mu.Lock()
			if doc.Generation == generation {
				doc.Persisted = version
			}
			c.mu.Unlock()
			result.Buffered = true
			outcome = "buffered"
			return
		}
		askForPath = true
	}

	if askForPath {
		chosen, selected, promptErr := c.prompt.SelectSavePath(ctx, markdown.SuggestName(text, name))
		if promptErr != nil {
			err = newError(IoFailure, "save dialog failed", promptErr)
			return
		}
		if !selected || chosen == "" {
			err = newError(PathSelectionAborted, "no destination chosen for "+name, nil)
			outcome = "aborted"
			return
		}
		path = chosen
		c.mu.Lock()
		if doc.Path == "" {
			n.Name = filepath.Base(chosen)
		}
		doc.Path = chosen
		c.mu.Unlock()
	}

	start := time.Now()
	writeErr := c.fsa.WriteText(ctx, path, text)
	metrics.RecordWrite(time.Since(start))
	if writeErr != nil {
		err = newError(IoFailure, "cannot write "+path, writeErr)
		return
	}

	c.mu.Lock()
	if doc.Generation == generation {
		doc.Persisted = version
	}
	c.mu.Unlock()
	result.Path = path
	outcome = "written"
	return
}

func (c *Controller) report(result SaveResult, outcome string) {
	log := c.log.With(logging.Node(uint32(result.Id)), logging.Version(result.Version), zap.Stringer("trigger", result.Trigger))
	switch outcome {
	case "written":
		log.Info("document saved", logging.Path(result.Path))
	case "buffered":
		log.Debug("temporary document buffered")
	case "aborted":
		log.Warn("save cancelled")
	default:
		log.Error("save failed", logging.Err(result.Err))
	}
}
