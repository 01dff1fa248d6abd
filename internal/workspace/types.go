package workspace

import (
	"context"
	"fmt"
	"time"

	"github.com/n2code/docspace/internal/fsio"
	"github.com/n2code/docspace/internal/ident"
)

// FileData is the immutable record exchanged with the editor. A new one is built for every hand-off.
type FileData struct {
	Id      ident.Id
	Version uint64
	Content string
}

// ImageData is what the preview side receives for an image.
type ImageData struct {
	Id        ident.Id
	DisplayId ident.Id
	Name      string
	Picture   *fsio.Picture
}

// Label is the display name derived from the display id.
func (d ImageData) Label() string {
	return fmt.Sprintf("Image %d", d.DisplayId)
}

// Trigger names the entry point into the save pipeline.
type Trigger int

const (
	Autosave Trigger = iota
	ManualSave
	SaveAs
)

func (t Trigger) String() string {
	switch t {
	case Autosave:
		return "autosave"
	case ManualSave:
		return "manual"
	case SaveAs:
		return "save-as"
	}
	return fmt.Sprintf("Trigger(%d)", int(t))
}

// SaveResult reports the outcome of one pass through the save pipeline.
type SaveResult struct {
	Id       ident.Id
	Version  uint64 //version that was persisted (or attempted)
	Trigger  Trigger
	Path     string //empty for buffered saves
	Buffered bool   //pathless autosave, kept in memory only
	Err      error
}

// Prompter is the path selection and confirmation capability of the surrounding UI.
// A false selected/confirmed result means the user cancelled, which is not an error.
type Prompter interface {
	SelectOpenPath(ctx context.Context) (path string, selected bool, err error)
	SelectOpenFolder(ctx context.Context) (path string, selected bool, err error)
	SelectSavePath(ctx context.Context, suggestedName string) (path string, selected bool, err error)
	Confirm(ctx context.Context, question string) (confirmed bool, err error)
}

// Listener receives results for the editor and preview. Calls happen outside the workspace lock
// but may come from timer goroutines.
type Listener interface {
	DocumentLoaded(FileData)
	ImageShown(ImageData)
	ImagesLoaded([]ImageData)
	SaveCompleted(SaveResult)
}

// NopListener ignores all notifications.
type NopListener struct{}

func (NopListener) DocumentLoaded(FileData)  {}
func (NopListener) ImageShown(ImageData)     {}
func (NopListener) ImagesLoaded([]ImageData) {}
func (NopListener) SaveCompleted(SaveResult) {}

// Settings is the mutable application configuration relevant to the workspace.
type Settings struct {
	AutoSave      bool
	AutoSaveDelay time.Duration
}

const DefaultAutoSaveDelay = 2 * time.Second
