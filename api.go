package docspace

import (
	"context"
	"strings"

	"github.com/n2code/docspace/internal/fsio"
	"github.com/n2code/docspace/internal/ident"
	"github.com/n2code/docspace/internal/node"
	"github.com/n2code/docspace/internal/workspace"
)

// Workspace lets you interface with a document workspace whose handle was retrieved using New or Open.
// All methods are safe for concurrent use.
type Workspace interface {

	// OpenFolder scans the given directory recursively and adds it as a workspace root.
	// Only folders and markdown files are tracked. If anything cannot be read nothing is added.
	OpenFolder(ctx context.Context, path string) (Id, error)

	// OpenFolderDialog asks the Prompter for a folder and opens it. Cancelling is not an error and yields MissingId.
	OpenFolderDialog(ctx context.Context) (Id, error)

	// ImportImages decodes all images below the given directory into the image library.
	// Listeners receive the new images ordered by display id.
	ImportImages(ctx context.Context, dir string) ([]Id, error)

	// ImportImagesDialog asks the Prompter for a folder and imports its images.
	ImportImagesDialog(ctx context.Context) ([]Id, error)

	// ImportFile adds a single document (to the temporary workspace) or image (to the image library) and selects it.
	ImportFile(ctx context.Context, path string) (Id, error)

	// OpenFileDialog asks the Prompter for a file and imports it.
	OpenFileDialog(ctx context.Context) (Id, error)

	// NewDocument creates an empty temporary document and selects it. An empty name means "Untitled.md".
	NewDocument(ctx context.Context, name string) (Id, error)

	// Select acts like a click in the tree: directories are folded or unfolded, documents are loaded
	// into the editor and images are shown. Switching away from a document with unsaved changes either
	// autosaves it or asks for confirmation, depending on the autosave setting.
	Select(ctx context.Context, id Id) error

	// Edit replaces the content of the active document and schedules a delayed autosave check.
	Edit(text string) (FileData, error)

	// Current returns the active document as the editor would hand it in for saving.
	Current() (FileData, error)

	// Save writes the document to its path. Temporary documents are saved as a new file.
	Save(ctx context.Context, data FileData) (SaveResult, error)

	// SaveAs always asks for a destination which the document adopts.
	SaveAs(ctx context.Context, data FileData) (SaveResult, error)

	// Autosave writes path-backed documents and merely buffers temporary ones.
	Autosave(ctx context.Context, data FileData) (SaveResult, error)

	// Discard drops unsaved changes of a document. A discarded active document has to be selected again before editing.
	Discard(id Id) error

	// Dirty reports whether the document has changes not yet persisted.
	Dirty(id Id) (bool, error)

	// SetAutoSave toggles autosaving. Pending delayed checks evaluate the new setting when they fire.
	SetAutoSave(enabled bool)

	// Roots lists opened folders followed by the temporary workspace and image library, once they exist.
	Roots() []Id

	// Selected is the last selected document or image.
	Selected() Id

	// Active is the document currently shown in the editor.
	Active() Id

	// View grants exclusive read access to the node tree. The callback must not call back into the Workspace.
	View(fn func(tree *Tree))

	// PrintTree renders the subtree below root, or all roots if root is MissingId.
	// Content of collapsed folders is only shown if requested.
	PrintTree(root Id, includeCollapsed bool) error

	// PrintStatus outputs the active document, unsaved documents and workspace statistics.
	PrintStatus()

	// IoStatistics reports how often the filesystem was accessed.
	IoStatistics() IoStatistics

	// Wait blocks until all pending delayed checks (including the autosaves they trigger) are done.
	Wait()

	// Close stops scheduling delayed checks and waits for the pending ones.
	Close()
}

type (
	Id           = ident.Id
	Tree         = node.Store
	Node         = node.Node
	Document     = node.Document
	FileData     = workspace.FileData
	ImageData    = workspace.ImageData
	SaveResult   = workspace.SaveResult
	Trigger      = workspace.Trigger
	Prompter     = workspace.Prompter
	Listener     = workspace.Listener
	NopListener  = workspace.NopListener
	ErrorKind    = workspace.Kind
	IoStatistics = fsio.Stats
)

const MissingId = ident.Missing

// ParseId reads a node ID as printed by the tree output, the leading # is optional.
func ParseId(text string) (Id, error) {
	return ident.Parse(strings.TrimPrefix(text, "#"))
}

const (
	NotFound             = workspace.NotFound
	IoFailure            = workspace.IoFailure
	PathSelectionAborted = workspace.PathSelectionAborted
	InvalidNodeKind      = workspace.InvalidNodeKind
	LoadDeclined         = workspace.LoadDeclined
)

// RequestChoice represents a single-choice decision callback, the first option is considered the default "yes"-like choice.
// If the choice is aborted an empty string must be returned.
// If cleanup is set the implementation is recommended to remove the choice presentation after selection.
type RequestChoice func(request string, options []string, cleanup bool) (choice string)

const ChoiceAborted = ""
