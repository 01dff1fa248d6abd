package docspace

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/n2code/docspace/internal/fsio"
	"github.com/n2code/docspace/internal/workspace"
)

type VerbosityLevel int

const (
	DefaultVerbosity VerbosityLevel = iota //normal level of information, all noteworthy facts without too much noise
	VerboseMode                            //exhaustive information about what is happening, repeating context
	QuietMode                              //only output errors and information that was explicitly requested (-> Print* functions)
)

// CreateConfig holds a set of common configuration switches that concern all calls to the workspace API.
// The zero value is a sensible default.
type CreateConfig struct {
	Verbosity     VerbosityLevel
	AutoSave      bool
	AutoSaveDelay time.Duration //zero means two seconds
	FancyTerminal bool          //allow escape sequences in output
	Logger        *zap.Logger   //nil means the global logger
}

// New creates an empty workspace. The prompter serves path selection and confirmation requests,
// the listener (may be nil) receives loaded documents, images, and save results.
func New(config CreateConfig, prompter Prompter, listener Listener) Workspace {
	return makeDocspace(config, prompter, listener)
}

// Open creates a workspace and opens the given folder as its first root.
func Open(ctx context.Context, directory string, config CreateConfig, prompter Prompter, listener Listener) (Workspace, error) {
	handle := makeDocspace(config, prompter, listener)
	if _, err := handle.OpenFolder(ctx, directory); err != nil {
		handle.Close()
		return nil, newCommandError("workspace open error", err)
	}
	return handle, nil
}

type docspace struct {
	*workspace.Controller
	disk                  *fsio.Counting
	out                   io.Writer //essential output (i.e. requested information)
	extraOut              io.Writer //more output for convenience (repeats context)
	verboseOut            io.Writer //most output, talkative
	errOut                io.Writer //error output
	fancyTerminalFeatures bool
}

func makeDocspace(config CreateConfig, prompter Prompter, listener Listener) (instance *docspace) {
	instance = &docspace{
		disk:                  fsio.NewCounting(fsio.Local{}),
		out:                   os.Stdout,
		extraOut:              io.Discard,
		verboseOut:            io.Discard,
		errOut:                os.Stderr,
		fancyTerminalFeatures: config.FancyTerminal,
	}
	switch config.Verbosity {
	case VerboseMode:
		instance.verboseOut = os.Stdout
		fallthrough
	case DefaultVerbosity:
		instance.extraOut = os.Stdout
	}
	instance.Controller = workspace.New(workspace.Options{
		Adapter:  instance.disk,
		Prompter: prompter,
		Listener: listener,
		Settings: workspace.Settings{AutoSave: config.AutoSave, AutoSaveDelay: config.AutoSaveDelay},
		Logger:   config.Logger,
	})
	return
}

// Select reports failures naming the node that could not be selected.
func (d *docspace) Select(ctx context.Context, id Id) error {
	if err := d.Controller.Select(ctx, id); err != nil {
		return newNodeError("cannot select", id, err)
	}
	return nil
}

func (d *docspace) IoStatistics() IoStatistics {
	return d.disk.Stats()
}

func (d *docspace) describe(id Id) string {
	name := "?"
	d.View(func(tree *Tree) {
		if n, exists := tree.Get(id); exists {
			name = n.Name
		}
	})
	return fmt.Sprintf("%s #%s", name, id)
}
