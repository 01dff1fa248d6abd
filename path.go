package docspace

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/n2code/docspace/internal/node"
	"github.com/n2code/docspace/internal/output"
)

const rootScheme = "ws:" + string(filepath.Separator) + string(filepath.Separator)

const dot string = "."
const dirSeparator = string(filepath.Separator)
const dotDirSeparator = dot + dirSeparator
const doubleDot = dot + dot
const doubleDotDirSeparator = doubleDot + dirSeparator

func isChildOf(child string, parent string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	return !(rel == dot || rel == doubleDot || strings.HasPrefix(rel, doubleDotDirSeparator))
}

// pleasantPath turns an absolute path below an opened folder into something easily understandable from the current context.
// If the working directory is inside the folder a relative path is emitted, with leading "./" to stress relativity (opt-out possible).
// If the current location is above the folder an anchored path is printed and the folder is abbreviated.
func pleasantPath(absolute string, root string, wd string, collapseRoot bool, omitDotSlash bool) string {
	if wdAboveRoot := isChildOf(root, wd); wdAboveRoot {
		if !collapseRoot {
			return absolute
		}
		anchored, _ := filepath.Rel(root, absolute) //error impossible because both are rooted
		return rootScheme + anchored
	}

	prefix := ""
	relative, _ := filepath.Rel(wd, absolute) //error impossible because both are rooted
	if !omitDotSlash && !strings.HasPrefix(relative, doubleDotDirSeparator) {
		prefix = dotDirSeparator
	}
	return prefix + relative
}

// displayPath picks the innermost opened folder containing the path and renders it relative to that.
// Paths outside all folders are shown relative to the working directory if below it, otherwise unchanged.
func displayPath(absolute string, roots []string, wd string) string {
	best := ""
	for _, root := range roots {
		if isChildOf(absolute, root) && len(root) > len(best) {
			best = root
		}
	}
	if best != "" {
		return pleasantPath(absolute, best, wd, true, false)
	}
	if isChildOf(absolute, wd) {
		relative, _ := filepath.Rel(wd, absolute)
		return dotDirSeparator + relative
	}
	return absolute
}

func (d *docspace) displayablePath(absolute string, roots []string, wd string) string {
	pleasant := displayPath(filepath.Clean(absolute), roots, wd)
	if d.fancyTerminalFeatures && strings.HasPrefix(pleasant, rootScheme) {
		pleasant = strings.Replace(pleasant, rootScheme, output.TerminalFormatAsDim(rootScheme), 1)
	}
	return pleasant
}

// rootPaths lists the directories of all opened folders. It must not be called from within View.
func (d *docspace) rootPaths() (paths []string) {
	roots := d.Roots()
	d.View(func(tree *Tree) {
		for _, id := range roots {
			n, _ := tree.Get(id)
			if dir, isReal := n.Content.(*node.RealDir); isReal {
				paths = append(paths, dir.Path)
			}
		}
	})
	return
}

func mustGetwd() string {
	wd, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	return wd
}
