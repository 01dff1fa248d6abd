package docspace

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

type declineAll struct{}

func (declineAll) SelectOpenPath(context.Context) (string, bool, error) {
	return "", false, nil
}

func (declineAll) SelectOpenFolder(context.Context) (string, bool, error) {
	return "", false, nil
}

func (declineAll) SelectSavePath(context.Context, string) (string, bool, error) {
	return "", false, nil
}

func (declineAll) Confirm(context.Context, string) (bool, error) {
	return false, nil
}

func makeTestWorkspace(t *testing.T) (*docspace, *bytes.Buffer, string) {
	t.Helper()
	dir := t.TempDir()
	os.MkdirAll(filepath.Join(dir, "drafts"), 0755)
	os.WriteFile(filepath.Join(dir, "notes.md"), []byte("# Notes"), 0644)
	os.WriteFile(filepath.Join(dir, "drafts", "d.md"), []byte("draft"), 0644)

	ws := makeDocspace(CreateConfig{Verbosity: VerboseMode, AutoSaveDelay: time.Millisecond, Logger: zap.NewNop()}, declineAll{}, nil)
	t.Cleanup(ws.Close)
	var out bytes.Buffer
	ws.out, ws.extraOut, ws.verboseOut = &out, &out, &out
	if _, err := ws.OpenFolder(context.Background(), dir); err != nil {
		t.Fatal(err)
	}
	return ws, &out, dir
}

func TestPrintTreeHidesCollapsedContent(t *testing.T) {
	ws, out, _ := makeTestWorkspace(t)
	if err := ws.PrintTree(MissingId, false); err != nil {
		t.Fatal(err)
	}
	tree := out.String()
	if !strings.Contains(tree, "drafts/ [+1]") || !strings.Contains(tree, "notes.md") {
		t.Errorf("unexpected tree:\n%s", tree)
	}
	if strings.Contains(tree, "d.md") {
		t.Errorf("collapsed content shown:\n%s", tree)
	}

	out.Reset()
	ws.PrintTree(MissingId, true)
	if !strings.Contains(out.String(), "d.md") {
		t.Errorf("collapsed content missing:\n%s", out.String())
	}
}

func TestPrintTreeUnknownRoot(t *testing.T) {
	ws, _, _ := makeTestWorkspace(t)
	err := ws.PrintTree(777, false)
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) || !errors.Is(err, NotFound) {
		t.Errorf("expected wrapped NotFound, got %v", err)
	}
}

func TestPrintStatusListsUnsavedDocuments(t *testing.T) {
	ctx := context.Background()
	ws, out, _ := makeTestWorkspace(t)
	draft, err := ws.NewDocument(ctx, "idea.md")
	if err != nil {
		t.Fatal(err)
	}
	ws.Edit("some thought")
	out.Reset()

	ws.PrintStatus()
	status := out.String()
	for _, fragment := range []string{
		"Active document: idea.md #" + draft.String() + " (never saved)",
		"1 document with unsaved changes",
		"Autosave: off",
		"Filesystem: 2 listings",
	} {
		if !strings.Contains(status, fragment) {
			t.Errorf("status lacks %q:\n%s", fragment, status)
		}
	}

	out.Reset()
	ws.PrintTree(MissingId, false)
	if !strings.Contains(out.String(), "<Temporary Workspace>") || !strings.Contains(out.String(), "idea.md * (unsaved)") {
		t.Errorf("temporary document not rendered:\n%s", out.String())
	}
}

func TestOpenMissingFolder(t *testing.T) {
	_, err := Open(context.Background(), filepath.Join(t.TempDir(), "void"), CreateConfig{Logger: zap.NewNop()}, declineAll{}, nil)
	if !errors.Is(err, NotFound) {
		t.Errorf("expected NotFound, got %v", err)
	}
}

func TestSelectErrorNamesNode(t *testing.T) {
	ws, _, _ := makeTestWorkspace(t)
	err := ws.Select(context.Background(), 777)
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("expected command error, got %v", err)
	}
	if cmdErr.Node() != 777 || !strings.Contains(err.Error(), "cannot select #777") {
		t.Errorf("node not named: %v", err)
	}
	if kind, ok := cmdErr.Kind(); !ok || kind != NotFound {
		t.Errorf("Kind() = %v, %v", kind, ok)
	}
	if !errors.Is(err, NotFound) {
		t.Error("cause not reachable through errors.Is")
	}
}

func TestCommandErrorWithForeignCause(t *testing.T) {
	err := newCommandError("workspace open error", errors.New("boom"))
	if _, ok := err.Kind(); ok {
		t.Error("foreign cause classified as workspace failure")
	}
	if err.Node() != MissingId || err.Error() != "workspace open error: boom" {
		t.Errorf("unexpected error %q", err.Error())
	}
}
