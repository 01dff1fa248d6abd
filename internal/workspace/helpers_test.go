package workspace

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/n2code/docspace/internal/fsio"
)

type fakePrompter struct {
	mu          sync.Mutex
	savePaths   []string //consumed in order, "" cancels
	suggestions []string
	openPath    string
	openFolder  string
	confirm     bool
	questions   []string
}

func (p *fakePrompter) SelectOpenPath(context.Context) (string, bool, error) {
	return p.openPath, p.openPath != "", nil
}

func (p *fakePrompter) SelectOpenFolder(context.Context) (string, bool, error) {
	return p.openFolder, p.openFolder != "", nil
}

func (p *fakePrompter) SelectSavePath(_ context.Context, suggested string) (string, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.suggestions = append(p.suggestions, suggested)
	if len(p.savePaths) == 0 {
		return "", false, nil
	}
	next := p.savePaths[0]
	p.savePaths = p.savePaths[1:]
	return next, next != "", nil
}

func (p *fakePrompter) Confirm(_ context.Context, question string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.questions = append(p.questions, question)
	return p.confirm, nil
}

type recorder struct {
	mu     sync.Mutex
	loaded []FileData
	shown  []ImageData
	images [][]ImageData
	saves  []SaveResult
}

func (r *recorder) DocumentLoaded(d FileData) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loaded = append(r.loaded, d)
}

func (r *recorder) ImageShown(d ImageData) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shown = append(r.shown, d)
}

func (r *recorder) ImagesLoaded(d []ImageData) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.images = append(r.images, d)
}

func (r *recorder) SaveCompleted(s SaveResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves = append(r.saves, s)
}

func (r *recorder) lastLoaded(t *testing.T) FileData {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.loaded) == 0 {
		t.Fatal("no document loaded")
	}
	return r.loaded[len(r.loaded)-1]
}

type brokenDisk struct {
	fsio.Adapter
}

func (brokenDisk) WriteText(context.Context, string, string) error {
	return errors.New("disk full")
}

type fixture struct {
	ws     *Controller
	disk   *fsio.Counting
	prompt *fakePrompter
	events *recorder
}

func newFixture(t *testing.T, settings Settings, inner fsio.Adapter) *fixture {
	t.Helper()
	if inner == nil {
		inner = fsio.Local{}
	}
	if settings.AutoSaveDelay == 0 {
		settings.AutoSaveDelay = 5 * time.Millisecond
	}
	f := &fixture{disk: fsio.NewCounting(inner), prompt: &fakePrompter{}, events: &recorder{}}
	f.ws = New(Options{Adapter: f.disk, Prompter: f.prompt, Listener: f.events, Settings: settings, Logger: zap.NewNop()})
	t.Cleanup(f.ws.Close)
	return f
}

func writeFile(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(raw)
}

func assertKind(t *testing.T, err error, kind Kind) {
	t.Helper()
	if !errors.Is(err, kind) {
		t.Fatalf("expected %s error, got %v", kind, err)
	}
}
