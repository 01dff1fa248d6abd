package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"
)

func TestErrorMatchesKind(t *testing.T) {
	cause := errors.New("device busy")
	err := fmt.Errorf("while saving: %w", newError(IoFailure, "cannot write /x.md", cause))

	if !errors.Is(err, IoFailure) {
		t.Error("kind not matched through wrapping")
	}
	if errors.Is(err, NotFound) {
		t.Error("matched foreign kind")
	}
	if !errors.Is(err, cause) {
		t.Error("cause not reachable")
	}
	var wsErr *Error
	if !errors.As(err, &wsErr) || wsErr.Kind != IoFailure {
		t.Errorf("errors.As gave %+v", wsErr)
	}
	if got := wsErr.Error(); got != "I/O failure: cannot write /x.md: device busy" {
		t.Errorf("message %q", got)
	}
}

func TestIoErrorClassification(t *testing.T) {
	missing := ioError("load", fmt.Errorf("reading: %w", fs.ErrNotExist))
	if missing.Kind != NotFound {
		t.Errorf("missing file classified as %s", missing.Kind)
	}
	denied := ioError("load", fs.ErrPermission)
	if denied.Kind != IoFailure {
		t.Errorf("permission problem classified as %s", denied.Kind)
	}
}
