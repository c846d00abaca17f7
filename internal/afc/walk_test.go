package afc

import (
	"errors"
	"reflect"
	"testing"

	"github.com/danmuck/afcctl/internal/protocol"
	"github.com/danmuck/afcctl/internal/protocol/payload"
)

type visitRecord struct {
	path  string
	isDir bool
}

// scriptTree wires READ_DIR and GET_FILE_INFO handlers for a fixed tree.
// listings include the "." and ".." sentinels the device always reports.
func scriptTree(device *fakeDevice, listings map[string][]string, dirs map[string]bool) {
	device.handle(protocol.OpReadDir, func(pkt uint64, body []byte) []reply {
		entries, ok := listings[string(body)]
		if !ok {
			return statusReply(protocol.StatusObjectNotFound)
		}
		return dataReply(payload.EncodeStrings(append([]string{".", ".."}, entries...)))
	})
	device.handle(protocol.OpGetFileInfo, func(pkt uint64, body []byte) []reply {
		format := "S_IFREG"
		if dirs[string(body)] {
			format = "S_IFDIR"
		}
		return dataReply(payload.EncodeStrings([]string{
			"st_size", "0",
			"st_ifmt", format,
		}))
	})
}

func TestWalkDepthFirstOrder(t *testing.T) {
	device, client := newTestClient(t, DefaultConnConfig())
	scriptTree(device,
		map[string][]string{
			"/root":    {"f1", "d1"},
			"/root/d1": {"f2"},
		},
		map[string]bool{"/root/d1": true},
	)

	var visits []visitRecord
	err := client.Walk("/root", true, func(entryPath string, isDir bool) error {
		visits = append(visits, visitRecord{path: entryPath, isDir: isDir})
		return nil
	})
	if err != nil {
		t.Fatalf("walk: %v", err)
	}

	want := []visitRecord{
		{path: "/root/f1", isDir: false},
		{path: "/root/d1", isDir: true},
		{path: "/root/d1/f2", isDir: false},
	}
	if !reflect.DeepEqual(visits, want) {
		t.Fatalf("visit order mismatch:\n got %v\nwant %v", visits, want)
	}
}

func TestWalkNonRecursiveStaysShallow(t *testing.T) {
	device, client := newTestClient(t, DefaultConnConfig())
	scriptTree(device,
		map[string][]string{
			"/root":    {"d1", "f1"},
			"/root/d1": {"f2"},
		},
		map[string]bool{"/root/d1": true},
	)

	var visits []string
	err := client.Walk("/root", false, func(entryPath string, isDir bool) error {
		visits = append(visits, entryPath)
		return nil
	})
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if !reflect.DeepEqual(visits, []string{"/root/d1", "/root/f1"}) {
		t.Fatalf("got %v", visits)
	}
}

func TestWalkAbortsOnListError(t *testing.T) {
	device, client := newTestClient(t, DefaultConnConfig())
	scriptTree(device,
		map[string][]string{
			"/root": {"d1", "f1"},
			// /root/d1 missing: listing it fails mid-walk
		},
		map[string]bool{"/root/d1": true},
	)

	var visits []string
	err := client.Walk("/root", true, func(entryPath string, isDir bool) error {
		visits = append(visits, entryPath)
		return nil
	})
	code, ok := protocol.StatusOf(err)
	if !ok || code != protocol.StatusObjectNotFound {
		t.Fatalf("expected OBJECT_NOT_FOUND, got %v", err)
	}
	// d1 itself was visited; the failure stopped everything after it.
	if !reflect.DeepEqual(visits, []string{"/root/d1"}) {
		t.Fatalf("got %v", visits)
	}
}

func TestWalkVisitErrorAborts(t *testing.T) {
	device, client := newTestClient(t, DefaultConnConfig())
	scriptTree(device,
		map[string][]string{"/root": {"a", "b", "c"}},
		nil,
	)

	boom := errors.New("stop here")
	var visits []string
	err := client.Walk("/root", true, func(entryPath string, isDir bool) error {
		visits = append(visits, entryPath)
		if entryPath == "/root/b" {
			return boom
		}
		return nil
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected visit error, got %v", err)
	}
	if !reflect.DeepEqual(visits, []string{"/root/a", "/root/b"}) {
		t.Fatalf("got %v", visits)
	}
}

func TestWalkDepthGuard(t *testing.T) {
	device, client := newTestClient(t, DefaultConnConfig())

	// Every directory contains one subdirectory: an unbounded chain.
	device.handle(protocol.OpReadDir, func(pkt uint64, body []byte) []reply {
		return dataReply(payload.EncodeStrings([]string{".", "..", "d"}))
	})
	device.handle(protocol.OpGetFileInfo, func(pkt uint64, body []byte) []reply {
		return dataReply(payload.EncodeStrings([]string{"st_ifmt", "S_IFDIR"}))
	})

	err := client.Walk("/", true, func(entryPath string, isDir bool) error {
		return nil
	})
	if !errors.Is(err, ErrWalkTooDeep) {
		t.Fatalf("expected ErrWalkTooDeep, got %v", err)
	}
}

func TestWalkSkipsSentinelsOnly(t *testing.T) {
	device, client := newTestClient(t, DefaultConnConfig())
	scriptTree(device,
		map[string][]string{"/root": {".hidden", "..data"}},
		nil,
	)

	var visits []string
	err := client.Walk("/root", true, func(entryPath string, isDir bool) error {
		visits = append(visits, entryPath)
		return nil
	})
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	// Dotfiles are not sentinels; only "." and ".." are filtered.
	want := []string{"/root/.hidden", "/root/..data"}
	if !reflect.DeepEqual(visits, want) {
		t.Fatalf("got %v want %v", visits, want)
	}
}

func TestWalkPropagatesStatError(t *testing.T) {
	device, client := newTestClient(t, DefaultConnConfig())
	device.handle(protocol.OpReadDir, func(pkt uint64, body []byte) []reply {
		return dataReply(payload.EncodeStrings([]string{".", "..", "f1", "f2"}))
	})
	calls := 0
	device.handle(protocol.OpGetFileInfo, func(pkt uint64, body []byte) []reply {
		calls++
		if calls > 1 {
			return statusReply(protocol.StatusPermDenied)
		}
		return dataReply(payload.EncodeStrings([]string{"st_ifmt", "S_IFREG"}))
	})

	var visits []string
	err := client.Walk("/root", false, func(entryPath string, isDir bool) error {
		visits = append(visits, entryPath)
		return nil
	})
	code, ok := protocol.StatusOf(err)
	if !ok || code != protocol.StatusPermDenied {
		t.Fatalf("expected PERM_DENIED, got %v", err)
	}
	if len(visits) != 1 {
		t.Fatalf("walk should stop after the stat failure: %v", visits)
	}
}
