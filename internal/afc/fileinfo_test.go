package afc

import (
	"errors"
	"testing"

	"github.com/danmuck/afcctl/internal/protocol"
)

func TestFileInfoFromPairs(t *testing.T) {
	info, err := fileInfoFromPairs(map[string]string{
		"st_size":      "2048",
		"st_blocks":    "16",
		"st_nlink":     "2",
		"st_ifmt":      "S_IFREG",
		"st_mtime":     "1700000000123456789",
		"st_birthtime": "1600000000987654321",
	})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if info.Size != 2048 || info.Blocks != 16 || info.NLink != 2 {
		t.Fatalf("attribute mismatch: %+v", info)
	}
	if info.Type != EntryRegular || info.IsDir() {
		t.Fatalf("type mismatch: %v", info.Type)
	}
	if info.ModifiedMs != 1700000000123 || info.CreatedMs != 1600000000987 {
		t.Fatalf("ns->ms conversion wrong: %+v", info)
	}
}

func TestFileInfoTypeTags(t *testing.T) {
	cases := map[string]EntryType{
		"S_IFDIR":  EntryDirectory,
		"S_IFREG":  EntryRegular,
		"S_IFLNK":  EntrySymlink,
		"S_IFSOCK": EntryOther,
		"":         EntryOther,
	}
	for tag, want := range cases {
		info, err := fileInfoFromPairs(map[string]string{"st_ifmt": tag})
		if err != nil {
			t.Fatalf("parse %q: %v", tag, err)
		}
		if info.Type != want {
			t.Fatalf("tag %q: got %v want %v", tag, info.Type, want)
		}
	}
}

func TestFileInfoToleratesMissingAttributes(t *testing.T) {
	info, err := fileInfoFromPairs(map[string]string{"st_ifmt": "S_IFDIR"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if info.Size != 0 || !info.IsDir() {
		t.Fatalf("got %+v", info)
	}
}

func TestFileInfoRejectsBadNumbers(t *testing.T) {
	_, err := fileInfoFromPairs(map[string]string{"st_size": "not-a-number"})
	if !errors.Is(err, protocol.ErrMalformedPayload) {
		t.Fatalf("expected ErrMalformedPayload, got %v", err)
	}
}
