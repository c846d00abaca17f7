package afc

import (
	"fmt"
	"strconv"

	"github.com/danmuck/afcctl/internal/protocol"
)

// EntryType classifies a remote filesystem object.
type EntryType int

const (
	EntryOther EntryType = iota
	EntryRegular
	EntryDirectory
	EntrySymlink
)

func (t EntryType) String() string {
	switch t {
	case EntryRegular:
		return "regular"
	case EntryDirectory:
		return "directory"
	case EntrySymlink:
		return "symlink"
	default:
		return "other"
	}
}

// FileInfo is the parsed GET_FILE_INFO attribute map. The device reports
// timestamps in nanoseconds; they are carried here in milliseconds.
type FileInfo struct {
	Size       int64
	Blocks     int64
	NLink      int64
	Type       EntryType
	ModifiedMs int64
	CreatedMs  int64
}

func (fi FileInfo) IsDir() bool {
	return fi.Type == EntryDirectory
}

// Attribute keys as reported by the device.
const (
	attrSize      = "st_size"
	attrBlocks    = "st_blocks"
	attrNLink     = "st_nlink"
	attrFormat    = "st_ifmt"
	attrModified  = "st_mtime"
	attrBirthtime = "st_birthtime"
)

func fileInfoFromPairs(pairs map[string]string) (FileInfo, error) {
	fi := FileInfo{}
	var err error
	if fi.Size, err = attrInt(pairs, attrSize); err != nil {
		return FileInfo{}, err
	}
	if fi.Blocks, err = attrInt(pairs, attrBlocks); err != nil {
		return FileInfo{}, err
	}
	if fi.NLink, err = attrInt(pairs, attrNLink); err != nil {
		return FileInfo{}, err
	}
	mtime, err := attrInt(pairs, attrModified)
	if err != nil {
		return FileInfo{}, err
	}
	btime, err := attrInt(pairs, attrBirthtime)
	if err != nil {
		return FileInfo{}, err
	}
	fi.ModifiedMs = mtime / 1e6
	fi.CreatedMs = btime / 1e6

	switch pairs[attrFormat] {
	case "S_IFDIR":
		fi.Type = EntryDirectory
	case "S_IFREG":
		fi.Type = EntryRegular
	case "S_IFLNK":
		fi.Type = EntrySymlink
	default:
		fi.Type = EntryOther
	}
	return fi, nil
}

// attrInt parses one numeric attribute, tolerating its absence.
func attrInt(pairs map[string]string, key string) (int64, error) {
	raw, ok := pairs[key]
	if !ok {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: attribute %s=%q", protocol.ErrMalformedPayload, key, raw)
	}
	return v, nil
}
