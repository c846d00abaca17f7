package protocol

import "fmt"

// Opcode is one AFC operation code, carried in the second header word.
type Opcode uint64

const (
	OpInvalid               Opcode = 0x00
	OpStatus                Opcode = 0x01
	OpData                  Opcode = 0x02
	OpReadDir               Opcode = 0x03
	OpReadFile              Opcode = 0x04
	OpWriteFile             Opcode = 0x05
	OpWritePart             Opcode = 0x06
	OpTruncate              Opcode = 0x07
	OpRemovePath            Opcode = 0x08
	OpMakeDir               Opcode = 0x09
	OpGetFileInfo           Opcode = 0x0a
	OpGetDevInfo            Opcode = 0x0b
	OpWriteFileAtomic       Opcode = 0x0c
	OpFileOpen              Opcode = 0x0d
	OpFileOpenRes           Opcode = 0x0e
	OpFileRead              Opcode = 0x0f
	OpFileWrite             Opcode = 0x10
	OpFileSeek              Opcode = 0x11
	OpFileTell              Opcode = 0x12
	OpFileTellRes           Opcode = 0x13
	OpFileClose             Opcode = 0x14
	OpFileSetSize           Opcode = 0x15
	OpGetConInfo            Opcode = 0x16
	OpSetConOptions         Opcode = 0x17
	OpRenamePath            Opcode = 0x18
	OpSetFSBlockSize        Opcode = 0x19
	OpSetSocketBlockSize    Opcode = 0x1a
	OpFileLock              Opcode = 0x1b
	OpMakeLink              Opcode = 0x1c
	OpGetFileHash           Opcode = 0x1d
	OpSetFileModTime        Opcode = 0x1e
	OpGetFileHashRange      Opcode = 0x1f
	OpFileSetImmutableHint  Opcode = 0x20
	OpGetSizeOfPathContents Opcode = 0x21
	OpRemovePathAndContents Opcode = 0x22
	OpDirOpen               Opcode = 0x23
	OpDirOpenResult         Opcode = 0x24
	OpDirRead               Opcode = 0x25
	OpDirClose              Opcode = 0x26
	OpFileReadOffset        Opcode = 0x27
	OpFileWriteOffset       Opcode = 0x28
)

var opcodeNames = map[Opcode]string{
	OpInvalid:               "INVALID",
	OpStatus:                "STATUS",
	OpData:                  "DATA",
	OpReadDir:               "READ_DIR",
	OpReadFile:              "READ_FILE",
	OpWriteFile:             "WRITE_FILE",
	OpWritePart:             "WRITE_PART",
	OpTruncate:              "TRUNCATE",
	OpRemovePath:            "REMOVE_PATH",
	OpMakeDir:               "MAKE_DIR",
	OpGetFileInfo:           "GET_FILE_INFO",
	OpGetDevInfo:            "GET_DEVINFO",
	OpWriteFileAtomic:       "WRITE_FILE_ATOM",
	OpFileOpen:              "FILE_OPEN",
	OpFileOpenRes:           "FILE_OPEN_RES",
	OpFileRead:              "FILE_READ",
	OpFileWrite:             "FILE_WRITE",
	OpFileSeek:              "FILE_SEEK",
	OpFileTell:              "FILE_TELL",
	OpFileTellRes:           "FILE_TELL_RES",
	OpFileClose:             "FILE_CLOSE",
	OpFileSetSize:           "FILE_SET_SIZE",
	OpGetConInfo:            "GET_CON_INFO",
	OpSetConOptions:         "SET_CON_OPTIONS",
	OpRenamePath:            "RENAME_PATH",
	OpSetFSBlockSize:        "SET_FS_BS",
	OpSetSocketBlockSize:    "SET_SOCKET_BS",
	OpFileLock:              "FILE_LOCK",
	OpMakeLink:              "MAKE_LINK",
	OpGetFileHash:           "GET_FILE_HASH",
	OpSetFileModTime:        "SET_FILE_MOD_TIME",
	OpGetFileHashRange:      "GET_FILE_HASH_RANGE",
	OpFileSetImmutableHint:  "FILE_SET_IMMUTABLE_HINT",
	OpGetSizeOfPathContents: "GET_SIZE_OF_PATH_CONTENTS",
	OpRemovePathAndContents: "REMOVE_PATH_AND_CONTENTS",
	OpDirOpen:               "DIR_OPEN",
	OpDirOpenResult:         "DIR_OPEN_RESULT",
	OpDirRead:               "DIR_READ",
	OpDirClose:              "DIR_CLOSE",
	OpFileReadOffset:        "FILE_READ_OFFSET",
	OpFileWriteOffset:       "FILE_WRITE_OFFSET",
}

func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return fmt.Sprintf("OP_0x%02X", uint64(op))
}

// StatusCode is the single-byte result carried by a STATUS response.
type StatusCode uint8

const (
	StatusSuccess             StatusCode = 0
	StatusUnknownError        StatusCode = 1
	StatusOpHeaderInvalid     StatusCode = 2
	StatusNoResources         StatusCode = 3
	StatusReadError           StatusCode = 4
	StatusWriteError          StatusCode = 5
	StatusUnknownPacketType   StatusCode = 6
	StatusInvalidArg          StatusCode = 7
	StatusObjectNotFound      StatusCode = 8
	StatusObjectIsDir         StatusCode = 9
	StatusPermDenied          StatusCode = 10
	StatusServiceNotConnected StatusCode = 11
	StatusOpTimeout           StatusCode = 12
	StatusTooMuchData         StatusCode = 13
	StatusEndOfData           StatusCode = 14
	StatusOpNotSupported      StatusCode = 15
	StatusObjectExists        StatusCode = 16
	StatusObjectBusy          StatusCode = 17
	StatusNoSpaceLeft         StatusCode = 18
	StatusOpWouldBlock        StatusCode = 19
	StatusIOError             StatusCode = 20
	StatusOpInterrupted       StatusCode = 21
	StatusOpInProgress        StatusCode = 22
	StatusInternalError       StatusCode = 23
	StatusMuxError            StatusCode = 30
	StatusNoMemory            StatusCode = 31
	StatusNotEnoughData       StatusCode = 32
	StatusDirNotEmpty         StatusCode = 33
)

var statusNames = map[StatusCode]string{
	StatusSuccess:             "SUCCESS",
	StatusUnknownError:        "UNKNOWN_ERROR",
	StatusOpHeaderInvalid:     "OP_HEADER_INVALID",
	StatusNoResources:         "NO_RESOURCES",
	StatusReadError:           "READ_ERROR",
	StatusWriteError:          "WRITE_ERROR",
	StatusUnknownPacketType:   "UNKNOWN_PACKET_TYPE",
	StatusInvalidArg:          "INVALID_ARG",
	StatusObjectNotFound:      "OBJECT_NOT_FOUND",
	StatusObjectIsDir:         "OBJECT_IS_DIR",
	StatusPermDenied:          "PERM_DENIED",
	StatusServiceNotConnected: "SERVICE_NOT_CONNECTED",
	StatusOpTimeout:           "OP_TIMEOUT",
	StatusTooMuchData:         "TOO_MUCH_DATA",
	StatusEndOfData:           "END_OF_DATA",
	StatusOpNotSupported:      "OP_NOT_SUPPORTED",
	StatusObjectExists:        "OBJECT_EXISTS",
	StatusObjectBusy:          "OBJECT_BUSY",
	StatusNoSpaceLeft:         "NO_SPACE_LEFT",
	StatusOpWouldBlock:        "OP_WOULD_BLOCK",
	StatusIOError:             "IO_ERROR",
	StatusOpInterrupted:       "OP_INTERRUPTED",
	StatusOpInProgress:        "OP_IN_PROGRESS",
	StatusInternalError:       "INTERNAL_ERROR",
	StatusMuxError:            "MUX_ERROR",
	StatusNoMemory:            "NO_MEM",
	StatusNotEnoughData:       "NOT_ENOUGH_DATA",
	StatusDirNotEmpty:         "DIR_NOT_EMPTY",
}

func (s StatusCode) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("STATUS_0x%02X", uint8(s))
}

// FileMode is the open-mode word sent with FILE_OPEN.
type FileMode uint64

const (
	ModeReadOnly      FileMode = 0x1 // r
	ModeReadWrite     FileMode = 0x2 // r+
	ModeWriteTruncate FileMode = 0x3 // w
	ModeReadTruncate  FileMode = 0x4 // w+
	ModeAppend        FileMode = 0x5 // a
	ModeReadAppend    FileMode = 0x6 // a+
)
