package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Decoding of analysis artifacts (1000-1999)
	DecSchemaVersion  Code = 1000 // artifact schema version mismatch
	DecCorruptPayload Code = 1001 // artifact failed to decode
	DecMissingTable   Code = 1002 // unlowering table has no entry for a function

	// Distribution (2000-2999)
	DstUnattributedEdit Code = 2000 // edit request location has no surface owner
	DstDroppedKind      Code = 2001 // edit kind not representable on owner expression

	// Application (3000-3999)
	AplEmptyOutput Code = 3000 // no rewrites for file, emitted verbatim

	// I/O (4000-4999)
	IOLoadFileError  Code = 4000
	IOWriteFileError Code = 4001
)

var codeDescription = map[Code]string{
	UnknownCode:         "unknown",
	DecSchemaVersion:    "unsupported artifact schema version",
	DecCorruptPayload:   "corrupt analysis artifact",
	DecMissingTable:     "no unlowering entries for function",
	DstUnattributedEdit: "edit request has no owning surface expression",
	DstDroppedKind:      "edit kind cannot apply to owning expression",
	AplEmptyOutput:      "file has no rewrites",
	IOLoadFileError:     "failed to load file",
	IOWriteFileError:    "failed to write file",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("DEC%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("DST%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("APL%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
