package unlower

import (
	"fmt"
	"io"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"resurface/internal/mirop"
	"resurface/internal/source"
)

// TableSchemaVersion is bumped whenever the table format changes.
const TableSchemaVersion uint16 = 1

type originRecord struct {
	Loc  mirop.Loc
	Span source.Span
}

type tablePayload struct {
	Schema  uint16
	Exprs   []Expr
	Origins []originRecord
}

// EncodeTable serializes a table for handoff between the analysis side and
// this engine.
func EncodeTable(w io.Writer, exprs []Expr, origins map[mirop.Loc]source.Span) error {
	records := make([]originRecord, 0, len(origins))
	for loc, span := range origins {
		records = append(records, originRecord{Loc: loc, Span: span})
	}
	enc := msgpack.NewEncoder(w)
	return enc.Encode(tablePayload{
		Schema:  TableSchemaVersion,
		Exprs:   exprs,
		Origins: records,
	})
}

// DecodeTable reads a serialized table, rejecting unknown schema versions.
func DecodeTable(r io.Reader) (*Table, error) {
	var payload tablePayload
	dec := msgpack.NewDecoder(r)
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode unlowering table: %w", err)
	}
	if payload.Schema != TableSchemaVersion {
		return nil, fmt.Errorf("unlowering table schema %d, supported %d: %w",
			payload.Schema, TableSchemaVersion, mirop.ErrSchemaVersion)
	}
	origins := make(map[mirop.Loc]source.Span, len(payload.Origins))
	for _, rec := range payload.Origins {
		origins[rec.Loc] = rec.Span
	}
	return NewTable(payload.Exprs, origins), nil
}

// LoadTable reads a serialized table from disk.
func LoadTable(path string) (*Table, error) {
	// #nosec G304 -- path is provided by the caller
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeTable(f)
}
