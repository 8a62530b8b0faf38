package mirop

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/vmihailenco/msgpack/v5"
)

// StreamSchemaVersion is bumped whenever the request stream format changes.
const StreamSchemaVersion uint16 = 1

// ErrSchemaVersion marks an artifact written with a schema this build does
// not support. The unlowering table codec wraps it too.
var ErrSchemaVersion = errors.New("unsupported schema version")

type streamPayload struct {
	Schema   uint16
	Requests []Request
}

// EncodeStream writes an ordered request stream. The analysis side and the
// test suite use this to hand requests to the engine.
func EncodeStream(w io.Writer, requests []Request) error {
	enc := msgpack.NewEncoder(w)
	return enc.Encode(streamPayload{
		Schema:   StreamSchemaVersion,
		Requests: requests,
	})
}

// DecodeStream reads an ordered request stream, rejecting unknown schema
// versions.
func DecodeStream(r io.Reader) ([]Request, error) {
	var payload streamPayload
	dec := msgpack.NewDecoder(r)
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode request stream: %w", err)
	}
	if payload.Schema != StreamSchemaVersion {
		return nil, fmt.Errorf("request stream schema %d, supported %d: %w",
			payload.Schema, StreamSchemaVersion, ErrSchemaVersion)
	}
	return payload.Requests, nil
}

// LoadStream reads a request stream from disk.
func LoadStream(path string) ([]Request, error) {
	// #nosec G304 -- path is provided by the caller
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeStream(f)
}
