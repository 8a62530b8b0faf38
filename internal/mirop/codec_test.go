package mirop

import (
	"bytes"
	"errors"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
)

func TestStreamRoundTrip(t *testing.T) {
	requests := []Request{
		{Loc: Loc{Fn: "f", Block: 0, Stmt: 1}, Kind: KindAddCast, Type: "usize"},
		{Loc: Loc{Fn: "f", Block: 2, Stmt: 0}, Kind: KindAddrOfWrap, Mut: true},
		{Loc: Loc{Fn: "g", Block: 1, Stmt: 3}, Kind: KindRemoveCast},
	}

	var buf bytes.Buffer
	if err := EncodeStream(&buf, requests); err != nil {
		t.Fatal(err)
	}
	got, err := DecodeStream(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(requests) {
		t.Fatalf("len = %d, want %d", len(got), len(requests))
	}
	for i := range requests {
		if got[i] != requests[i] {
			t.Errorf("request %d = %+v, want %+v", i, got[i], requests[i])
		}
	}
}

func TestDecodeStream_RejectsUnknownSchema(t *testing.T) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	if err := enc.Encode(streamPayload{Schema: StreamSchemaVersion + 1}); err != nil {
		t.Fatal(err)
	}

	_, err := DecodeStream(&buf)
	if !errors.Is(err, ErrSchemaVersion) {
		t.Errorf("err = %v, want ErrSchemaVersion", err)
	}
}

func TestLocString(t *testing.T) {
	loc := Loc{Fn: "main", Block: 3, Stmt: 7}
	if got, want := loc.String(), "main/bb3[7]"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestKindKnown(t *testing.T) {
	if !KindSetStaticMut.Known() {
		t.Error("KindSetStaticMut should be known")
	}
	if Kind(200).Known() {
		t.Error("kind 200 should be unknown")
	}
	if got := Kind(200).String(); got != "kind(200)" {
		t.Errorf("String() = %q", got)
	}
}
