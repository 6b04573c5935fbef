package storage

import (
	"encoding/json"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"

	"github.com/poiesic/memberqa/core"
)

// DocumentMUS is the mus serializer for core.Document.
// Fields are written in declaration order; Raw is a length-prefixed byte slice.
var DocumentMUS = documentMUS{}

type documentMUS struct{}

func (documentMUS) Marshal(v core.Document, bs []byte) (n int) {
	n = ord.String.Marshal(v.ID, bs)
	n += ord.String.Marshal(v.Member, bs[n:])
	n += ord.String.Marshal(v.Text, bs[n:])
	n += ord.String.Marshal(v.Timestamp, bs[n:])
	return n + ord.ByteSlice.Marshal([]byte(v.Raw), bs[n:])
}

func (documentMUS) Unmarshal(bs []byte) (v core.Document, n int, err error) {
	var n1 int
	if v.ID, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if v.Member, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		n += n1
		return
	}
	n += n1
	if v.Text, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		n += n1
		return
	}
	n += n1
	if v.Timestamp, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		n += n1
		return
	}
	n += n1
	var raw []byte
	raw, n1, err = ord.ByteSlice.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	if len(raw) > 0 {
		v.Raw = json.RawMessage(raw)
	}
	return
}

func (documentMUS) Size(v core.Document) (size int) {
	size = ord.String.Size(v.ID)
	size += ord.String.Size(v.Member)
	size += ord.String.Size(v.Text)
	size += ord.String.Size(v.Timestamp)
	return size + ord.ByteSlice.Size([]byte(v.Raw))
}

// CorpusMetaMUS is the mus serializer for CorpusMeta.
// BuiltAt is stored as Unix microseconds.
var CorpusMetaMUS = corpusMetaMUS{}

type corpusMetaMUS struct{}

func (corpusMetaMUS) Marshal(v CorpusMeta, bs []byte) (n int) {
	n = varint.Uint64.Marshal(v.Generation, bs)
	n += varint.Int64.Marshal(builtAtMicros(v.BuiltAt), bs[n:])
	n += varint.Int64.Marshal(int64(v.Count), bs[n:])
	return n + varint.Uint64.Marshal(v.Checksum, bs[n:])
}

func (corpusMetaMUS) Unmarshal(bs []byte) (v CorpusMeta, n int, err error) {
	var (
		n1     int
		micros int64
		count  int64
	)
	if v.Generation, n, err = varint.Uint64.Unmarshal(bs); err != nil {
		return
	}
	if micros, n1, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		n += n1
		return
	}
	n += n1
	if micros != 0 {
		v.BuiltAt = time.UnixMicro(micros).UTC()
	}
	if count, n1, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		n += n1
		return
	}
	n += n1
	v.Count = int(count)
	v.Checksum, n1, err = varint.Uint64.Unmarshal(bs[n:])
	n += n1
	return
}

func (corpusMetaMUS) Size(v CorpusMeta) (size int) {
	size = varint.Uint64.Size(v.Generation)
	size += varint.Int64.Size(builtAtMicros(v.BuiltAt))
	size += varint.Int64.Size(int64(v.Count))
	return size + varint.Uint64.Size(v.Checksum)
}

func builtAtMicros(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMicro()
}
