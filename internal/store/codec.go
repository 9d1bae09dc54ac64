package store

import (
	"encoding/binary"
	"errors"
	"hash/crc32"

	jsoniter "github.com/json-iterator/go"

	"github.com/rzbill/stow/internal/event"
)

// File layout: magic "STOW" | version byte | records.
// Record: varint payloadLen | json payload | crc32c(payload).

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const codecVersion = 0x01

var fileMagic = []byte("STOW")

// ErrCorrupt marks a file whose contents cannot be decoded. Callers recover
// by deleting the file and treating the collection as empty.
var ErrCorrupt = errors.New("store: corrupt event file")

// encodeEvents serializes an ordered collection into the durable file format.
func encodeEvents(events []event.Event) ([]byte, error) {
	out := make([]byte, 0, 64*len(events)+len(fileMagic)+1)
	out = append(out, fileMagic...)
	out = append(out, codecVersion)
	var tmp [10]byte
	for i := range events {
		payload, err := json.Marshal(&events[i])
		if err != nil {
			return nil, err
		}
		n := binary.PutUvarint(tmp[:], uint64(len(payload)))
		out = append(out, tmp[:n]...)
		out = append(out, payload...)
		var crcb [4]byte
		binary.BigEndian.PutUint32(crcb[:], crc32.Checksum(payload, castagnoli))
		out = append(out, crcb[:]...)
	}
	return out, nil
}

// decodeEvents parses a durable file back into its ordered collection.
// Any framing, checksum, or JSON failure yields ErrCorrupt.
func decodeEvents(b []byte) ([]event.Event, error) {
	if len(b) < len(fileMagic)+1 {
		return nil, ErrCorrupt
	}
	if string(b[:len(fileMagic)]) != string(fileMagic) || b[len(fileMagic)] != codecVersion {
		return nil, ErrCorrupt
	}
	b = b[len(fileMagic)+1:]

	var events []event.Event
	for len(b) > 0 {
		plen, n := binary.Uvarint(b)
		if n <= 0 {
			return nil, ErrCorrupt
		}
		b = b[n:]
		// plen+4 can wrap on a hostile length; reject before slicing
		if plen+4 < plen || uint64(len(b)) < plen+4 {
			return nil, ErrCorrupt
		}
		payload := b[:plen]
		expect := binary.BigEndian.Uint32(b[plen : plen+4])
		if crc32.Checksum(payload, castagnoli) != expect {
			return nil, ErrCorrupt
		}
		var ev event.Event
		if err := json.Unmarshal(payload, &ev); err != nil {
			return nil, ErrCorrupt
		}
		events = append(events, ev)
		b = b[plen+4:]
	}
	return events, nil
}
