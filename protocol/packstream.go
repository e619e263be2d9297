// Package protocol implements the Bolt wire protocol spoken by Memgraph:
// PackStream value serialization, message encoding, chunked framing, and
// version negotiation.
package protocol

import (
	"bytes"
	"encoding/binary"
	"math"
)

// PackStream markers. Tiny forms carry their size in the low nibble;
// everything multi-byte is big-endian.
const (
	markerTinyStringBase byte = 0x80
	markerTinyListBase   byte = 0x90
	markerTinyMapBase    byte = 0xA0
	markerTinyStructBase byte = 0xB0
	markerNull           byte = 0xC0
	markerFloat64        byte = 0xC1
	markerFalse          byte = 0xC2
	markerTrue           byte = 0xC3
	markerInt8           byte = 0xC8
	markerInt16          byte = 0xC9
	markerInt32          byte = 0xCA
	markerInt64          byte = 0xCB
	markerString8        byte = 0xD0
	markerString16       byte = 0xD1
	markerString32       byte = 0xD2
	markerList8          byte = 0xD4
	markerList16         byte = 0xD5
	markerList32         byte = 0xD6
	markerMap8           byte = 0xD8
	markerMap16          byte = 0xD9
	markerMap32          byte = 0xDA
	markerStruct8        byte = 0xDC
	markerStruct16       byte = 0xDD
)

const (
	tinyLimit   = 0x0F
	size8Limit  = 0xFF
	size16Limit = 0xFFFF
	size32Limit = 0xFFFFFFFF
)

// EncodeValue appends the PackStream encoding of v to buf.
func EncodeValue(buf *bytes.Buffer, v Value) error {
	switch v.typ {
	case TypeNull:
		buf.WriteByte(markerNull)
	case TypeBool:
		if v.boolean {
			buf.WriteByte(markerTrue)
		} else {
			buf.WriteByte(markerFalse)
		}
	case TypeInt:
		encodeInt(buf, v.integer)
	case TypeFloat:
		buf.WriteByte(markerFloat64)
		var be [8]byte
		binary.BigEndian.PutUint64(be[:], math.Float64bits(v.float))
		buf.Write(be[:])
	case TypeString:
		return encodeString(buf, v.str)
	case TypeList:
		if err := encodeSize(buf, len(v.items), markerTinyListBase, markerList8); err != nil {
			return err
		}
		for _, item := range v.items {
			if err := EncodeValue(buf, item); err != nil {
				return err
			}
		}
	case TypeMap:
		if err := encodeSize(buf, len(v.entries), markerTinyMapBase, markerMap8); err != nil {
			return err
		}
		for key, entry := range v.entries {
			if err := encodeString(buf, key); err != nil {
				return err
			}
			if err := EncodeValue(buf, entry); err != nil {
				return err
			}
		}
	default:
		// Every remaining kind is a structure.
		return encodeStruct(buf, v.sig, v.items)
	}
	return nil
}

// encodeInt writes i in its smallest PackStream representation.
func encodeInt(buf *bytes.Buffer, i int64) {
	switch {
	case i >= -16 && i <= 127:
		buf.WriteByte(byte(i))
	case i >= math.MinInt8 && i <= math.MaxInt8:
		buf.WriteByte(markerInt8)
		buf.WriteByte(byte(i))
	case i >= math.MinInt16 && i <= math.MaxInt16:
		buf.WriteByte(markerInt16)
		var be [2]byte
		binary.BigEndian.PutUint16(be[:], uint16(i))
		buf.Write(be[:])
	case i >= math.MinInt32 && i <= math.MaxInt32:
		buf.WriteByte(markerInt32)
		var be [4]byte
		binary.BigEndian.PutUint32(be[:], uint32(i))
		buf.Write(be[:])
	default:
		buf.WriteByte(markerInt64)
		var be [8]byte
		binary.BigEndian.PutUint64(be[:], uint64(i))
		buf.Write(be[:])
	}
}

func encodeString(buf *bytes.Buffer, s string) error {
	if err := encodeSize(buf, len(s), markerTinyStringBase, markerString8); err != nil {
		return err
	}
	buf.WriteString(s)
	return nil
}

// encodeSize writes the marker and size prefix for a sized container.
// base8 is the String8/List8/Map8 marker of the family; the 16 and 32
// bit forms follow it directly.
func encodeSize(buf *bytes.Buffer, n int, tinyBase, base8 byte) error {
	switch {
	case n <= tinyLimit:
		buf.WriteByte(tinyBase | byte(n))
	case n <= size8Limit:
		buf.WriteByte(base8)
		buf.WriteByte(byte(n))
	case n <= size16Limit:
		buf.WriteByte(base8 + 1)
		var be [2]byte
		binary.BigEndian.PutUint16(be[:], uint16(n))
		buf.Write(be[:])
	case n <= size32Limit:
		buf.WriteByte(base8 + 2)
		var be [4]byte
		binary.BigEndian.PutUint32(be[:], uint32(n))
		buf.Write(be[:])
	default:
		return errSizeLimit(n)
	}
	return nil
}

func encodeStruct(buf *bytes.Buffer, sig byte, fields []Value) error {
	switch {
	case len(fields) <= tinyLimit:
		buf.WriteByte(markerTinyStructBase | byte(len(fields)))
	case len(fields) <= size8Limit:
		buf.WriteByte(markerStruct8)
		buf.WriteByte(byte(len(fields)))
	case len(fields) <= size16Limit:
		buf.WriteByte(markerStruct16)
		var be [2]byte
		binary.BigEndian.PutUint16(be[:], uint16(len(fields)))
		buf.Write(be[:])
	default:
		return errSizeLimit(len(fields))
	}
	buf.WriteByte(sig)
	for _, field := range fields {
		if err := EncodeValue(buf, field); err != nil {
			return err
		}
	}
	return nil
}

// DecodeValue parses exactly one value from data. Trailing bytes are a
// codec error; use a decoder directly when reading a sequence.
func DecodeValue(data []byte) (Value, error) {
	d := decoder{data: data}
	v, err := d.value()
	if err != nil {
		return Value{}, err
	}
	if d.pos != len(d.data) {
		return Value{}, &CodecError{
			Code:    ErrorCodeTrailingData,
			Message: "trailing bytes after value",
		}
	}
	return v, nil
}

// decoder reads PackStream values out of a fully buffered message body.
type decoder struct {
	data []byte
	pos  int
}

func (d *decoder) byte() (byte, error) {
	if d.pos >= len(d.data) {
		return 0, errTruncated("marker")
	}
	b := d.data[d.pos]
	d.pos++
	return b, nil
}

func (d *decoder) take(n int) ([]byte, error) {
	if n < 0 || d.pos+n > len(d.data) {
		return nil, errTruncated("payload")
	}
	b := d.data[d.pos : d.pos+n]
	d.pos += n
	return b, nil
}

func (d *decoder) size(width int) (int, error) {
	b, err := d.take(width)
	if err != nil {
		return 0, err
	}
	switch width {
	case 1:
		return int(b[0]), nil
	case 2:
		return int(binary.BigEndian.Uint16(b)), nil
	default:
		n := binary.BigEndian.Uint32(b)
		if uint64(n) > uint64(len(d.data)) {
			return 0, errTruncated("container")
		}
		return int(n), nil
	}
}

func (d *decoder) value() (Value, error) {
	marker, err := d.byte()
	if err != nil {
		return Value{}, err
	}

	// Tiny forms first: positive and negative tiny ints occupy both ends
	// of the marker space.
	switch {
	case marker <= 0x7F:
		return MakeInt(int64(marker)), nil
	case marker >= 0xF0:
		return MakeInt(int64(int8(marker))), nil
	case marker&0xF0 == markerTinyStringBase:
		return d.str(int(marker & 0x0F))
	case marker&0xF0 == markerTinyListBase:
		return d.list(int(marker & 0x0F))
	case marker&0xF0 == markerTinyMapBase:
		return d.mapValue(int(marker & 0x0F))
	case marker&0xF0 == markerTinyStructBase:
		return d.structValue(int(marker & 0x0F))
	}

	switch marker {
	case markerNull:
		return MakeNull(), nil
	case markerFalse:
		return MakeBool(false), nil
	case markerTrue:
		return MakeBool(true), nil
	case markerFloat64:
		b, err := d.take(8)
		if err != nil {
			return Value{}, err
		}
		return MakeFloat(math.Float64frombits(binary.BigEndian.Uint64(b))), nil
	case markerInt8:
		b, err := d.take(1)
		if err != nil {
			return Value{}, err
		}
		return MakeInt(int64(int8(b[0]))), nil
	case markerInt16:
		b, err := d.take(2)
		if err != nil {
			return Value{}, err
		}
		return MakeInt(int64(int16(binary.BigEndian.Uint16(b)))), nil
	case markerInt32:
		b, err := d.take(4)
		if err != nil {
			return Value{}, err
		}
		return MakeInt(int64(int32(binary.BigEndian.Uint32(b)))), nil
	case markerInt64:
		b, err := d.take(8)
		if err != nil {
			return Value{}, err
		}
		return MakeInt(int64(binary.BigEndian.Uint64(b))), nil
	case markerString8, markerString16, markerString32:
		n, err := d.size(1 << (marker - markerString8))
		if err != nil {
			return Value{}, err
		}
		return d.str(n)
	case markerList8, markerList16, markerList32:
		n, err := d.size(1 << (marker - markerList8))
		if err != nil {
			return Value{}, err
		}
		return d.list(n)
	case markerMap8, markerMap16, markerMap32:
		n, err := d.size(1 << (marker - markerMap8))
		if err != nil {
			return Value{}, err
		}
		return d.mapValue(n)
	case markerStruct8, markerStruct16:
		n, err := d.size(1 << (marker - markerStruct8))
		if err != nil {
			return Value{}, err
		}
		return d.structValue(n)
	default:
		return Value{}, &CodecError{
			Code:    ErrorCodeBadMarker,
			Message: "unrecognized marker byte",
		}
	}
}

func (d *decoder) str(n int) (Value, error) {
	b, err := d.take(n)
	if err != nil {
		return Value{}, err
	}
	return MakeString(string(b)), nil
}

func (d *decoder) list(n int) (Value, error) {
	items := make([]Value, 0, n)
	for i := 0; i < n; i++ {
		item, err := d.value()
		if err != nil {
			return Value{}, err
		}
		items = append(items, item)
	}
	return MakeList(items), nil
}

func (d *decoder) mapValue(n int) (Value, error) {
	entries := make(map[string]Value, n)
	for i := 0; i < n; i++ {
		key, err := d.value()
		if err != nil {
			return Value{}, err
		}
		if key.Type() != TypeString {
			return Value{}, &CodecError{
				Code:    ErrorCodeBadMapKey,
				Message: "map key is not a string",
			}
		}
		entry, err := d.value()
		if err != nil {
			return Value{}, err
		}
		entries[key.Str()] = entry
	}
	return MakeMap(entries), nil
}

func (d *decoder) structValue(n int) (Value, error) {
	sig, err := d.byte()
	if err != nil {
		return Value{}, err
	}
	fields := make([]Value, 0, n)
	for i := 0; i < n; i++ {
		field, err := d.value()
		if err != nil {
			return Value{}, err
		}
		fields = append(fields, field)
	}
	return MakeStruct(sig, fields), nil
}
