package mgclient

import (
	"math"
	"time"

	"github.com/memgraph/mgclient-go/protocol"
	"github.com/memgraph/mgclient-go/transport"
)

// decodeRow converts one wire row into a Record.
func decodeRow(row *transport.Row) (Record, error) {
	values := make([]Value, len(row.Values))
	for i, rv := range row.Values {
		v, err := decodeValue(rv)
		if err != nil {
			return Record{}, err
		}
		values[i] = v
	}
	return Record{Values: values}, nil
}

// decodeSummary converts the raw summary map attached to the end of a
// result stream.
func decodeSummary(entries map[string]protocol.Value) (map[string]Value, error) {
	if entries == nil {
		return nil, nil
	}
	return decodeMap(entries)
}

// decodeValue converts a wire value into its session-level
// counterpart. Structures with signatures outside the dialect decode
// to Null so that newer servers do not break older clients. Shape
// violations return a ProtocolError; range violations return an
// EncodingError.
func decodeValue(v protocol.Value) (Value, error) {
	switch v.Type() {
	case protocol.TypeNull:
		return Null{}, nil
	case protocol.TypeBool:
		return Bool(v.Bool()), nil
	case protocol.TypeInt:
		return Int(v.Int()), nil
	case protocol.TypeFloat:
		return Float(v.Float()), nil
	case protocol.TypeString:
		return String(v.Str()), nil
	case protocol.TypeList:
		return decodeList(v.List())
	case protocol.TypeMap:
		return decodeMap(v.Map())
	case protocol.TypeNode:
		return decodeNode(v)
	case protocol.TypeRelationship:
		return decodeRelationship(v)
	case protocol.TypeUnboundRelationship:
		return decodeUnboundRelationship(v)
	case protocol.TypePath:
		return decodePath(v)
	case protocol.TypeDate:
		return decodeDate(v)
	case protocol.TypeLocalTime:
		return decodeLocalTime(v)
	case protocol.TypeLocalDateTime:
		return decodeLocalDateTime(v)
	case protocol.TypeDateTimeOffset:
		return decodeDateTimeOffset(v)
	case protocol.TypeDateTimeZoneID:
		return decodeDateTimeZoneID(v)
	case protocol.TypeDuration:
		return decodeDuration(v)
	case protocol.TypePoint2D:
		return decodePoint2D(v)
	case protocol.TypePoint3D:
		return decodePoint3D(v)
	default:
		return Null{}, nil
	}
}

func malformed(kind string) error {
	return &ProtocolError{Message: "malformed " + kind + " structure"}
}

func decodeList(items []protocol.Value) (List, error) {
	out := make(List, len(items))
	for i, item := range items {
		v, err := decodeValue(item)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func decodeMap(entries map[string]protocol.Value) (Map, error) {
	out := make(Map, len(entries))
	for k, item := range entries {
		v, err := decodeValue(item)
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

func decodeNode(v protocol.Value) (Node, error) {
	f := v.Fields()
	if len(f) != 3 || f[0].Type() != protocol.TypeInt ||
		f[1].Type() != protocol.TypeList || f[2].Type() != protocol.TypeMap {
		return Node{}, malformed("node")
	}
	raw := f[1].List()
	labels := make([]string, len(raw))
	for i, l := range raw {
		if l.Type() != protocol.TypeString {
			return Node{}, malformed("node")
		}
		labels[i] = l.Str()
	}
	props, err := decodeMap(f[2].Map())
	if err != nil {
		return Node{}, err
	}
	return Node{ID: f[0].Int(), Labels: labels, Properties: props}, nil
}

func decodeRelationship(v protocol.Value) (Relationship, error) {
	f := v.Fields()
	if len(f) != 5 || f[0].Type() != protocol.TypeInt ||
		f[1].Type() != protocol.TypeInt || f[2].Type() != protocol.TypeInt ||
		f[3].Type() != protocol.TypeString || f[4].Type() != protocol.TypeMap {
		return Relationship{}, malformed("relationship")
	}
	props, err := decodeMap(f[4].Map())
	if err != nil {
		return Relationship{}, err
	}
	return Relationship{
		ID:         f[0].Int(),
		StartID:    f[1].Int(),
		EndID:      f[2].Int(),
		Type:       f[3].Str(),
		Properties: props,
	}, nil
}

func decodeUnboundRelationship(v protocol.Value) (UnboundRelationship, error) {
	f := v.Fields()
	if len(f) != 3 || f[0].Type() != protocol.TypeInt ||
		f[1].Type() != protocol.TypeString || f[2].Type() != protocol.TypeMap {
		return UnboundRelationship{}, malformed("unbound relationship")
	}
	props, err := decodeMap(f[2].Map())
	if err != nil {
		return UnboundRelationship{}, err
	}
	return UnboundRelationship{ID: f[0].Int(), Type: f[1].Str(), Properties: props}, nil
}

// decodePath resolves the wire form (unique nodes, unique
// relationships, traversal index sequence) into walk order. The
// resulting Nodes and Relationships alternate along the path and the
// indices are discarded; Nodes always has one more entry than
// Relationships.
func decodePath(v protocol.Value) (Path, error) {
	f := v.Fields()
	if len(f) != 3 || f[0].Type() != protocol.TypeList ||
		f[1].Type() != protocol.TypeList || f[2].Type() != protocol.TypeList {
		return Path{}, malformed("path")
	}

	rawNodes := f[0].List()
	if len(rawNodes) == 0 {
		return Path{}, malformed("path")
	}
	nodes := make([]Node, len(rawNodes))
	for i, rn := range rawNodes {
		if rn.Type() != protocol.TypeNode {
			return Path{}, malformed("path")
		}
		n, err := decodeNode(rn)
		if err != nil {
			return Path{}, err
		}
		nodes[i] = n
	}

	rawRels := f[1].List()
	rels := make([]UnboundRelationship, len(rawRels))
	for i, rr := range rawRels {
		if rr.Type() != protocol.TypeUnboundRelationship {
			return Path{}, malformed("path")
		}
		r, err := decodeUnboundRelationship(rr)
		if err != nil {
			return Path{}, err
		}
		rels[i] = r
	}

	indices := f[2].List()
	if len(indices)%2 != 0 {
		return Path{}, malformed("path")
	}
	steps := len(indices) / 2

	path := Path{
		Nodes:         make([]Node, 0, steps+1),
		Relationships: make([]UnboundRelationship, 0, steps),
	}
	path.Nodes = append(path.Nodes, nodes[0])
	for i := 0; i < len(indices); i += 2 {
		if indices[i].Type() != protocol.TypeInt || indices[i+1].Type() != protocol.TypeInt {
			return Path{}, malformed("path")
		}
		relIdx := indices[i].Int()
		nodeIdx := indices[i+1].Int()

		// Relationship indices are 1-based; a negative index means the
		// relationship is traversed against its stored direction.
		if relIdx < 0 {
			relIdx = -relIdx
		}
		if relIdx < 1 || relIdx > int64(len(rels)) {
			return Path{}, malformed("path")
		}
		if nodeIdx < 0 || nodeIdx >= int64(len(nodes)) {
			return Path{}, malformed("path")
		}
		path.Relationships = append(path.Relationships, rels[relIdx-1])
		path.Nodes = append(path.Nodes, nodes[nodeIdx])
	}
	return path, nil
}

func decodeDate(v protocol.Value) (Date, error) {
	f := v.Fields()
	if len(f) != 1 || f[0].Type() != protocol.TypeInt {
		return Date{}, malformed("date")
	}
	days := f[0].Int()
	if days < -maxEpochDays || days > maxEpochDays {
		return Date{}, &EncodingError{Reason: "date out of range"}
	}
	year, month, day := civilFromDays(days)
	return Date{Year: year, Month: month, Day: day}, nil
}

func decodeLocalTime(v protocol.Value) (LocalTime, error) {
	f := v.Fields()
	if len(f) != 1 || f[0].Type() != protocol.TypeInt {
		return LocalTime{}, malformed("local time")
	}
	nanos := f[0].Int()
	if nanos < 0 || nanos >= nanosPerDay {
		return LocalTime{}, &EncodingError{Reason: "time of day out of range"}
	}
	return splitClock(nanos), nil
}

func decodeLocalDateTime(v protocol.Value) (LocalDateTime, error) {
	f := v.Fields()
	if len(f) != 2 || f[0].Type() != protocol.TypeInt || f[1].Type() != protocol.TypeInt {
		return LocalDateTime{}, malformed("local datetime")
	}
	return localFromEpoch(f[0].Int(), f[1].Int())
}

func decodeDateTimeOffset(v protocol.Value) (DateTime, error) {
	f := v.Fields()
	if len(f) != 3 || f[0].Type() != protocol.TypeInt ||
		f[1].Type() != protocol.TypeInt || f[2].Type() != protocol.TypeInt {
		return DateTime{}, malformed("datetime")
	}
	local, err := localFromEpoch(f[0].Int(), f[1].Int())
	if err != nil {
		return DateTime{}, err
	}
	offset := f[2].Int()
	if offset < -math.MaxInt32 || offset > math.MaxInt32 {
		return DateTime{}, &EncodingError{Reason: "timezone offset out of range"}
	}
	return DateTime{
		Year: local.Year, Month: local.Month, Day: local.Day,
		Hour: local.Hour, Minute: local.Minute, Second: local.Second, Nanosecond: local.Nanosecond,
		TZOffsetSeconds: int(offset),
	}, nil
}

func decodeDateTimeZoneID(v protocol.Value) (DateTime, error) {
	f := v.Fields()
	if len(f) != 3 || f[0].Type() != protocol.TypeInt ||
		f[1].Type() != protocol.TypeInt || f[2].Type() != protocol.TypeString {
		return DateTime{}, malformed("datetime")
	}
	local, err := localFromEpoch(f[0].Int(), f[1].Int())
	if err != nil {
		return DateTime{}, err
	}
	return DateTime{
		Year: local.Year, Month: local.Month, Day: local.Day,
		Hour: local.Hour, Minute: local.Minute, Second: local.Second, Nanosecond: local.Nanosecond,
		TZName: f[2].Str(),
	}, nil
}

func decodeDuration(v protocol.Value) (Duration, error) {
	f := v.Fields()
	if len(f) != 4 {
		return 0, malformed("duration")
	}
	for _, field := range f {
		if field.Type() != protocol.TypeInt {
			return 0, malformed("duration")
		}
	}
	months, days, seconds, nanos := f[0].Int(), f[1].Int(), f[2].Int(), f[3].Int()
	if months != 0 {
		return 0, &EncodingError{Reason: "duration with a month component is not representable"}
	}
	total, ok := mulInt64(days, nanosPerDay)
	if ok {
		var s int64
		s, ok = mulInt64(seconds, int64(time.Second))
		if ok {
			total, ok = addInt64(total, s)
		}
	}
	if ok {
		total, ok = addInt64(total, nanos)
	}
	if !ok {
		return 0, &EncodingError{Reason: "duration out of range"}
	}
	return Duration(total), nil
}

func decodePoint2D(v protocol.Value) (Point2D, error) {
	f := v.Fields()
	if len(f) != 3 || f[0].Type() != protocol.TypeInt ||
		f[1].Type() != protocol.TypeFloat || f[2].Type() != protocol.TypeFloat {
		return Point2D{}, malformed("point")
	}
	return Point2D{SRID: f[0].Int(), X: f[1].Float(), Y: f[2].Float()}, nil
}

func decodePoint3D(v protocol.Value) (Point3D, error) {
	f := v.Fields()
	if len(f) != 4 || f[0].Type() != protocol.TypeInt ||
		f[1].Type() != protocol.TypeFloat || f[2].Type() != protocol.TypeFloat ||
		f[3].Type() != protocol.TypeFloat {
		return Point3D{}, malformed("point")
	}
	return Point3D{SRID: f[0].Int(), X: f[1].Float(), Y: f[2].Float(), Z: f[3].Float()}, nil
}

// localFromEpoch splits wall-clock seconds since the epoch into civil
// date and clock components.
func localFromEpoch(seconds, nanos int64) (LocalDateTime, error) {
	if nanos < 0 || nanos >= int64(time.Second) {
		return LocalDateTime{}, &EncodingError{Reason: "nanosecond component out of range"}
	}
	days := floorDiv(seconds, 86400)
	if days < -maxEpochDays || days > maxEpochDays {
		return LocalDateTime{}, &EncodingError{Reason: "datetime out of range"}
	}
	year, month, day := civilFromDays(days)
	clock := splitClock(floorMod(seconds, 86400)*int64(time.Second) + nanos)
	return LocalDateTime{
		Year: year, Month: month, Day: day,
		Hour: clock.Hour, Minute: clock.Minute, Second: clock.Second, Nanosecond: clock.Nanosecond,
	}, nil
}

func splitClock(nanos int64) LocalTime {
	return LocalTime{
		Hour:       int(nanos / int64(time.Hour)),
		Minute:     int(nanos % int64(time.Hour) / int64(time.Minute)),
		Second:     int(nanos % int64(time.Minute) / int64(time.Second)),
		Nanosecond: int(nanos % int64(time.Second)),
	}
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func floorMod(a, b int64) int64 {
	return a - floorDiv(a, b)*b
}

func addInt64(a, b int64) (int64, bool) {
	s := a + b
	if (a > 0 && b > 0 && s < 0) || (a < 0 && b < 0 && s >= 0) {
		return 0, false
	}
	return s, true
}

func mulInt64(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if (a == math.MinInt64 && b == -1) || (b == math.MinInt64 && a == -1) {
		return 0, false
	}
	p := a * b
	if p/b != a {
		return 0, false
	}
	return p, true
}
