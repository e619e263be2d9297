package mgclient

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/memgraph/mgclient-go/protocol"
	"github.com/memgraph/mgclient-go/transport"
)

func wireNode(id int64, labels []string, props map[string]protocol.Value) protocol.Value {
	ls := make([]protocol.Value, len(labels))
	for i, l := range labels {
		ls[i] = protocol.MakeString(l)
	}
	return protocol.MakeStruct(protocol.SigNode, []protocol.Value{
		protocol.MakeInt(id), protocol.MakeList(ls), protocol.MakeMap(props),
	})
}

func wireUnbound(id int64, relType string) protocol.Value {
	return protocol.MakeStruct(protocol.SigUnboundRelationship, []protocol.Value{
		protocol.MakeInt(id), protocol.MakeString(relType), protocol.MakeMap(nil),
	})
}

func wirePath(nodes, rels, indices []protocol.Value) protocol.Value {
	return protocol.MakeStruct(protocol.SigPath, []protocol.Value{
		protocol.MakeList(nodes), protocol.MakeList(rels), protocol.MakeList(indices),
	})
}

func wireInts(vals ...int64) []protocol.Value {
	out := make([]protocol.Value, len(vals))
	for i, v := range vals {
		out[i] = protocol.MakeInt(v)
	}
	return out
}

func mustDecode(t *testing.T, v protocol.Value) Value {
	t.Helper()
	out, err := decodeValue(v)
	if err != nil {
		t.Fatalf("decodeValue() error = %v", err)
	}
	return out
}

func TestDecodeScalars(t *testing.T) {
	tests := []struct {
		name string
		in   protocol.Value
		want Value
	}{
		{"null", protocol.MakeNull(), Null{}},
		{"bool", protocol.MakeBool(true), Bool(true)},
		{"int", protocol.MakeInt(-5), Int(-5)},
		{"float", protocol.MakeFloat(2.5), Float(2.5)},
		{"string", protocol.MakeString("hi"), String("hi")},
		{
			"list",
			protocol.MakeList([]protocol.Value{protocol.MakeInt(1), protocol.MakeNull()}),
			List{Int(1), Null{}},
		},
		{
			"map",
			protocol.MakeMap(map[string]protocol.Value{"k": protocol.MakeBool(false)}),
			Map{"k": Bool(false)},
		},
		{"unknown structure", protocol.MakeStruct(0x7A, wireInts(1, 2)), Null{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustDecode(t, tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("decodeValue() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestDecodeNode(t *testing.T) {
	got := mustDecode(t, wireNode(42, []string{"Person", "Admin"}, map[string]protocol.Value{
		"name": protocol.MakeString("Ana"),
	}))
	want := Node{
		ID:         42,
		Labels:     []string{"Person", "Admin"},
		Properties: Map{"name": String("Ana")},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("decodeValue() = %#v, want %#v", got, want)
	}
}

func TestDecodeRelationship(t *testing.T) {
	in := protocol.MakeStruct(protocol.SigRelationship, []protocol.Value{
		protocol.MakeInt(7), protocol.MakeInt(1), protocol.MakeInt(2),
		protocol.MakeString("KNOWS"),
		protocol.MakeMap(map[string]protocol.Value{"since": protocol.MakeInt(2019)}),
	})
	got := mustDecode(t, in)
	want := Relationship{
		ID: 7, StartID: 1, EndID: 2, Type: "KNOWS",
		Properties: Map{"since": Int(2019)},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("decodeValue() = %#v, want %#v", got, want)
	}
}

func TestDecodePathWalk(t *testing.T) {
	a := wireNode(1, []string{"A"}, nil)
	b := wireNode(2, []string{"B"}, nil)
	c := wireNode(3, []string{"C"}, nil)
	r1 := wireUnbound(10, "R1")
	r2 := wireUnbound(20, "R2")

	t.Run("two hops", func(t *testing.T) {
		got := mustDecode(t, wirePath(
			[]protocol.Value{a, b, c},
			[]protocol.Value{r1, r2},
			wireInts(1, 1, 2, 2),
		))
		path, ok := got.(Path)
		if !ok {
			t.Fatalf("decoded type = %T, want Path", got)
		}
		if len(path.Nodes) != 3 || len(path.Relationships) != 2 {
			t.Fatalf("walk = %d nodes, %d relationships, want 3 and 2",
				len(path.Nodes), len(path.Relationships))
		}
		if path.Nodes[0].ID != 1 || path.Nodes[1].ID != 2 || path.Nodes[2].ID != 3 {
			t.Errorf("node order = %v", path.Nodes)
		}
		if path.Relationships[0].ID != 10 || path.Relationships[1].ID != 20 {
			t.Errorf("relationship order = %v", path.Relationships)
		}
	})

	t.Run("reversed traversal", func(t *testing.T) {
		got := mustDecode(t, wirePath(
			[]protocol.Value{a, b},
			[]protocol.Value{r1},
			wireInts(-1, 1),
		))
		path := got.(Path)
		if len(path.Nodes) != 2 || len(path.Relationships) != 1 {
			t.Fatalf("walk = %d nodes, %d relationships, want 2 and 1",
				len(path.Nodes), len(path.Relationships))
		}
		if path.Relationships[0].ID != 10 {
			t.Errorf("relationship = %v", path.Relationships[0])
		}
	})

	t.Run("revisiting walk", func(t *testing.T) {
		// a -> b -> a revisits the first node; the walk keeps duplicates.
		got := mustDecode(t, wirePath(
			[]protocol.Value{a, b},
			[]protocol.Value{r1, r2},
			wireInts(1, 1, 2, 0),
		))
		path := got.(Path)
		if len(path.Nodes) != 3 || len(path.Relationships) != 2 {
			t.Fatalf("walk = %d nodes, %d relationships, want 3 and 2",
				len(path.Nodes), len(path.Relationships))
		}
		if path.Nodes[2].ID != 1 {
			t.Errorf("final node = %v, want the first node again", path.Nodes[2])
		}
	})

	t.Run("single node", func(t *testing.T) {
		got := mustDecode(t, wirePath([]protocol.Value{a}, nil, nil))
		path := got.(Path)
		if len(path.Nodes) != 1 || len(path.Relationships) != 0 {
			t.Fatalf("walk = %d nodes, %d relationships, want 1 and 0",
				len(path.Nodes), len(path.Relationships))
		}
	})
}

func TestDecodePathMalformed(t *testing.T) {
	a := wireNode(1, nil, nil)
	b := wireNode(2, nil, nil)
	r1 := wireUnbound(10, "R")

	tests := []struct {
		name    string
		nodes   []protocol.Value
		rels    []protocol.Value
		indices []protocol.Value
	}{
		{"no nodes", nil, nil, nil},
		{"odd index count", []protocol.Value{a, b}, []protocol.Value{r1}, wireInts(1)},
		{"zero relationship index", []protocol.Value{a, b}, []protocol.Value{r1}, wireInts(0, 1)},
		{"relationship index too large", []protocol.Value{a, b}, []protocol.Value{r1}, wireInts(2, 1)},
		{"node index out of range", []protocol.Value{a, b}, []protocol.Value{r1}, wireInts(1, 2)},
		{"negative node index", []protocol.Value{a, b}, []protocol.Value{r1}, wireInts(1, -1)},
		{
			"non-integer index",
			[]protocol.Value{a, b},
			[]protocol.Value{r1},
			[]protocol.Value{protocol.MakeString("x"), protocol.MakeInt(1)},
		},
		{"non-node entry", []protocol.Value{protocol.MakeInt(5)}, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeValue(wirePath(tt.nodes, tt.rels, tt.indices))
			var perr *ProtocolError
			if !errors.As(err, &perr) {
				t.Errorf("decodeValue() error = %v (%T), want *ProtocolError", err, err)
			}
		})
	}
}

func TestDecodeMalformedShapes(t *testing.T) {
	tests := []struct {
		name string
		in   protocol.Value
	}{
		{"node field count", protocol.MakeStruct(protocol.SigNode, wireInts(1, 2))},
		{
			"node labels not a list",
			protocol.MakeStruct(protocol.SigNode, []protocol.Value{
				protocol.MakeInt(1), protocol.MakeString("x"), protocol.MakeMap(nil),
			}),
		},
		{"relationship field count", protocol.MakeStruct(protocol.SigRelationship, wireInts(1, 2, 3, 4))},
		{"unbound field count", protocol.MakeStruct(protocol.SigUnboundRelationship, wireInts(1))},
		{
			"date field type",
			protocol.MakeStruct(protocol.SigDate, []protocol.Value{protocol.MakeString("x")}),
		},
		{"local time field count", protocol.MakeStruct(protocol.SigLocalTime, wireInts(1, 2))},
		{"local datetime field count", protocol.MakeStruct(protocol.SigLocalDateTime, wireInts(1))},
		{"datetime field count", protocol.MakeStruct(protocol.SigDateTimeOffset, wireInts(1, 2))},
		{"duration field count", protocol.MakeStruct(protocol.SigDuration, wireInts(1, 2, 3))},
		{
			"point2d field types",
			protocol.MakeStruct(protocol.SigPoint2D, wireInts(4326, 1, 2)),
		},
		{"point3d field count", protocol.MakeStruct(protocol.SigPoint3D, wireInts(1))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeValue(tt.in)
			var perr *ProtocolError
			if !errors.As(err, &perr) {
				t.Errorf("decodeValue() error = %v (%T), want *ProtocolError", err, err)
			}
		})
	}
}

func TestDecodeTemporal(t *testing.T) {
	tests := []struct {
		name string
		in   protocol.Value
		want Value
	}{
		{
			"date",
			protocol.MakeStruct(protocol.SigDate, wireInts(19782)),
			Date{Year: 2024, Month: 2, Day: 29},
		},
		{
			"ancient date",
			protocol.MakeStruct(protocol.SigDate, wireInts(-719162)),
			Date{Year: 1, Month: 1, Day: 1},
		},
		{
			"local time",
			protocol.MakeStruct(protocol.SigLocalTime, wireInts(3_723_000_000_004)),
			LocalTime{Hour: 1, Minute: 2, Second: 3, Nanosecond: 4},
		},
		{
			"local datetime",
			protocol.MakeStruct(protocol.SigLocalDateTime, wireInts(1, 5)),
			LocalDateTime{Year: 1970, Month: 1, Day: 1, Second: 1, Nanosecond: 5},
		},
		{
			"pre-epoch local datetime",
			protocol.MakeStruct(protocol.SigLocalDateTime, wireInts(-1, 0)),
			LocalDateTime{Year: 1969, Month: 12, Day: 31, Hour: 23, Minute: 59, Second: 59},
		},
		{
			"datetime with offset",
			protocol.MakeStruct(protocol.SigDateTimeOffset, wireInts(3600, 250, 3600)),
			DateTime{Year: 1970, Month: 1, Day: 1, Hour: 1, Nanosecond: 250, TZOffsetSeconds: 3600},
		},
		{
			"datetime with zone name",
			protocol.MakeStruct(protocol.SigDateTimeZoneID, []protocol.Value{
				protocol.MakeInt(0), protocol.MakeInt(0), protocol.MakeString("Europe/Zagreb"),
			}),
			DateTime{Year: 1970, Month: 1, Day: 1, TZName: "Europe/Zagreb"},
		},
		{
			"duration",
			protocol.MakeStruct(protocol.SigDuration, wireInts(0, 1, 3723, 4)),
			Duration(25*time.Hour + 2*time.Minute + 3*time.Second + 4),
		},
		{
			"negative duration",
			protocol.MakeStruct(protocol.SigDuration, wireInts(0, 0, -1, -500_000_000)),
			Duration(-1500 * time.Millisecond),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustDecode(t, tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("decodeValue() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestDecodeTemporalRanges(t *testing.T) {
	tests := []struct {
		name   string
		in     protocol.Value
		reason string
	}{
		{
			"date too far ahead",
			protocol.MakeStruct(protocol.SigDate, wireInts(maxEpochDays+1)),
			"date out of range",
		},
		{
			"date too far back",
			protocol.MakeStruct(protocol.SigDate, wireInts(-maxEpochDays-1)),
			"date out of range",
		},
		{
			"negative time of day",
			protocol.MakeStruct(protocol.SigLocalTime, wireInts(-1)),
			"time of day out of range",
		},
		{
			"time of day too large",
			protocol.MakeStruct(protocol.SigLocalTime, wireInts(nanosPerDay)),
			"time of day out of range",
		},
		{
			"nanosecond component",
			protocol.MakeStruct(protocol.SigLocalDateTime, wireInts(0, 1_000_000_000)),
			"nanosecond component out of range",
		},
		{
			"datetime too far ahead",
			protocol.MakeStruct(protocol.SigLocalDateTime, wireInts((maxEpochDays+1)*86400, 0)),
			"datetime out of range",
		},
		{
			"timezone offset",
			protocol.MakeStruct(protocol.SigDateTimeOffset, wireInts(0, 0, math.MaxInt32+1)),
			"timezone offset out of range",
		},
		{
			"duration months",
			protocol.MakeStruct(protocol.SigDuration, wireInts(1, 0, 0, 0)),
			"month component",
		},
		{
			"duration overflow",
			protocol.MakeStruct(protocol.SigDuration, wireInts(0, 200_000, 0, 0)),
			"duration out of range",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeValue(tt.in)
			var encErr *EncodingError
			if !errors.As(err, &encErr) {
				t.Fatalf("decodeValue() error = %v (%T), want *EncodingError", err, err)
			}
			if encErr.Reason != tt.reason {
				t.Errorf("reason = %q, want %q", encErr.Reason, tt.reason)
			}
		})
	}
}

func TestDecodePoints(t *testing.T) {
	got := mustDecode(t, protocol.MakeStruct(protocol.SigPoint2D, []protocol.Value{
		protocol.MakeInt(4326), protocol.MakeFloat(15.9), protocol.MakeFloat(45.8),
	}))
	if got != (Point2D{SRID: 4326, X: 15.9, Y: 45.8}) {
		t.Errorf("decodeValue() = %#v", got)
	}

	got = mustDecode(t, protocol.MakeStruct(protocol.SigPoint3D, []protocol.Value{
		protocol.MakeInt(4979), protocol.MakeFloat(1), protocol.MakeFloat(2), protocol.MakeFloat(3),
	}))
	if got != (Point3D{SRID: 4979, X: 1, Y: 2, Z: 3}) {
		t.Errorf("decodeValue() = %#v", got)
	}
}

func TestDecodeRow(t *testing.T) {
	row := &transport.Row{Values: []protocol.Value{
		protocol.MakeInt(1),
		wireNode(2, []string{"Person"}, nil),
	}}
	rec, err := decodeRow(row)
	if err != nil {
		t.Fatalf("decodeRow() error = %v", err)
	}
	if len(rec.Values) != 2 {
		t.Fatalf("value count = %d, want 2", len(rec.Values))
	}
	if rec.Values[0] != Int(1) {
		t.Errorf("first value = %#v", rec.Values[0])
	}
	if node, ok := rec.Values[1].(Node); !ok || node.ID != 2 {
		t.Errorf("second value = %#v, want a node", rec.Values[1])
	}
}

func TestDecodeSummaryMap(t *testing.T) {
	got, err := decodeSummary(nil)
	if err != nil || got != nil {
		t.Errorf("decodeSummary(nil) = (%v, %v), want (nil, nil)", got, err)
	}

	summary, err := decodeSummary(map[string]protocol.Value{
		"type":     protocol.MakeString("r"),
		"has_more": protocol.MakeBool(false),
	})
	if err != nil {
		t.Fatalf("decodeSummary() error = %v", err)
	}
	if summary["type"] != String("r") || summary["has_more"] != Bool(false) {
		t.Errorf("summary = %#v", summary)
	}

	_, err = decodeSummary(map[string]protocol.Value{
		"bad": protocol.MakeStruct(protocol.SigDate, wireInts(maxEpochDays + 1)),
	})
	var encErr *EncodingError
	if !errors.As(err, &encErr) {
		t.Errorf("decodeSummary() error = %v, want *EncodingError", err)
	}
}
