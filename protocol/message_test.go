package protocol

import (
	"bytes"
	"testing"
)

func decodeMessage(t *testing.T, buf *bytes.Buffer) (byte, []Value) {
	t.Helper()
	sig, fields, err := DecodeMessage(buf.Bytes())
	if err != nil {
		t.Fatalf("DecodeMessage() error = %v", err)
	}
	return sig, fields
}

func TestEncodeHello(t *testing.T) {
	tests := []struct {
		name      string
		username  string
		password  string
		scheme    string
		wantCreds bool
	}{
		{"anonymous", "", "", "none", false},
		{"basic auth", "mislav", "secret", "basic", true},
		{"password only", "", "secret", "basic", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := EncodeHello(&buf, "TestAgent/1.0", tt.username, tt.password); err != nil {
				t.Fatalf("EncodeHello() error = %v", err)
			}
			sig, fields := decodeMessage(t, &buf)
			if sig != MsgHello {
				t.Fatalf("signature = 0x%02X, want 0x%02X", sig, MsgHello)
			}
			if len(fields) != 1 {
				t.Fatalf("field count = %d, want 1", len(fields))
			}
			extra := fields[0].Map()
			if got := extra["user_agent"].Str(); got != "TestAgent/1.0" {
				t.Errorf("user_agent = %q, want %q", got, "TestAgent/1.0")
			}
			if got := extra["scheme"].Str(); got != tt.scheme {
				t.Errorf("scheme = %q, want %q", got, tt.scheme)
			}
			_, hasPrincipal := extra["principal"]
			_, hasCredentials := extra["credentials"]
			if hasPrincipal != tt.wantCreds || hasCredentials != tt.wantCreds {
				t.Errorf("principal/credentials present = %v/%v, want %v",
					hasPrincipal, hasCredentials, tt.wantCreds)
			}
			if tt.wantCreds {
				if got := extra["principal"].Str(); got != tt.username {
					t.Errorf("principal = %q, want %q", got, tt.username)
				}
				if got := extra["credentials"].Str(); got != tt.password {
					t.Errorf("credentials = %q, want %q", got, tt.password)
				}
			}
		})
	}
}

func TestEncodeRun(t *testing.T) {
	var buf bytes.Buffer
	params := MakeMap(map[string]Value{"limit": MakeInt(10)})
	if err := EncodeRun(&buf, "MATCH (n) RETURN n LIMIT $limit", params); err != nil {
		t.Fatalf("EncodeRun() error = %v", err)
	}
	sig, fields := decodeMessage(t, &buf)
	if sig != MsgRun {
		t.Fatalf("signature = 0x%02X, want 0x%02X", sig, MsgRun)
	}
	if len(fields) != 3 {
		t.Fatalf("field count = %d, want 3", len(fields))
	}
	if got := fields[0].Str(); got != "MATCH (n) RETURN n LIMIT $limit" {
		t.Errorf("query = %q", got)
	}
	if got := fields[1].Map()["limit"].Int(); got != 10 {
		t.Errorf("limit param = %d, want 10", got)
	}
	if fields[2].Type() != TypeMap || len(fields[2].Map()) != 0 {
		t.Errorf("extra = %#v, want empty map", fields[2])
	}
}

func TestEncodeRunCoercesBadParams(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeRun(&buf, "RETURN 1", MakeInt(42)); err != nil {
		t.Fatalf("EncodeRun() error = %v", err)
	}
	_, fields := decodeMessage(t, &buf)
	if fields[1].Type() != TypeMap || len(fields[1].Map()) != 0 {
		t.Errorf("params = %#v, want empty map", fields[1])
	}
}

func TestEncodePull(t *testing.T) {
	tests := []struct {
		name string
		n    int64
	}{
		{"single", 1},
		{"batch", 1000},
		{"all", PullAll},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := EncodePull(&buf, tt.n); err != nil {
				t.Fatalf("EncodePull() error = %v", err)
			}
			sig, fields := decodeMessage(t, &buf)
			if sig != MsgPull {
				t.Fatalf("signature = 0x%02X, want 0x%02X", sig, MsgPull)
			}
			if got := fields[0].Map()["n"].Int(); got != tt.n {
				t.Errorf("n = %d, want %d", got, tt.n)
			}
		})
	}
}

func TestEncodeBareRequests(t *testing.T) {
	tests := []struct {
		name   string
		encode func(*bytes.Buffer) error
		sig    byte
	}{
		{"reset", EncodeReset, MsgReset},
		{"goodbye", EncodeGoodbye, MsgGoodbye},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := tt.encode(&buf); err != nil {
				t.Fatalf("encode error = %v", err)
			}
			sig, fields := decodeMessage(t, &buf)
			if sig != tt.sig {
				t.Errorf("signature = 0x%02X, want 0x%02X", sig, tt.sig)
			}
			if len(fields) != 0 {
				t.Errorf("field count = %d, want 0", len(fields))
			}
		})
	}
}

func TestDecodeMessageRejectsScalars(t *testing.T) {
	tests := []struct {
		name string
		body Value
	}{
		{"int", MakeInt(7)},
		{"string", MakeString("not a message")},
		{"map", MakeMap(map[string]Value{"k": MakeNull()})},
		{"list", MakeList([]Value{MakeInt(1)})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := EncodeValue(&buf, tt.body); err != nil {
				t.Fatalf("EncodeValue() error = %v", err)
			}
			_, _, err := DecodeMessage(buf.Bytes())
			cerr, ok := err.(*CodecError)
			if !ok {
				t.Fatalf("error = %v (%T), want *CodecError", err, err)
			}
			if cerr.Code != ErrorCodeBadMessage {
				t.Errorf("code = %d, want %d", cerr.Code, ErrorCodeBadMessage)
			}
		})
	}
}

func TestSuccessMetadata(t *testing.T) {
	meta := MakeMap(map[string]Value{"fields": MakeList([]Value{MakeString("n")})})
	got, err := SuccessMetadata([]Value{meta})
	if err != nil {
		t.Fatalf("SuccessMetadata() error = %v", err)
	}
	if len(got["fields"].List()) != 1 {
		t.Errorf("fields = %#v, want one column", got["fields"])
	}

	empty, err := SuccessMetadata(nil)
	if err != nil {
		t.Fatalf("SuccessMetadata(nil) error = %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("metadata of bare SUCCESS = %#v, want empty map", empty)
	}

	if _, err := SuccessMetadata([]Value{MakeInt(1)}); err == nil {
		t.Error("SuccessMetadata() with non-map field expected an error")
	}
}

func TestRecordValues(t *testing.T) {
	vals, err := RecordValues([]Value{MakeList([]Value{MakeInt(1), MakeString("a")})})
	if err != nil {
		t.Fatalf("RecordValues() error = %v", err)
	}
	if len(vals) != 2 {
		t.Errorf("value count = %d, want 2", len(vals))
	}

	if _, err := RecordValues([]Value{MakeInt(1)}); err == nil {
		t.Error("RecordValues() with non-list field expected an error")
	}
	if _, err := RecordValues(nil); err == nil {
		t.Error("RecordValues() with no fields expected an error")
	}
}

func TestFailureError(t *testing.T) {
	tests := []struct {
		name    string
		fields  []Value
		code    string
		message string
	}{
		{
			"full metadata",
			[]Value{MakeMap(map[string]Value{
				"code":    MakeString("Memgraph.ClientError.MemgraphError.MemgraphError"),
				"message": MakeString("Unbound variable: x"),
			})},
			"Memgraph.ClientError.MemgraphError.MemgraphError",
			"Unbound variable: x",
		},
		{"no metadata", nil, "", "server failure without metadata"},
		{"non-map metadata", []Value{MakeInt(1)}, "", "server failure without metadata"},
		{
			"message only",
			[]Value{MakeMap(map[string]Value{"message": MakeString("boom")})},
			"",
			"boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dbErr := FailureError(tt.fields)
			if dbErr.Code != tt.code {
				t.Errorf("code = %q, want %q", dbErr.Code, tt.code)
			}
			if dbErr.Message != tt.message {
				t.Errorf("message = %q, want %q", dbErr.Message, tt.message)
			}
		})
	}
}
