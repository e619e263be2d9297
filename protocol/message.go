package protocol

import "bytes"

// Request signatures.
const (
	MsgHello   byte = 0x01
	MsgGoodbye byte = 0x02
	MsgReset   byte = 0x0F
	MsgRun     byte = 0x10
	MsgPull    byte = 0x3F
)

// Response signatures.
const (
	MsgSuccess byte = 0x70
	MsgRecord  byte = 0x71
	MsgIgnored byte = 0x7E
	MsgFailure byte = 0x7F
)

// PullAll is the PULL batch size meaning "everything remaining".
const PullAll int64 = -1

// EncodeHello appends a HELLO request carrying the client identity and,
// when a principal is set, basic-auth credentials.
func EncodeHello(buf *bytes.Buffer, userAgent, username, password string) error {
	extra := map[string]Value{
		"user_agent": MakeString(userAgent),
	}
	if username != "" || password != "" {
		extra["scheme"] = MakeString("basic")
		extra["principal"] = MakeString(username)
		extra["credentials"] = MakeString(password)
	} else {
		extra["scheme"] = MakeString("none")
	}
	return encodeRequest(buf, MsgHello, MakeMap(extra))
}

// EncodeRun appends a RUN request. params must be a Map value; the extra
// map stays empty because transactions are driven through query text.
func EncodeRun(buf *bytes.Buffer, query string, params Value) error {
	if params.Type() != TypeMap {
		params = MakeMap(map[string]Value{})
	}
	return encodeRequest(buf, MsgRun, MakeString(query), params, MakeMap(map[string]Value{}))
}

// EncodePull appends a PULL request for n records; PullAll drains the
// stream.
func EncodePull(buf *bytes.Buffer, n int64) error {
	extra := map[string]Value{"n": MakeInt(n)}
	return encodeRequest(buf, MsgPull, MakeMap(extra))
}

// EncodeReset appends a RESET request.
func EncodeReset(buf *bytes.Buffer) error {
	return encodeRequest(buf, MsgReset)
}

// EncodeGoodbye appends a GOODBYE request.
func EncodeGoodbye(buf *bytes.Buffer) error {
	return encodeRequest(buf, MsgGoodbye)
}

func encodeRequest(buf *bytes.Buffer, sig byte, fields ...Value) error {
	return encodeStruct(buf, sig, fields)
}

// DecodeMessage parses one dechunked message body into its signature and
// field values. Messages are always top-level structures; anything else
// means the stream is out of sync.
func DecodeMessage(body []byte) (byte, []Value, error) {
	v, err := DecodeValue(body)
	if err != nil {
		return 0, nil, err
	}
	switch v.Type() {
	case TypeNull, TypeBool, TypeInt, TypeFloat, TypeString, TypeList, TypeMap:
		return 0, nil, &CodecError{
			Code:    ErrorCodeBadMessage,
			Message: "message body is not a structure",
		}
	}
	return v.StructSignature(), v.Fields(), nil
}

// SuccessMetadata extracts the metadata map of a SUCCESS response. A
// SUCCESS without metadata yields an empty map.
func SuccessMetadata(fields []Value) (map[string]Value, error) {
	if len(fields) == 0 {
		return map[string]Value{}, nil
	}
	if fields[0].Type() != TypeMap {
		return nil, &CodecError{
			Code:    ErrorCodeBadMessage,
			Message: "SUCCESS metadata is not a map",
		}
	}
	return fields[0].Map(), nil
}

// RecordValues extracts the value list of a RECORD response.
func RecordValues(fields []Value) ([]Value, error) {
	if len(fields) == 0 || fields[0].Type() != TypeList {
		return nil, &CodecError{
			Code:    ErrorCodeBadMessage,
			Message: "RECORD payload is not a list",
		}
	}
	return fields[0].List(), nil
}

// FailureError converts a FAILURE payload into a DatabaseError.
func FailureError(fields []Value) *DatabaseError {
	dbErr := &DatabaseError{}
	if len(fields) == 0 || fields[0].Type() != TypeMap {
		dbErr.Message = "server failure without metadata"
		return dbErr
	}
	meta := fields[0].Map()
	if code, ok := meta["code"]; ok && code.Type() == TypeString {
		dbErr.Code = code.Str()
	}
	if msg, ok := meta["message"]; ok && msg.Type() == TypeString {
		dbErr.Message = msg.Str()
	}
	return dbErr
}
