package protocol

import "fmt"

// handshakeMagic is the Bolt preamble every connection starts with.
var handshakeMagic = [4]byte{0x60, 0x60, 0xB0, 0x17}

// Version is a negotiated protocol version.
type Version struct {
	Major byte
	Minor byte
}

// String returns the dotted form, e.g. "4.3".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// proposedVersions lists the versions offered during the handshake, most
// preferred first. Memgraph negotiates within the 4.x line.
var proposedVersions = [4]Version{
	{Major: 4, Minor: 3},
	{Major: 4, Minor: 1},
	{Major: 4, Minor: 0},
	{},
}

// EncodeHandshake returns the 20-byte client handshake: magic preamble
// plus four version proposals.
func EncodeHandshake() []byte {
	out := make([]byte, 0, 20)
	out = append(out, handshakeMagic[:]...)
	for _, v := range proposedVersions {
		out = append(out, 0, 0, v.Minor, v.Major)
	}
	return out
}

// DecodeHandshakeResponse parses the server's 4-byte version selection.
// An all-zero response means every proposal was rejected.
func DecodeHandshakeResponse(resp [4]byte) (Version, error) {
	v := Version{Major: resp[3], Minor: resp[2]}
	if resp[0] != 0 || resp[1] != 0 || (v.Major == 0 && v.Minor == 0) {
		return Version{}, &CodecError{
			Code:    ErrorCodeVersionRejected,
			Message: "server rejected every proposed protocol version",
		}
	}
	return v, nil
}
