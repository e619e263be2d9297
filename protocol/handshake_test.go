package protocol

import (
	"bytes"
	"testing"
)

func TestEncodeHandshake(t *testing.T) {
	want := []byte{
		0x60, 0x60, 0xB0, 0x17,
		0x00, 0x00, 0x03, 0x04,
		0x00, 0x00, 0x01, 0x04,
		0x00, 0x00, 0x00, 0x04,
		0x00, 0x00, 0x00, 0x00,
	}
	got := EncodeHandshake()
	if !bytes.Equal(got, want) {
		t.Errorf("handshake = % X, want % X", got, want)
	}
}

func TestDecodeHandshakeResponse(t *testing.T) {
	tests := []struct {
		name    string
		resp    [4]byte
		want    Version
		wantErr bool
	}{
		{"bolt 4.3", [4]byte{0x00, 0x00, 0x03, 0x04}, Version{Major: 4, Minor: 3}, false},
		{"bolt 4.1", [4]byte{0x00, 0x00, 0x01, 0x04}, Version{Major: 4, Minor: 1}, false},
		{"bolt 4.0", [4]byte{0x00, 0x00, 0x00, 0x04}, Version{Major: 4, Minor: 0}, false},
		{"all rejected", [4]byte{0x00, 0x00, 0x00, 0x00}, Version{}, true},
		{"garbage high bytes", [4]byte{0xDE, 0xAD, 0x03, 0x04}, Version{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeHandshakeResponse(tt.resp)
			if tt.wantErr {
				if err == nil {
					t.Fatal("DecodeHandshakeResponse() expected an error")
				}
				cerr, ok := err.(*CodecError)
				if !ok || cerr.Code != ErrorCodeVersionRejected {
					t.Errorf("error = %v, want version rejection", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeHandshakeResponse() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("version = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVersionString(t *testing.T) {
	if got := (Version{Major: 4, Minor: 3}).String(); got != "4.3" {
		t.Errorf("String() = %q, want %q", got, "4.3")
	}
}
