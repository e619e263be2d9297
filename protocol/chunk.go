package protocol

import (
	"bufio"
	"encoding/binary"
	"io"
)

// maxChunkPayload is the largest number of bytes one chunk can carry.
const maxChunkPayload = 0xFFFF

// ChunkWriter frames message bodies into length-prefixed chunks. Each
// message ends with a zero-length chunk marker.
type ChunkWriter struct {
	w io.Writer
}

// NewChunkWriter wraps w for chunked message output.
func NewChunkWriter(w io.Writer) *ChunkWriter {
	return &ChunkWriter{w: w}
}

// WriteMessage writes body as one or more chunks followed by the
// end-of-message marker.
func (cw *ChunkWriter) WriteMessage(body []byte) error {
	var header [2]byte
	for len(body) > 0 {
		n := len(body)
		if n > maxChunkPayload {
			n = maxChunkPayload
		}
		binary.BigEndian.PutUint16(header[:], uint16(n))
		if _, err := cw.w.Write(header[:]); err != nil {
			return err
		}
		if _, err := cw.w.Write(body[:n]); err != nil {
			return err
		}
		body = body[n:]
	}
	binary.BigEndian.PutUint16(header[:], 0)
	_, err := cw.w.Write(header[:])
	return err
}

// ChunkReader reassembles chunked message bodies from a stream.
type ChunkReader struct {
	r *bufio.Reader
}

// NewChunkReader wraps r for chunked message input.
func NewChunkReader(r io.Reader) *ChunkReader {
	return &ChunkReader{r: bufio.NewReader(r)}
}

// ReadMessage reads chunks up to the end-of-message marker and returns
// the reassembled body. Empty messages (a bare marker) yield an empty
// body.
func (cr *ChunkReader) ReadMessage() ([]byte, error) {
	var header [2]byte
	var body []byte
	for {
		if _, err := io.ReadFull(cr.r, header[:]); err != nil {
			return nil, err
		}
		n := binary.BigEndian.Uint16(header[:])
		if n == 0 {
			return body, nil
		}
		chunk := make([]byte, n)
		if _, err := io.ReadFull(cr.r, chunk); err != nil {
			return nil, err
		}
		body = append(body, chunk...)
	}
}
