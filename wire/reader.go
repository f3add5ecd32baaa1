package wire

import (
	"fmt"
	"io"

	"github.com/sysu-dev/sysu/model"
)

// Reader decodes a stream of model.StdoutData off an io.Reader, refilling
// an internal buffer as needed. It is not safe for concurrent use; each
// shell executor owns exactly one Reader over its subprocess's stdout.
type Reader struct {
	r   io.Reader
	buf []byte
}

// NewReader wraps r for decoding.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Next returns the next decoded unit of stdout data, blocking on reads from
// the underlying stream as needed. It returns io.EOF once the stream is
// closed with no partial frame left in the buffer; a stream that closes
// mid-frame is reported as an error, not io.EOF.
func (r *Reader) Next() (model.StdoutData, error) {
	for {
		status, data, consumed, err := Parse(r.buf)
		if status == Complete {
			r.buf = r.buf[consumed:]
			if err != nil {
				return nil, fmt.Errorf("wire: malformed frame: %w", err)
			}
			return data, nil
		}

		more, err := r.fill()
		if err != nil {
			return nil, err
		}
		if !more {
			if len(r.buf) == 0 {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("wire: unexpected EOF parsing stdout stream, buffer: %q", r.buf)
		}
	}
}

func (r *Reader) fill() (bool, error) {
	tmp := make([]byte, 4096)
	n, err := r.r.Read(tmp)
	if n > 0 {
		r.buf = append(r.buf, tmp[:n]...)
	}
	if err != nil {
		if err == io.EOF {
			return n > 0, nil
		}
		return false, fmt.Errorf("wire: reading stdout stream: %w", err)
	}
	return true, nil
}
