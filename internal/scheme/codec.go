package scheme

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"image/color"
	"strings"
)

// MagicNumber leads every encoded scheme.
const MagicNumber uint32 = 0x202309

// SharePrefix marks a scheme encoded for copy/paste or QR codes.
const SharePrefix = "anchorlines:"

// ErrFormat is matched by every *FormatError.
var ErrFormat = errors.New("invalid scheme format")

// FormatError reports a payload that is not an encoded scheme.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string { return "scheme: " + e.Reason }

func (e *FormatError) Is(target error) bool { return target == ErrFormat }

// Encode serializes s in the profile file layout. Fields are big-endian.
func Encode(s Scheme) []byte {
	var buf bytes.Buffer
	buf.Grow(40 + len(s.Name))
	w := func(v any) { _ = binary.Write(&buf, binary.BigEndian, v) }

	w(MagicNumber)
	w(int32(s.Version))
	w(uint32(len(s.Name)))
	buf.WriteString(s.Name)
	w(s.HLineEnabled)
	w(int32(s.HLineWidth))
	writeColor(&buf, s.HLineColor)
	w(s.VLineEnabled)
	w(int32(s.VLineWidth))
	writeColor(&buf, s.VLineColor)
	writeColor(&buf, s.InvertedBackground)
	return buf.Bytes()
}

func writeColor(buf *bytes.Buffer, c color.NRGBA) {
	buf.Write([]byte{c.R, c.G, c.B, c.A})
}

// Decode parses a payload produced by Encode. Only the magic number and the
// payload length are checked; version and widths are returned as found.
// Bytes after the last field are ignored.
func Decode(data []byte) (Scheme, error) {
	d := decoder{data: data}
	if magic := d.uint32(); d.err != nil || magic != MagicNumber {
		if d.err != nil {
			return Scheme{}, d.err
		}
		return Scheme{}, &FormatError{Reason: fmt.Sprintf("bad magic number %#x", magic)}
	}

	var s Scheme
	s.Version = int(d.int32())
	s.Name = d.string()
	s.HLineEnabled = d.bool()
	s.HLineWidth = int(d.int32())
	s.HLineColor = d.color()
	s.VLineEnabled = d.bool()
	s.VLineWidth = int(d.int32())
	s.VLineColor = d.color()
	s.InvertedBackground = d.color()
	if d.err != nil {
		return Scheme{}, d.err
	}
	return s, nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (s Scheme) MarshalBinary() ([]byte, error) { return Encode(s), nil }

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (s *Scheme) UnmarshalBinary(data []byte) error {
	decoded, err := Decode(data)
	if err != nil {
		return err
	}
	*s = decoded
	return nil
}

// ShareString encodes s as a single printable token.
func ShareString(s Scheme) string {
	return SharePrefix + base64.RawURLEncoding.EncodeToString(Encode(s))
}

// ParseShareString reverses ShareString.
func ParseShareString(token string) (Scheme, error) {
	token = strings.TrimSpace(token)
	if !strings.HasPrefix(token, SharePrefix) {
		return Scheme{}, &FormatError{Reason: "missing " + SharePrefix + " prefix"}
	}
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimPrefix(token, SharePrefix))
	if err != nil {
		return Scheme{}, &FormatError{Reason: "bad share encoding: " + err.Error()}
	}
	return Decode(raw)
}

// decoder reads sequential fields and remembers the first error.
type decoder struct {
	data []byte
	off  int
	err  error
}

func (d *decoder) next(n int) []byte {
	if d.err != nil {
		return nil
	}
	if n < 0 || len(d.data)-d.off < n {
		d.err = &FormatError{Reason: fmt.Sprintf("truncated at byte %d", d.off)}
		return nil
	}
	b := d.data[d.off : d.off+n]
	d.off += n
	return b
}

func (d *decoder) uint32() uint32 {
	b := d.next(4)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint32(b)
}

func (d *decoder) int32() int32 { return int32(d.uint32()) }

func (d *decoder) bool() bool {
	b := d.next(1)
	return b != nil && b[0] != 0
}

func (d *decoder) string() string {
	n := d.uint32()
	if d.err != nil {
		return ""
	}
	if uint64(n) > uint64(len(d.data)-d.off) {
		d.err = &FormatError{Reason: fmt.Sprintf("name length %d exceeds payload", n)}
		return ""
	}
	return string(d.next(int(n)))
}

func (d *decoder) color() color.NRGBA {
	b := d.next(4)
	if b == nil {
		return color.NRGBA{}
	}
	return color.NRGBA{R: b[0], G: b[1], B: b[2], A: b[3]}
}
