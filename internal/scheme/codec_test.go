package scheme

import (
	"encoding/binary"
	"errors"
	"image/color"
	"testing"
)

func sampleSchemes() []Scheme {
	custom := Scheme{
		Version:            Version,
		Name:               "reading – wide",
		HLineEnabled:       false,
		HLineWidth:         7,
		HLineColor:         color.NRGBA{R: 1, G: 2, B: 3, A: 4},
		VLineEnabled:       true,
		VLineWidth:         0,
		VLineColor:         color.NRGBA{R: 250, G: 251, B: 252, A: 253},
		InvertedBackground: color.NRGBA{R: 9, G: 8, B: 7, A: 6},
	}
	negative := Default().WithName("neg")
	negative.HLineWidth = -3
	negative.Version = 2000
	return []Scheme{Default(), Normal(), custom, negative}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for _, want := range sampleSchemes() {
		got, err := Decode(Encode(want))
		if err != nil {
			t.Fatalf("decode %q: %v", want.Name, err)
		}
		if got != want {
			t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, want)
		}
	}
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	for _, s := range sampleSchemes() {
		data := Encode(s)
		for _, magic := range []uint32{0, 0x202308, 0x00232023, 0xffffffff} {
			binary.BigEndian.PutUint32(data[:4], magic)
			_, err := Decode(data)
			var fe *FormatError
			if !errors.As(err, &fe) || !errors.Is(err, ErrFormat) {
				t.Fatalf("magic %#x: want FormatError, got %v", magic, err)
			}
		}
	}
}

func TestDecodeTruncated(t *testing.T) {
	data := Encode(Default().WithName("short"))
	for _, n := range []int{0, 3, 4, 10, len(data) - 1} {
		if _, err := Decode(data[:n]); !errors.Is(err, ErrFormat) {
			t.Errorf("len %d: want ErrFormat, got %v", n, err)
		}
	}
}

func TestDecodeIgnoresTrailingBytes(t *testing.T) {
	want := Default().WithName("future")
	data := append(Encode(want), 0xde, 0xad, 0xbe, 0xef)
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != want {
		t.Errorf("got %+v want %+v", got, want)
	}
}

func TestDecodeHugeNameLength(t *testing.T) {
	data := Encode(Default())
	binary.BigEndian.PutUint32(data[8:12], 0xfffffff0)
	if _, err := Decode(data); !errors.Is(err, ErrFormat) {
		t.Fatalf("want ErrFormat, got %v", err)
	}
}

func TestBinaryMarshaler(t *testing.T) {
	want := Normal().WithName("bin")
	data, err := want.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	var got Scheme
	if err := got.UnmarshalBinary(data); err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("got %+v want %+v", got, want)
	}
}

func TestShareString(t *testing.T) {
	want := Default().WithName("shared")
	got, err := ParseShareString(ShareString(want))
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("got %+v want %+v", got, want)
	}

	for _, bad := range []string{"", "hello", SharePrefix + "***", SharePrefix + "AAAA"} {
		if _, err := ParseShareString(bad); !errors.Is(err, ErrFormat) {
			t.Errorf("%q: want ErrFormat, got %v", bad, err)
		}
	}
}
