package atlas

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/piwi3910/AtlasPack/internal/model"
)

var byteOrder = binary.LittleEndian

// Encode writes the atlas to w. The atlas is validated first, so nothing is
// written when it exceeds the format limits.
func Encode(w io.Writer, a *Atlas) error {
	if err := a.Validate(); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	e := encoder{w: bw}
	e.u8(Version)
	e.u8(uint8(len(a.Pages)))
	for _, p := range a.Pages {
		e.str(p.ImageName)
		e.u16(uint16(len(p.Regions)))
		for _, r := range p.Regions {
			e.str(r.Name)
			e.u16(uint16(r.Rect.X))
			e.u16(uint16(r.Rect.Y))
			e.u16(uint16(r.Rect.Width))
			e.u16(uint16(r.Rect.Height))
		}
	}
	if e.err != nil {
		return fmt.Errorf("failed to write atlas: %w", e.err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write atlas: %w", err)
	}
	return nil
}

// Marshal returns the encoded atlas.
func Marshal(a *Atlas) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, a); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode reads an atlas from r, which must end with the last page. Any error
// yields a nil atlas.
func Decode(r io.Reader) (*Atlas, error) {
	d := decoder{r: bufio.NewReader(r)}

	version := d.u8()
	if d.err == nil && version != Version {
		return nil, &VersionError{Version: version}
	}

	count := int(d.u8())
	a := &Atlas{Pages: make([]Page, 0, count)}
	for i := 0; i < count && d.err == nil; i++ {
		p := Page{ImageName: d.str()}
		n := int(d.u16())
		for j := 0; j < n && d.err == nil; j++ {
			reg := Region{Name: d.str()}
			reg.Rect = model.Rect{
				X:      int(d.u16()),
				Y:      int(d.u16()),
				Width:  int(d.u16()),
				Height: int(d.u16()),
			}
			p.Regions = append(p.Regions, reg)
		}
		a.Pages = append(a.Pages, p)
	}

	if d.err != nil {
		if errors.Is(d.err, io.EOF) {
			d.err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("%w: %w", ErrFormat, d.err)
	}
	if n, _ := io.CopyN(io.Discard, d.r, 1); n > 0 {
		return nil, fmt.Errorf("%w: trailing data after last page", ErrFormat)
	}
	return a, nil
}

// Unmarshal decodes an atlas from data.
func Unmarshal(data []byte) (*Atlas, error) {
	return Decode(bytes.NewReader(data))
}

// encoder writes fixed-width fields and remembers the first error.
type encoder struct {
	w   io.Writer
	err error
	buf [4]byte
}

func (e *encoder) write(b []byte) {
	if e.err != nil {
		return
	}
	_, e.err = e.w.Write(b)
}

func (e *encoder) u8(v uint8) {
	e.buf[0] = v
	e.write(e.buf[:1])
}

func (e *encoder) u16(v uint16) {
	byteOrder.PutUint16(e.buf[:2], v)
	e.write(e.buf[:2])
}

func (e *encoder) u32(v uint32) {
	byteOrder.PutUint32(e.buf[:4], v)
	e.write(e.buf[:4])
}

func (e *encoder) str(s string) {
	e.u32(uint32(len(s)))
	e.write([]byte(s))
}

// decoder reads fixed-width fields and remembers the first error.
type decoder struct {
	r   io.Reader
	err error
	buf [4]byte
}

func (d *decoder) read(n int) []byte {
	if d.err != nil {
		return d.buf[:n]
	}
	_, d.err = io.ReadFull(d.r, d.buf[:n])
	return d.buf[:n]
}

func (d *decoder) u8() uint8 {
	b := d.read(1)
	if d.err != nil {
		return 0
	}
	return b[0]
}

func (d *decoder) u16() uint16 {
	b := d.read(2)
	if d.err != nil {
		return 0
	}
	return byteOrder.Uint16(b)
}

func (d *decoder) u32() uint32 {
	b := d.read(4)
	if d.err != nil {
		return 0
	}
	return byteOrder.Uint32(b)
}

// str reads a length-prefixed string. The body is copied incrementally so a
// corrupt length cannot force a huge allocation before hitting end of input.
func (d *decoder) str() string {
	n := d.u32()
	if d.err != nil || n == 0 {
		return ""
	}
	var sb bytes.Buffer
	copied, err := io.CopyN(&sb, d.r, int64(n))
	if err != nil {
		d.err = fmt.Errorf("string of %d bytes truncated after %d: %w", n, copied, err)
		return ""
	}
	return sb.String()
}
