// watch.go - the memory-watch engine (spec C8): typed, read-only,
// pure-function readouts of memory. Grounded in spirit on the teacher's
// MonitorState hex-dump rendering (_teacher_debug_monitor.go.ref), but the
// teacher never modeled a typed watch - this is new, built from spec.md
// §4.8's rendering rules directly.
//
// (c) 2024 - 2026 Zayn Otley
// https://github.com/IntuitionAmiga/IntuitionEngine
// License: GPLv3 or later

package debugger

import (
	"fmt"
	"strconv"
	"strings"
)

// NumberBase selects the textual base an Integer watch renders in.
type NumberBase int

const (
	Dec NumberBase = iota
	Hex
	Oct
	Bin
)

// ByteOrder selects how an Integer watch's bytes are assembled into a
// value before formatting.
type ByteOrder int

const (
	LE ByteOrder = iota
	BE
)

// StringEncoding selects how a String watch transcodes its bytes.
type StringEncoding int

const (
	Spectrum StringEncoding = iota
	Ascii
)

// Watch is the MemoryWatch sum type of spec.md §3: exactly one of Integer
// or String fields is meaningful, selected by Kind.
type Watch struct {
	kind watchKind

	// Integer fields.
	address   uint16
	width     int
	base      NumberBase
	byteOrder ByteOrder

	// String fields.
	lengthBytes int
	encoding    StringEncoding
}

type watchKind int

const (
	watchInteger watchKind = iota
	watchString
)

// NewIntegerWatch constructs an Integer watch. It returns
// ErrInvalidAddress when address+width exceeds the 64KiB address space
// (spec.md §3 invariant); the width value itself is not checked against
// the 1, 2, 4, 8, 16 byte sizes.
func NewIntegerWatch(address uint16, width int, base NumberBase, order ByteOrder) (Watch, error) {
	if int(address)+width > 0x10000 {
		return Watch{}, ErrInvalidAddress
	}
	return Watch{kind: watchInteger, address: address, width: width, base: base, byteOrder: order}, nil
}

// NewStringWatch validates and constructs a String watch.
func NewStringWatch(address uint16, lengthBytes int, encoding StringEncoding) (Watch, error) {
	if int(address)+lengthBytes > 0x10000 {
		return Watch{}, ErrInvalidAddress
	}
	return Watch{kind: watchString, address: address, lengthBytes: lengthBytes, encoding: encoding}, nil
}

func (w Watch) Address() uint16 { return w.address }

// IsString reports whether this is a String watch (vs. Integer).
func (w Watch) IsString() bool { return w.kind == watchString }

// Render is a pure function of the watch's parameters and the bytes at
// [address, address+size) - it performs no state mutation and has no side
// effects beyond the memory read (spec.md §8 testable property).
func (w Watch) Render(mem MemoryReader) string {
	if w.kind == watchString {
		return renderString(mem, w.address, w.lengthBytes, w.encoding)
	}
	return renderInteger(mem, w.address, w.width, w.base, w.byteOrder)
}

func renderInteger(mem MemoryReader, addr uint16, width int, base NumberBase, order ByteOrder) string {
	buf := make([]byte, width)
	for i := 0; i < width; i++ {
		buf[i] = mem.ReadByte(addr + uint16(i))
	}
	if order == BE {
		for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
			buf[i], buf[j] = buf[j], buf[i]
		}
	}

	if width > 8 {
		// "bigint" fallback: hex-only, most significant byte first in the
		// (possibly already reversed) buffer's native Z80 little-endian
		// storage order, read high-to-low for display.
		var sb strings.Builder
		sb.WriteString("0x")
		for i := len(buf) - 1; i >= 0; i-- {
			fmt.Fprintf(&sb, "%02X", buf[i])
		}
		return sb.String()
	}

	var v uint64
	for i := len(buf) - 1; i >= 0; i-- {
		v = (v << 8) | uint64(buf[i])
	}

	switch base {
	case Hex:
		return fmt.Sprintf("0x%X", v)
	case Oct:
		return "0" + strconv.FormatUint(v, 8)
	case Bin:
		return "0b" + strconv.FormatUint(v, 2)
	default:
		return strconv.FormatUint(v, 10)
	}
}

func renderString(mem MemoryReader, addr uint16, length int, encoding StringEncoding) string {
	var sb strings.Builder
	for i := 0; i < length; i++ {
		b := mem.ReadByte(addr + uint16(i))
		if encoding == Ascii {
			sb.WriteString(transcodeASCII(b))
		} else {
			sb.WriteString(transcodeSpectrum(b))
		}
	}
	return sb.String()
}

func transcodeASCII(b byte) string {
	if b&0x80 == 0 {
		return string(rune(b))
	}
	return "�"
}

// spectrumBlockGraphics[n] is the Unicode block-graphic character for
// Spectrum code 128+n, transcribed byte-for-byte from the ROM mapping
// (_examples/original_source/src/spectrum/debugger/stringmemorywatch.cpp's
// appendSpectrumChar) rather than derived from a quadrant bit-pattern
// guess: the ROM's ordering of the 16 codes isn't the obvious
// TL/TR/BL/BR bit sequence.
var spectrumBlockGraphics = [16]rune{
	' ', // 128: empty
	'▝', // 129: U+259D quadrant upper-right
	'▘', // 130: U+2598 quadrant upper-left
	'▀', // 131: U+2580 upper half-block
	'▗', // 132: U+2597 quadrant lower-right
	'▐', // 133: U+2590 right half-block
	'▚', // 134: U+259A quadrant upper-left and lower-right
	'▜', // 135: U+259C quadrant upper-left, upper-right and lower-right
	'▖', // 136: U+2596 quadrant lower-left
	'▞', // 137: U+259E quadrant upper-right and lower-left
	'▌', // 138: U+258C left half-block
	'▛', // 139: U+259B quadrant upper-left, upper-right and lower-left
	'▄', // 140: U+2584 lower half-block
	'▟', // 141: U+259F quadrant upper-right, lower-right and lower-left
	'▙', // 142: U+2599 quadrant upper-left, lower-left and lower-right
	'█', // 143: U+2588 full block
}

func transcodeSpectrum(b byte) string {
	switch {
	case b == 12:
		return "⌫"
	case b == 13:
		return "⏎"
	case b >= 32 && b <= 95:
		return string(rune(b))
	case b == 96:
		return "£"
	case b >= 97 && b <= 126:
		return string(rune(b))
	case b == 127:
		return "©"
	case b >= 128 && b <= 143:
		return string(spectrumBlockGraphics[b-128])
	case b >= 165:
		return "[KEYWORD]"
	default:
		return "�"
	}
}
