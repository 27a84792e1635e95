// errors.go - the debugger's sentinel error set (spec.md §7).
//
// (c) 2024 - 2026 Zayn Otley
// https://github.com/IntuitionAmiga/IntuitionEngine
// License: GPLv3 or later

package debugger

import "errors"

// ErrInvalidAddress is returned by watch construction (NewIntegerWatch,
// NewStringWatch) when the requested address range runs past the 64KiB
// address space
// (spec.md §3 "address + size_bytes <= 0x10000", §7).
var ErrInvalidAddress = errors.New("debugger: address range exceeds 64KiB address space")
