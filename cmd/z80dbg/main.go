// main.go - z80dbg: a line-mode machine monitor over the z80core driver.
// Command parsing is grounded on the teacher's ParseCommand/ParseAddress/
// ExecuteCommand dispatch in debug_commands.go.ref (name + args split on
// whitespace, $/0x/bare-hex address literals, a flat switch to per-command
// handlers); the raw single-key "go" mode is grounded on terminal_host.go's
// term.MakeRaw/term.Restore pairing.
//
// (c) 2024 - 2026 Zayn Otley
// https://github.com/IntuitionAmiga/IntuitionEngine
// License: GPLv3 or later

package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/intuitionamiga/z80core/internal/debugger"
	"github.com/intuitionamiga/z80core/internal/disasm"
	"github.com/intuitionamiga/z80core/internal/driver"
)

func main() {
	d := driver.New()

	if len(os.Args) > 1 {
		if err := loadProgram(d, os.Args[1]); err != nil {
			fmt.Fprintf(os.Stderr, "z80dbg: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Println("z80dbg - type ? for help, x to exit")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		if execute(d, scanner.Text()) {
			return
		}
	}
}

func loadProgram(d *driver.Driver, filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	d.Mem.WriteBytes(0, data)
	d.CPU.Regs.PC = 0
	return nil
}

// command is a parsed input line: a name plus its whitespace-split args.
type command struct {
	name string
	args []string
}

func parseCommand(input string) command {
	fields := strings.Fields(strings.TrimSpace(input))
	if len(fields) == 0 {
		return command{}
	}
	return command{name: strings.ToLower(fields[0]), args: fields[1:]}
}

// parseAddress accepts $hex, 0xhex, #decimal, or bare hex - the same
// literal forms the teacher's monitor accepts.
func parseAddress(s string) (uint16, bool) {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "#"):
		v, err := strconv.ParseUint(s[1:], 10, 16)
		return uint16(v), err == nil
	case strings.HasPrefix(s, "$"):
		v, err := strconv.ParseUint(s[1:], 16, 16)
		return uint16(v), err == nil
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		v, err := strconv.ParseUint(s[2:], 16, 16)
		return uint16(v), err == nil
	default:
		v, err := strconv.ParseUint(s, 16, 16)
		return uint16(v), err == nil
	}
}

// execute dispatches one parsed command line. Returns true if the monitor
// should exit.
func execute(d *driver.Driver, input string) bool {
	cmd := parseCommand(input)
	switch cmd.name {
	case "":
		return false
	case "x", "quit", "q":
		return true
	case "?", "help":
		printHelp()
	case "r":
		printRegisters(d)
	case "s":
		d.Step()
		printRegisters(d)
	case "g":
		runUntilKey(d)
	case "d":
		disassemble(d, cmd.args)
	case "m":
		memoryDump(d, cmd.args)
	case "b":
		setBreakpoint(d, cmd.args)
	case "bl":
		listBreakpoints(d)
	case "w":
		setWatch(d, cmd.args)
	case "wl":
		listWatches(d)
	case "bt":
		backtrace(d, cmd.args)
	default:
		fmt.Printf("unknown command: %s (? for help)\n", cmd.name)
	}
	return false
}

func printHelp() {
	fmt.Println(`commands:
  r              show registers
  s              single-step
  g              step once per keypress, q to stop
  d [addr]       disassemble a few instructions
  m [addr]       dump 64 bytes of memory
  b pc $nnnn     set a PC breakpoint
  b sp $nnnn     set a stack-pointer-below breakpoint
  b mem $nnnn n  set a memory-changed breakpoint, width n bytes
  bl             list breakpoints
  w int $nnnn n  add an integer watch, width n bytes
  w str $nnnn n  add a Spectrum-encoded string watch, length n
  wl             list and render watches
  bt [n]         backtrace n candidate return addresses (default 8)
  x              exit`)
}

func printRegisters(d *driver.Driver) {
	r := &d.CPU.Regs
	fmt.Printf("PC=%04X SP=%04X AF=%04X BC=%04X DE=%04X HL=%04X IX=%04X IY=%04X IM=%d IFF1=%v T=%d\n",
		r.PC, r.SP, r.AF(), r.BC(), r.DE(), r.HL(), r.IX(), r.IY(), d.CPU.IM, d.CPU.IFF1, d.CPU.TStates)
}

func disassemble(d *driver.Driver, args []string) {
	addr := d.CPU.Regs.PC
	if len(args) > 0 {
		if a, ok := parseAddress(args[0]); ok {
			addr = a
		}
	}
	for i := 0; i < 10; i++ {
		m := disasm.Decode(d.Mem, addr)
		fmt.Printf("%04X  %s\n", addr, m.String())
		addr += uint16(m.SizeBytes)
	}
}

func memoryDump(d *driver.Driver, args []string) {
	addr := d.CPU.Regs.PC
	if len(args) > 0 {
		if a, ok := parseAddress(args[0]); ok {
			addr = a
		}
	}
	buf := make([]byte, 64)
	d.Mem.ReadBytes(addr, len(buf), buf)
	for row := 0; row < len(buf); row += 16 {
		fmt.Printf("%04X  ", addr+uint16(row))
		for col := 0; col < 16 && row+col < len(buf); col++ {
			fmt.Printf("%02X ", buf[row+col])
		}
		fmt.Println()
	}
}

func setBreakpoint(d *driver.Driver, args []string) {
	if len(args) < 2 {
		fmt.Println("usage: b pc|sp|mem <addr> [width]")
		return
	}
	addr, ok := parseAddress(args[1])
	if !ok {
		fmt.Println("bad address")
		return
	}
	var bp debugger.Breakpoint
	switch args[0] {
	case "pc":
		bp = debugger.Breakpoint{Kind: debugger.ProgramCounter, Address: addr}
	case "sp":
		bp = debugger.Breakpoint{Kind: debugger.StackPointerBelow, Address: addr}
	case "mem":
		width := 1
		if len(args) > 2 {
			if w, err := strconv.Atoi(args[2]); err == nil {
				width = w
			}
		}
		bp = debugger.Breakpoint{Kind: debugger.MemoryChanged, Address: addr, Width: width}
	default:
		fmt.Println("unknown breakpoint kind:", args[0])
		return
	}
	h := d.Debugger.Breakpoints.Add(bp)
	fmt.Printf("breakpoint #%d set\n", h)
}

func listBreakpoints(d *driver.Driver) {
	for _, bp := range d.Debugger.Breakpoints.List() {
		fmt.Printf("kind=%d addr=$%04X width=%d\n", bp.Kind, bp.Address, bp.Width)
	}
}

func setWatch(d *driver.Driver, args []string) {
	if len(args) < 3 {
		fmt.Println("usage: w int|str <addr> <width>")
		return
	}
	addr, ok := parseAddress(args[1])
	if !ok {
		fmt.Println("bad address")
		return
	}
	width, err := strconv.Atoi(args[2])
	if err != nil {
		fmt.Println("bad width")
		return
	}
	var h debugger.Handle
	switch args[0] {
	case "int":
		watch, err := debugger.NewIntegerWatch(addr, width, debugger.Hex, debugger.LE)
		if err != nil {
			fmt.Println(err)
			return
		}
		h = d.Debugger.Watches.Add(watch)
	case "str":
		watch, err := debugger.NewStringWatch(addr, width, debugger.Spectrum)
		if err != nil {
			fmt.Println(err)
			return
		}
		h = d.Debugger.Watches.Add(watch)
	default:
		fmt.Println("unknown watch kind:", args[0])
		return
	}
	fmt.Printf("watch #%d added\n", h)
}

func listWatches(d *driver.Driver) {
	for h, text := range d.Debugger.RenderWatches(d.Mem) {
		fmt.Printf("#%d: %s\n", h, text)
	}
}

func backtrace(d *driver.Driver, args []string) {
	depth := 8
	if len(args) > 0 {
		if n, err := strconv.Atoi(args[0]); err == nil {
			depth = n
		}
	}
	for _, addr := range d.Debugger.Backtrace(d.Mem, d.CPU.Regs.SP, depth) {
		fmt.Printf("$%04X\n", addr)
	}
}

// runUntilKey puts stdin in raw mode and single-steps the CPU on every
// keypress, stopping on 'q' or a stdin read error; a breakpoint hit does
// not end the loop. Grounded directly on
// terminal_host.go's term.MakeRaw/term.Restore pairing.
func runUntilKey(d *driver.Driver) {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Println("g: stdin is not a terminal, single-stepping once instead")
		d.Step()
		printRegisters(d)
		return
	}
	defer term.Restore(fd, oldState)

	fmt.Print("\r\n-- running; press any key to step, q to stop --\r\n")
	buf := make([]byte, 1)
	for {
		if _, err := os.Stdin.Read(buf); err != nil {
			return
		}
		if buf[0] == 'q' {
			return
		}
		d.Step()
		fmt.Printf("\r\nPC=%04X T=%d\r\n", d.CPU.Regs.PC, d.CPU.TStates)
	}
}
