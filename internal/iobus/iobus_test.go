// iobus_test.go
//
// (c) 2024 - 2026 Zayn Otley
// https://github.com/IntuitionAmiga/IntuitionEngine
// License: GPLv3 or later

package iobus

import "testing"

type fakeDevice struct {
	port  uint16
	value byte
	seen  []byte
}

func (d *fakeDevice) AcceptsRead(port uint16) bool  { return port == d.port }
func (d *fakeDevice) AcceptsWrite(port uint16) bool { return port == d.port }
func (d *fakeDevice) Read(port uint16) byte         { return d.value }
func (d *fakeDevice) Write(port uint16, value byte) { d.value = value; d.seen = append(d.seen, value) }

func TestReadPortReturnsOpenBusWhenUnaccepted(t *testing.T) {
	b := New()
	if got := b.ReadPort(0x1234); got != 0xFF {
		t.Fatalf("ReadPort on empty bus = 0x%02X, want 0xFF", got)
	}
}

func TestReadPortConsultsDevicesInOrder(t *testing.T) {
	b := New()
	first := &fakeDevice{port: 0x10, value: 0xAA}
	second := &fakeDevice{port: 0x10, value: 0xBB}
	b.Attach(first)
	b.Attach(second)

	if got := b.ReadPort(0x10); got != 0xAA {
		t.Fatalf("ReadPort = 0x%02X, want 0xAA (first attached wins)", got)
	}
}

func TestWritePortDispatchesToEveryAcceptingDevice(t *testing.T) {
	b := New()
	a := &fakeDevice{port: 0x20}
	c := &fakeDevice{port: 0x20}
	b.Attach(a)
	b.Attach(c)

	b.WritePort(0x20, 0x42)

	if a.value != 0x42 || c.value != 0x42 {
		t.Fatalf("both devices should observe the write: a=%02X c=%02X", a.value, c.value)
	}
}

func TestWriteToUnacceptedPortIsDiscarded(t *testing.T) {
	b := New()
	d := &fakeDevice{port: 0x30}
	b.Attach(d)

	b.WritePort(0x31, 0x99)

	if len(d.seen) != 0 {
		t.Fatalf("device should not have observed a write to a port it doesn't accept")
	}
}

func TestDetachRemovesDevice(t *testing.T) {
	b := New()
	d := &fakeDevice{port: 0x40, value: 0x11}
	b.Attach(d)
	b.Detach(d)

	if got := b.ReadPort(0x40); got != 0xFF {
		t.Fatalf("ReadPort after Detach = 0x%02X, want 0xFF", got)
	}
}
