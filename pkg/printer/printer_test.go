package printer

import (
	"bytes"
	"context"
	"errors"
	"net"
	"strings"
	"testing"
)

func TestDocumentLayout(t *testing.T) {
	doc := NewDocument(Width58mm)
	doc.KeyValue("Bill:", "B-001").
		ItemLine("Rice 5kg", "2 x 450.00", "900.00").
		ItemLine("Imported basmati rice family pack", "1 x 2100.00", "2100.00")

	out := string(doc.Bytes())
	if !strings.HasPrefix(out, "\x1b@") {
		t.Fatalf("document must start with the init command")
	}
	for _, line := range strings.Split(strings.TrimPrefix(out, "\x1b@"), "\n") {
		if len(line) > Width58mm {
			t.Errorf("line wider than paper: %q", line)
		}
	}
	if !strings.Contains(out, "Bill:"+strings.Repeat(" ", 32-5-5)+"B-001\n") {
		t.Errorf("key/value not right-aligned: %q", out)
	}
	if !strings.Contains(out, "Imported basmati rice family\npack\n") {
		t.Errorf("long description not wrapped: %q", out)
	}
}

func TestWrapLongWord(t *testing.T) {
	lines := wrap("abcdefghij klm", 4)
	want := []string{"abcd", "efgh", "ij", "klm"}
	if strings.Join(lines, "|") != strings.Join(want, "|") {
		t.Fatalf("wrap = %v, want %v", lines, want)
	}
}

func TestNewPrinterFromConfig(t *testing.T) {
	tests := []struct {
		typ, path, addr string
		wantErr         bool
		name            string
	}{
		{"none", "", "", false, "none"},
		{"", "", "", false, "none"},
		{"usb", "/dev/usb/lp0", "", false, "usb:/dev/usb/lp0"},
		{"usb", "", "", true, ""},
		{"network", "", "10.0.0.5:9100", false, "network:10.0.0.5:9100"},
		{"network", "", "", true, ""},
		{"bluetooth", "", "", true, ""},
	}
	for _, tt := range tests {
		p, err := NewPrinterFromConfig(tt.typ, tt.path, tt.addr)
		if (err != nil) != tt.wantErr {
			t.Errorf("NewPrinterFromConfig(%q) err = %v", tt.typ, err)
			continue
		}
		if err == nil && p.Name() != tt.name {
			t.Errorf("Name() = %q, want %q", p.Name(), tt.name)
		}
	}
}

func TestNullPrinter(t *testing.T) {
	if err := NewNullPrinter().Print(context.Background(), []byte("x")); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestNetworkPrinter(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	got := make(chan []byte, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(conn)
		got <- buf.Bytes()
	}()

	p := NewNetworkPrinter(ln.Addr().String())
	if err := p.Print(context.Background(), []byte("receipt")); err != nil {
		t.Fatalf("Print: %v", err)
	}
	if b := <-got; string(b) != "receipt" {
		t.Fatalf("printer received %q", b)
	}
}
