package domain

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestKindForExtension(t *testing.T) {
	tests := []struct {
		ext  string
		want DocumentKind
	}{
		{".pdf", KindPDF},
		{".PDF", KindPDF},
		{"pdf", KindPDF},
		{".txt", KindText},
		{".TxT", KindText},
		{".bmp", KindImage},
		{".png", KindImage},
		{".jpg", KindImage},
		{".JPEG", KindImage},
		{".gif", KindUnknown},
		{".docx", KindUnknown},
		{"", KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			if got := KindForExtension(tt.ext); got != tt.want {
				t.Errorf("KindForExtension(%q) = %s, want %s", tt.ext, got, tt.want)
			}
		})
	}
}

func TestNewSourceDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Receipt.PNG")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	doc, err := NewSourceDocument(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Ext != ".png" {
		t.Errorf("Expected ext .png, got %s", doc.Ext)
	}
	if doc.Kind != KindImage {
		t.Errorf("Expected kind image, got %s", doc.Kind)
	}

	if _, err := NewSourceDocument(filepath.Join(dir, "missing.txt")); !IsType(err, ErrorTypeValidation) {
		t.Errorf("Expected validation error for missing file, got %v", err)
	}
	if _, err := NewSourceDocument(dir); !IsType(err, ErrorTypeValidation) {
		t.Errorf("Expected validation error for directory, got %v", err)
	}
	if _, err := NewSourceDocument("  "); !IsType(err, ErrorTypeValidation) {
		t.Errorf("Expected validation error for empty path, got %v", err)
	}
}

func TestJobState_CanTransition(t *testing.T) {
	tests := []struct {
		from JobState
		to   JobState
		want bool
	}{
		{"", StateDispatching, true},
		{"", StateConverting, false},
		{StateDispatching, StateConverting, true},
		{StateDispatching, StatePrinting, false},
		{StateDispatching, StateFailed, true},
		{StateConverting, StatePrinting, true},
		{StateConverting, StateCancelled, true},
		{StateConverting, StateDispatching, false},
		{StatePrinting, StateDone, true},
		{StatePrinting, StateConverting, false},
		{StateDone, StateFailed, false},
		{StateFailed, StatePrinting, false},
		{StateCancelled, StateDone, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s->%s", tt.from, tt.to), func(t *testing.T) {
			if got := tt.from.CanTransition(tt.to); got != tt.want {
				t.Errorf("CanTransition = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrorClassification(t *testing.T) {
	err := fmt.Errorf("stage: %w", ConversionError("convert failed", nil))
	if TypeOf(err) != ErrorTypeConversion {
		t.Errorf("Expected conversion type, got %q", TypeOf(err))
	}
	if IsCancellation(err) {
		t.Error("conversion error must not be a cancellation")
	}
	if !IsCancellation(fmt.Errorf("wrapped: %w", context.Canceled)) {
		t.Error("context.Canceled should be a cancellation")
	}
	if TypeOf(nil) != "" {
		t.Error("nil error has no type")
	}

	unsupported := UnsupportedFormatError(".gif")
	if unsupported.Error() != "[unsupported_format] unsupported file format: .gif" {
		t.Errorf("unexpected message: %s", unsupported.Error())
	}
	if UnsupportedFormatError("").Message != "unsupported file format: (none)" {
		t.Error("empty extension should be reported as (none)")
	}
}
