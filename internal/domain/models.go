package domain

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DocumentKind is the conversion family of an input file
type DocumentKind string

const (
	KindPDF     DocumentKind = "pdf"
	KindText    DocumentKind = "text"
	KindImage   DocumentKind = "image"
	KindUnknown DocumentKind = "unknown"
)

// extensionKinds maps lower-cased extensions to their document kind
var extensionKinds = map[string]DocumentKind{
	".pdf":  KindPDF,
	".txt":  KindText,
	".bmp":  KindImage,
	".png":  KindImage,
	".jpg":  KindImage,
	".jpeg": KindImage,
}

// KindForExtension classifies an extension (with or without the leading dot),
// ignoring case.
func KindForExtension(ext string) DocumentKind {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	if kind, ok := extensionKinds[ext]; ok {
		return kind
	}
	return KindUnknown
}

// SupportedExtensions returns the recognised extensions in a stable order
func SupportedExtensions() []string {
	return []string{".pdf", ".txt", ".bmp", ".png", ".jpg", ".jpeg"}
}

// SourceDocument represents the input file of one print job
type SourceDocument struct {
	Path string
	Ext  string // lower-cased, including the dot
	Kind DocumentKind
}

// NewSourceDocument validates that path names a readable regular file and
// classifies it by extension. Unknown extensions are not rejected here.
func NewSourceDocument(path string) (SourceDocument, error) {
	if strings.TrimSpace(path) == "" {
		return SourceDocument{}, ValidationError("file path cannot be empty", nil)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return SourceDocument{}, ValidationError(fmt.Sprintf("file not found: %s", path), err)
		}
		return SourceDocument{}, ValidationError(fmt.Sprintf("cannot access file: %s", path), err)
	}
	if info.IsDir() {
		return SourceDocument{}, ValidationError(fmt.Sprintf("path is a directory, not a file: %s", path), nil)
	}

	ext := strings.ToLower(filepath.Ext(path))
	return SourceDocument{
		Path: path,
		Ext:  ext,
		Kind: KindForExtension(ext),
	}, nil
}

// Default printer identity and geometry
const (
	DefaultVendorID    uint16 = 0x20d1
	DefaultProductID   uint16 = 0x7008
	DefaultInterface          = 0
	DefaultInEndpoint  uint8  = 0x81
	DefaultOutEndpoint uint8  = 0x02
	DefaultPrintWidth         = 576
)

// PrinterTarget identifies the destination device of a job
type PrinterTarget struct {
	VendorID    uint16
	ProductID   uint16
	Interface   int
	InEndpoint  uint8
	OutEndpoint uint8
	Width       int // addressable width in pixels
}

// DefaultPrinterTarget returns the target for the stock receipt printer
func DefaultPrinterTarget() PrinterTarget {
	return PrinterTarget{
		VendorID:    DefaultVendorID,
		ProductID:   DefaultProductID,
		Interface:   DefaultInterface,
		InEndpoint:  DefaultInEndpoint,
		OutEndpoint: DefaultOutEndpoint,
		Width:       DefaultPrintWidth,
	}
}

func (t PrinterTarget) String() string {
	return fmt.Sprintf("%04x:%04x", t.VendorID, t.ProductID)
}

// JobState is a stage of the print job state machine
type JobState string

const (
	StateDispatching JobState = "dispatching"
	StateConverting  JobState = "converting"
	StatePrinting    JobState = "printing"
	StateDone        JobState = "done"
	StateFailed      JobState = "failed"
	StateCancelled   JobState = "cancelled"
)

// IsTerminal reports whether no further transition is possible
func (s JobState) IsTerminal() bool {
	return s == StateDone || s == StateFailed || s == StateCancelled
}

// CanTransition reports whether moving from s to next is legal. Transitions
// only move forward; Failed and Cancelled are reachable from any active state.
func (s JobState) CanTransition(next JobState) bool {
	switch s {
	case "":
		return next == StateDispatching
	case StateDispatching:
		return next == StateConverting || next == StateFailed || next == StateCancelled
	case StateConverting:
		return next == StatePrinting || next == StateFailed || next == StateCancelled
	case StatePrinting:
		return next == StateDone || next == StateFailed || next == StateCancelled
	default:
		return false
	}
}

// PrintJob is the transient association of one document with one printer
type PrintJob struct {
	ID         string
	Document   SourceDocument
	Target     PrinterTarget
	State      JobState
	History    []JobState
	Err        error
	StartedAt  time.Time
	FinishedAt time.Time
}

// EventType represents the type of stream event
type EventType string

const (
	EventStart       EventType = "start"
	EventStateChange EventType = "state_change"
	EventProgress    EventType = "progress"
	EventError       EventType = "error"
	EventComplete    EventType = "complete"
)

// Progress is the payload of EventProgress
type Progress struct {
	Done  int
	Total int
}

// StreamEvent represents an event emitted while a job runs
type StreamEvent struct {
	Type      EventType   `json:"type"`
	JobID     string      `json:"job_id"`
	State     JobState    `json:"state,omitempty"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}
