package escpos

import (
	"fmt"
	"io"

	"github.com/spherical/thermal-print/internal/raster"
)

// Printer drives an ESC/POS printer over a byte stream such as a USB bulk
// endpoint.
type Printer struct {
	w         io.Writer
	feedLines int
	started   bool
}

// NewPrinter wraps w. feedLines is the paper advance before each cut.
func NewPrinter(w io.Writer, feedLines int) *Printer {
	return &Printer{w: w, feedLines: feedLines}
}

// Image prints b. The first call resets the printer.
func (p *Printer) Image(b *raster.Bitmap) error {
	if !p.started {
		if err := p.write(Init()); err != nil {
			return fmt.Errorf("initialize printer: %w", err)
		}
		p.started = true
	}

	data, err := Raster(b)
	if err != nil {
		return err
	}
	if err := p.write(data); err != nil {
		return fmt.Errorf("write raster: %w", err)
	}
	return nil
}

// Cut feeds the configured number of lines and cuts the paper.
func (p *Printer) Cut() error {
	seq := append(Feed(p.feedLines), Cut()...)
	if err := p.write(seq); err != nil {
		return fmt.Errorf("cut paper: %w", err)
	}
	return nil
}

// Close closes the underlying writer when it is an io.Closer.
func (p *Printer) Close() error {
	if c, ok := p.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (p *Printer) write(data []byte) error {
	n, err := p.w.Write(data)
	if err != nil {
		return err
	}
	if n != len(data) {
		return io.ErrShortWrite
	}
	return nil
}
