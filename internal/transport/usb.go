package transport

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/gousb"

	"github.com/spherical/thermal-print/internal/domain"
	"github.com/spherical/thermal-print/internal/escpos"
	"github.com/spherical/thermal-print/internal/observability"
)

// ErrDeviceNotFound is returned when no device matches the vendor/product pair.
var ErrDeviceNotFound = errors.New("no USB device with matching vendor and product ID")

// USBOpener claims receipt printers over libusb.
type USBOpener struct {
	feedLines int
	logger    *observability.Logger
}

// NewUSBOpener creates an opener whose printers feed feedLines before cutting.
func NewUSBOpener(feedLines int, logger *observability.Logger) *USBOpener {
	if logger == nil {
		logger = observability.Nop()
	}
	return &USBOpener{feedLines: feedLines, logger: logger.WithOperation("usb")}
}

// Open implements DeviceOpener. Kernel drivers bound to the interface are
// detached for the lifetime of the device.
func (o *USBOpener) Open(ctx context.Context, target domain.PrinterTarget) (Device, error) {
	conn := &usbConn{ctx: ctx, usb: gousb.NewContext()}

	dev, err := conn.usb.OpenDeviceWithVIDPID(gousb.ID(target.VendorID), gousb.ID(target.ProductID))
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open %s: %w", target, err)
	}
	if dev == nil {
		conn.Close()
		return nil, fmt.Errorf("%s: %w", target, ErrDeviceNotFound)
	}
	conn.dev = dev

	if err := dev.SetAutoDetach(true); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable kernel driver auto-detach: %w", err)
	}

	cfg, err := dev.Config(1)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("select configuration 1: %w", err)
	}
	conn.cfg = cfg

	intf, err := cfg.Interface(target.Interface, 0)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("claim interface %d: %w", target.Interface, err)
	}
	conn.intf = intf

	logger := o.logger.With().
		Str("printer", target.String()).
		Int("interface", target.Interface).
		Logger()

	if _, ok := intf.Setting.Endpoints[gousb.EndpointAddress(target.InEndpoint)]; !ok {
		logger.Debug().
			Int("in_endpoint", int(target.InEndpoint)).
			Msg("Printer has no status endpoint at the configured address")
	}

	ep, err := intf.OutEndpoint(int(target.OutEndpoint & 0x0f))
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open OUT endpoint 0x%02x: %w", target.OutEndpoint, err)
	}
	conn.out = ep

	logger.Debug().
		Str("endpoint", ep.String()).
		Msg("Claimed printer")

	return escpos.NewPrinter(conn, o.feedLines), nil
}

// usbConn is the bulk OUT endpoint together with everything that has to be
// released after it, in reverse order of acquisition.
type usbConn struct {
	ctx  context.Context
	usb  *gousb.Context
	dev  *gousb.Device
	cfg  *gousb.Config
	intf *gousb.Interface
	out  *gousb.OutEndpoint
}

func (c *usbConn) Write(p []byte) (int, error) {
	return c.out.WriteContext(c.ctx, p)
}

func (c *usbConn) Close() error {
	var errs []error
	if c.intf != nil {
		c.intf.Close()
	}
	if c.cfg != nil {
		errs = append(errs, c.cfg.Close())
	}
	if c.dev != nil {
		errs = append(errs, c.dev.Close())
	}
	errs = append(errs, c.usb.Close())
	return errors.Join(errs...)
}
