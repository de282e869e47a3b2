package config

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// USBID is a 16-bit USB identifier or endpoint address. It is written in
// YAML as a hex string ("0x20d1") but plain integers are accepted too.
type USBID uint16

// ParseUSBID parses a hex identifier with or without a 0x prefix.
func ParseUSBID(s string) (USBID, error) {
	s = strings.TrimSpace(s)
	digits := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if digits == "" {
		return 0, fmt.Errorf("empty USB id %q", s)
	}
	v, err := strconv.ParseUint(digits, 16, 16)
	if err != nil {
		return 0, fmt.Errorf("USB id %q must be hex (e.g. 0x20d1): %w", s, err)
	}
	return USBID(v), nil
}

func (id USBID) String() string {
	return fmt.Sprintf("0x%04x", uint16(id))
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (id *USBID) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: USB id must be a scalar", node.Line)
	}
	if node.Tag == "!!int" {
		v, err := strconv.ParseUint(node.Value, 0, 16)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		*id = USBID(v)
		return nil
	}
	parsed, err := ParseUSBID(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*id = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (id USBID) MarshalYAML() (interface{}, error) {
	return id.String(), nil
}
