package graph

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// EncodeNetDef writes a net definition as YAML.
func EncodeNetDef(w io.Writer, net *NetDef) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(net); err != nil {
		return fmt.Errorf("graph: encoding net %q: %w", net.Name, err)
	}
	return enc.Close()
}

// DecodeNetDef reads a YAML net definition.
func DecodeNetDef(r io.Reader) (*NetDef, error) {
	var net NetDef
	if err := yaml.NewDecoder(r).Decode(&net); err != nil {
		return nil, fmt.Errorf("graph: decoding net: %w", err)
	}
	if net.Name == "" {
		return nil, fmt.Errorf("graph: decoded net has no name")
	}
	return &net, nil
}

// SaveNetDef writes a net definition to a YAML file.
func SaveNetDef(path string, net *NetDef) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("graph: saving net %q: %w", net.Name, err)
	}

	if err := EncodeNetDef(f, net); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("graph: saving net %q: %w", net.Name, err)
	}
	return nil
}

// LoadNetDef reads a net definition from a YAML file.
func LoadNetDef(path string) (*NetDef, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("graph: loading net: %w", err)
	}
	defer f.Close()

	return DecodeNetDef(f)
}
