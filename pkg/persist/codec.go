// Package persist stores small state files through a pluggable codec.
package persist

import (
	"encoding/json"
	"fmt"
	"io"
)

const jsonExtension = ".json"

// Codec serializes state.
type Codec interface {
	Encode(w io.Writer, state any) error
	Decode(r io.Reader, state any) error
	// Extension is the file suffix, e.g. ".json".
	Extension() string
}

// JSONCodec encodes state as JSON. An empty Indent writes compact JSON.
type JSONCodec struct {
	Indent string
}

// Encode implements Codec.
func (c JSONCodec) Encode(w io.Writer, state any) error {
	enc := json.NewEncoder(w)
	if c.Indent != "" {
		enc.SetIndent("", c.Indent)
	}

	err := enc.Encode(state)
	if err != nil {
		return fmt.Errorf("json encode: %w", err)
	}

	return nil
}

// Decode implements Codec.
func (c JSONCodec) Decode(r io.Reader, state any) error {
	err := json.NewDecoder(r).Decode(state)
	if err != nil {
		return fmt.Errorf("json decode: %w", err)
	}

	return nil
}

// Extension implements Codec.
func (JSONCodec) Extension() string { return jsonExtension }
