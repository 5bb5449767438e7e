// Package idl extracts an interface descriptor from Anchor program source:
// it scans the entry file for instruction signatures, reconciles them with
// the curated account tables, and assembles the JSON IDL document.
package idl

import (
	"bytes"
	"encoding/json"

	"github.com/go-playground/validator/v10"
)

// Document is the root IDL artifact describing a program's callable
// instructions and persisted account layouts. It is built once per run,
// serialized once, and has no further lifecycle.
type Document struct {
	Version      string        `json:"version" validate:"required"`
	Name         string        `json:"name" validate:"required"`
	Instructions []Instruction `json:"instructions" validate:"dive"`
	Accounts     []AccountType `json:"accounts"`
	Metadata     Metadata      `json:"metadata"`
}

// Instruction describes one externally invocable entry point: the accounts
// it touches, in the order callers must supply them, and its arguments.
type Instruction struct {
	Name     string       `json:"name" validate:"required"`
	Accounts []AccountRef `json:"accounts"`
	Args     []Arg        `json:"args"`
}

// AccountRef is one account slot an instruction declares access to.
type AccountRef struct {
	Name     string `json:"name"`
	IsMut    bool   `json:"isMut"`
	IsSigner bool   `json:"isSigner"`
}

// Arg is a named instruction argument. Type is one of the IDL primitive
// tags (u8..u64, i8..i64, bool, string, publicKey) or an untranslated
// spelling passed through by MapType.
type Arg struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// AccountType describes the layout of a persisted on-chain record. Field
// order is part of the binary contract being documented and is never
// reordered.
type AccountType struct {
	Name string     `json:"name"`
	Type StructType `json:"type"`
}

// StructType is the field layout of an account type.
type StructType struct {
	Kind   string  `json:"kind"`
	Fields []Field `json:"fields"`
}

// Field is a single named, typed slot in a record layout.
type Field struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Metadata carries the deployed program address and a tag identifying the
// generator that produced the document.
type Metadata struct {
	Address string `json:"address" validate:"required"`
	Origin  string `json:"origin"`
}

var validate = validator.New()

// Validate checks the document for structural completeness before it is
// handed off for serialization.
func (d *Document) Validate() error {
	return validate.Struct(d)
}

// MarshalIndent renders the document as two-space indented JSON with a
// trailing newline. This is the on-disk IDL format; key order follows
// struct field order.
func (d *Document) MarshalIndent() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
