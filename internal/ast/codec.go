package ast

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/text/unicode/norm"
)

// FileSchema is the current version of the AST interchange envelope.
// Increment when the encoded layout of File or any node changes.
const FileSchema uint16 = 1

// Format selects the interchange encoding.
type Format uint8

const (
	// FormatMsgpack is the compact binary encoding (.last files).
	FormatMsgpack Format = iota
	// FormatJSON is the human-editable encoding (.json files).
	FormatJSON
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	default:
		return "msgpack"
	}
}

// FormatForPath picks an encoding from a file extension.
func FormatForPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatMsgpack
}

// File is the envelope written by an upstream parser/type checker.
type File struct {
	Schema   uint16  `json:"schema" msgpack:"schema"`
	Producer string  `json:"producer,omitempty" msgpack:"producer,omitempty"`
	Module   *Module `json:"module" msgpack:"module"`
}

// ErrSchema reports an envelope written with an unsupported schema.
var ErrSchema = errors.New("ast: unsupported file schema")

// Encode writes f using format. A zero Schema is filled in.
func Encode(w io.Writer, f *File, format Format) error {
	if f == nil || f.Module == nil {
		return fmt.Errorf("ast: encode: missing module")
	}
	out := *f
	if out.Schema == 0 {
		out.Schema = FileSchema
	}
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(&out)
	default:
		return msgpack.NewEncoder(w).Encode(&out)
	}
}

// Decode reads an envelope, normalises identifiers to NFC and checks that
// node ids are valid and unique.
func Decode(r io.Reader, format Format) (*File, error) {
	var f File
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("ast: decode json: %w", err)
		}
	default:
		if err := msgpack.NewDecoder(r).Decode(&f); err != nil {
			return nil, fmt.Errorf("ast: decode msgpack: %w", err)
		}
	}
	if f.Schema != FileSchema {
		return nil, fmt.Errorf("%w: %d (expected %d)", ErrSchema, f.Schema, FileSchema)
	}
	if f.Module == nil {
		return nil, fmt.Errorf("ast: decode: file has no module")
	}
	normalizeNames(f.Module)
	if err := CheckIDs(f.Module); err != nil {
		return nil, err
	}
	return &f, nil
}

// ReadFile decodes the file at path, choosing the format by extension.
func ReadFile(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	f, err := Decode(bufio.NewReader(fh), FormatForPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// WriteFile encodes f to path, choosing the format by extension.
func WriteFile(path string, f *File) error {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(fh)
	if err := Encode(w, f, FormatForPath(path)); err != nil {
		fh.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		fh.Close()
		return err
	}
	return fh.Close()
}

// CheckIDs verifies that every node carries a valid id and that no id is
// used twice.
func CheckIDs(m *Module) error {
	seen := make(map[NodeID]struct{})
	var errs []error
	mark := func(id NodeID, what string) {
		if !id.IsValid() {
			errs = append(errs, fmt.Errorf("ast: %s without id", what))
			return
		}
		if _, dup := seen[id]; dup {
			errs = append(errs, fmt.Errorf("ast: duplicate node id %d (%s)", id, what))
			return
		}
		seen[id] = struct{}{}
	}
	mark(m.ID, "module")
	Walk(m, Visitor{
		Func: func(fn *Func) bool {
			mark(fn.ID, "func "+fn.Name)
			return true
		},
		Stmt: func(s *Stmt) bool {
			mark(s.ID, s.Kind.String()+" statement")
			return true
		},
		Expr: func(e *Expr) bool {
			mark(e.ID, e.Kind.String()+" expression")
			return true
		},
	})
	return errors.Join(errs...)
}

func normalizeNames(m *Module) {
	m.Name = norm.NFC.String(m.Name)
	Walk(m, Visitor{
		Func: func(fn *Func) bool {
			fn.Name = norm.NFC.String(fn.Name)
			return true
		},
		Stmt: func(s *Stmt) bool {
			if s.IsDecl() {
				s.Decl.Name = norm.NFC.String(s.Decl.Name)
			}
			return true
		},
		Expr: func(e *Expr) bool {
			if e.Kind == ExprIdent {
				e.Name = norm.NFC.String(e.Name)
			}
			return true
		},
	})
}
