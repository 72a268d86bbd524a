// Package persist reads and writes entity lists as XML, JSON or msgpack.
package persist

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"chip-tracer/internal/entity"

	"github.com/vmihailenco/msgpack/v5"
)

// ErrPersistence matches every error returned by this package.
var ErrPersistence = errors.New("persistence failure")

// ErrNotXMLText is returned when a string cannot be stored as XML text
// without being altered.
var ErrNotXMLText = fmt.Errorf("%w: text not representable in XML", ErrPersistence)

// Error describes a failed load or save.
type Error struct {
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s entities: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s entities %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is ErrPersistence.
func (e *Error) Is(target error) bool { return target == ErrPersistence }

// Format is an on-disk encoding.
type Format int

const (
	FormatXML Format = iota
	FormatJSON
	FormatMsgpack
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatMsgpack:
		return "msgpack"
	default:
		return "xml"
	}
}

// FormatFromPath picks the format from the file extension. Anything that is
// not JSON or msgpack is XML.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".msgpack", ".mp":
		return FormatMsgpack
	default:
		return FormatXML
	}
}

// document is the XML root.
type document struct {
	XMLName  xml.Name `xml:"ArrayOfEntity"`
	Entities []record `xml:"Entity"`
}

// Encode writes entities in the given format.
func Encode(w io.Writer, f Format, entities []*entity.Entity) error {
	records := make([]record, 0, len(entities))
	for _, e := range entities {
		records = append(records, toRecord(e))
	}

	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)

	case FormatMsgpack:
		return msgpack.NewEncoder(w).Encode(records)

	default:
		for i, rec := range records {
			for _, v := range []string{rec.ID, rec.Type, rec.Label} {
				if !isXMLText(v) {
					return fmt.Errorf("entity %d: %w: %q", i, ErrNotXMLText, v)
				}
			}
		}
		if _, err := io.WriteString(w, xml.Header); err != nil {
			return err
		}
		enc := xml.NewEncoder(w)
		enc.Indent("", "  ")
		if err := enc.Encode(document{Entities: records}); err != nil {
			return err
		}
		_, err := io.WriteString(w, "\n")
		return err
	}
}

// isXMLText reports whether s survives an XML round trip. Control
// characters other than tab, newline and carriage return do not.
func isXMLText(s string) bool {
	for i, r := range s {
		if r == utf8.RuneError {
			if _, size := utf8.DecodeRuneInString(s[i:]); size == 1 {
				return false
			}
		}
		switch {
		case r == '\t' || r == '\n' || r == '\r':
		case r < 0x20:
			return false
		case r >= 0xD800 && r <= 0xDFFF, r == 0xFFFE, r == 0xFFFF:
			return false
		}
	}
	return true
}

// Decode reads entities in the given format. Selection and drag snapshots
// are never persisted, so every decoded entity starts deselected.
func Decode(r io.Reader, f Format) ([]*entity.Entity, error) {
	var records []record

	switch f {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&records); err != nil {
			return nil, err
		}
	case FormatMsgpack:
		if err := msgpack.NewDecoder(r).Decode(&records); err != nil {
			return nil, err
		}
	default:
		var doc document
		if err := xml.NewDecoder(r).Decode(&doc); err != nil {
			return nil, err
		}
		records = doc.Entities
	}

	entities := make([]*entity.Entity, 0, len(records))
	for i, rec := range records {
		e, err := rec.toEntity()
		if err != nil {
			return nil, fmt.Errorf("entity %d: %w", i, err)
		}
		entities = append(entities, e)
	}
	return entities, nil
}

// Save writes entities to path, choosing the format from its extension.
func Save(path string, entities []*entity.Entity) error {
	var buf bytes.Buffer
	if err := Encode(&buf, FormatFromPath(path), entities); err != nil {
		return &Error{Op: "encode", Path: path, Err: err}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return &Error{Op: "write", Path: path, Err: err}
	}
	return nil
}

// Load reads entities from path, choosing the format from its extension.
func Load(path string) ([]*entity.Entity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Op: "read", Path: path, Err: err}
	}
	entities, err := Decode(bytes.NewReader(data), FormatFromPath(path))
	if err != nil {
		return nil, &Error{Op: "decode", Path: path, Err: err}
	}
	return entities, nil
}

// WipeGarbage returns entities without wires shorter than one lambda.
func WipeGarbage(entities []*entity.Entity) []*entity.Entity {
	kept := make([]*entity.Entity, 0, len(entities))
	for _, e := range entities {
		if !e.Degenerate() {
			kept = append(kept, e)
		}
	}
	return kept
}
