// Package classpath reads Eclipse .classpath files.
package classpath

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
)

// FileName is the per-project metadata file.
const FileName = ".classpath"

// ErrMalformedMetadata is returned when a .classpath file is missing or is
// not well-formed XML.
var ErrMalformedMetadata = errors.New("malformed metadata")

// Kind classifies a classpath entry.
type Kind int

const (
	// KindUnknown covers unrecognized kinds and elements other than
	// classpathentry.
	KindUnknown Kind = iota
	KindContainer
	KindSource
	KindOutput
	KindLibrary
	KindVariable
)

var kindNames = map[string]Kind{
	"con":    KindContainer,
	"src":    KindSource,
	"output": KindOutput,
	"lib":    KindLibrary,
	"var":    KindVariable,
}

// ParseKind maps the kind attribute of a classpathentry to a Kind.
func ParseKind(s string) Kind {
	if k, ok := kindNames[s]; ok {
		return k
	}
	return KindUnknown
}

func (k Kind) String() string {
	switch k {
	case KindContainer:
		return "con"
	case KindSource:
		return "src"
	case KindOutput:
		return "output"
	case KindLibrary:
		return "lib"
	case KindVariable:
		return "var"
	default:
		return "unknown"
	}
}

// Entry is one child element of the classpath document.
type Entry struct {
	Element string // local element name, "classpathentry" for real entries
	Kind    Kind
	RawKind string // kind attribute as written
	Path    string

	// AccessRules holds the combineaccessrules attribute; HasAccessRules
	// tells an absent attribute from an empty one.
	AccessRules    string
	HasAccessRules bool
}

// Parse decodes a .classpath document into its entries, in document order.
func Parse(data []byte) ([]Entry, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	var entries []Entry
	depth := 0
	sawRoot := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedMetadata, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			switch depth {
			case 1:
				sawRoot = true
			case 2:
				entries = append(entries, newEntry(t))
			}
		case xml.EndElement:
			depth--
		}
	}
	if !sawRoot {
		return nil, fmt.Errorf("%w: no root element", ErrMalformedMetadata)
	}
	return entries, nil
}

func newEntry(el xml.StartElement) Entry {
	e := Entry{Element: el.Name.Local}
	if e.Element != "classpathentry" {
		return e
	}

	hasKind, hasPath := false, false
	for _, attr := range el.Attr {
		switch attr.Name.Local {
		case "kind":
			e.RawKind, hasKind = attr.Value, true
		case "path":
			e.Path, hasPath = attr.Value, true
		case "combineaccessrules":
			e.AccessRules, e.HasAccessRules = attr.Value, true
		}
	}
	if hasKind && hasPath {
		e.Kind = ParseKind(e.RawKind)
	}
	return e
}
