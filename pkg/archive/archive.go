// Package archive saves rendered SVGs together with the configuration that
// produced them.
//
// [FileStore] writes output/<name>/<YYYYmmdd-HHMMSS>.svg with the
// configuration in a leading XML comment. [MongoStore] keeps the same data as
// documents in a MongoDB collection. Both validate that the payload is
// well-formed XML before storing it.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sdjayna/penplot/pkg/errors"
)

// Entry is an SVG to save.
type Entry struct {
	// Name groups saves of the same drawing; it must be a safe file name.
	Name string
	SVG  []byte
	// Config is recorded alongside the SVG. It must marshal to JSON.
	Config any
}

// Record describes a saved entry.
type Record struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	CreatedAt time.Time `json:"createdAt"`
	Size      int       `json:"size"`
}

// Store persists entries.
type Store interface {
	Save(ctx context.Context, e Entry) (Record, error)
	// List returns the records for name, newest first.
	List(ctx context.Context, name string) ([]Record, error)
	Close() error
}

// validate checks the name and that the payload is a well-formed XML
// document with an <svg> root.
func (e Entry) validate() error {
	if err := errors.ValidateOutputName(e.Name); err != nil {
		return err
	}
	if len(bytes.TrimSpace(e.SVG)) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "svg is empty")
	}
	dec := xml.NewDecoder(bytes.NewReader(e.SVG))
	root := ""
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid SVG data")
		}
		if start, ok := tok.(xml.StartElement); ok && root == "" {
			root = start.Name.Local
		}
	}
	if root != "svg" {
		return errors.New(errors.ErrCodeInvalidInput, "invalid SVG data: root element is %q, want svg", root)
	}
	return nil
}

func (e Entry) configJSON() (string, error) {
	if e.Config == nil {
		return "{}", nil
	}
	data, err := json.MarshalIndent(e.Config, "", "  ")
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "encode configuration")
	}
	return string(data), nil
}

// header is the comment written above archived SVGs.
func header(name, config string, at time.Time) string {
	var b strings.Builder
	b.WriteString("Generated by penplot\n")
	fmt.Fprintf(&b, "Date: %s\n", at.Format(time.RFC3339))
	fmt.Fprintf(&b, "Drawing: %s\n", name)
	b.WriteString("Configuration:\n")
	b.WriteString(config)
	body := b.String()
	for strings.Contains(body, "--") {
		body = strings.ReplaceAll(body, "--", "- -")
	}
	return "<!--\n" + body + "\n-->\n"
}

// stripProlog removes a leading XML declaration so the header comment can
// precede the document without producing an invalid prolog.
func stripProlog(svg []byte) []byte {
	trimmed := bytes.TrimLeft(svg, " \t\r\n")
	if bytes.HasPrefix(trimmed, []byte("<?xml")) {
		if end := bytes.Index(trimmed, []byte("?>")); end >= 0 {
			return bytes.TrimLeft(trimmed[end+2:], "\r\n")
		}
	}
	return trimmed
}
