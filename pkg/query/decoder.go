package query

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jonathangreen/tuque-sub001/pkg/model"
	"github.com/jonathangreen/tuque-sub001/pkg/status"
)

const (
	rootElement    = "sparql"
	resultsElement = "results"
	resultElement  = "result"
	uriAttribute   = "uri"
)

// Decoder reads result rows from a query response
type Decoder struct {
	d        *xml.Decoder
	started  bool
	done     bool
	inResult bool
}

// NewDecoder builds a decoder over a response stream
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{d: xml.NewDecoder(r)}
}

func malformed(err error) error {
	return status.ErrMalformedQueryResult.Wrap(err)
}

// Next yields the next result row. It returns io.EOF after the last row.
func (dec *Decoder) Next() (model.Binding, error) {
	if dec.done {
		return model.Binding{}, io.EOF
	}
	if !dec.started {
		if err := dec.start(); err != nil {
			return model.Binding{}, err
		}
	}

	for {
		tok, err := dec.d.Token()
		if err == io.EOF {
			return model.Binding{}, malformed(io.ErrUnexpectedEOF)
		}
		if err != nil {
			return model.Binding{}, malformed(err)
		}

		switch el := tok.(type) {
		case xml.StartElement:
			if el.Name.Local == resultElement {
				return dec.row()
			}
			// head and unknown elements
			if el.Name.Local != resultsElement {
				if err := dec.d.Skip(); err != nil {
					return model.Binding{}, malformed(err)
				}
			}
		case xml.EndElement:
			if el.Name.Local == rootElement {
				dec.done = true
				return model.Binding{}, io.EOF
			}
		}
	}
}

func (dec *Decoder) start() error {
	dec.started = true
	for {
		tok, err := dec.d.Token()
		if err == io.EOF {
			return malformed(fmt.Errorf("empty document"))
		}
		if err != nil {
			return malformed(err)
		}
		if el, ok := tok.(xml.StartElement); ok {
			if el.Name.Local != rootElement {
				return malformed(fmt.Errorf("unexpected root element %q", el.Name.Local))
			}
			return nil
		}
	}
}

// row reads the variables bound in a <result> element
func (dec *Decoder) row() (model.Binding, error) {
	b := model.NewBinding()
	for {
		tok, err := dec.d.Token()
		if err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return model.Binding{}, malformed(err)
		}
		switch el := tok.(type) {
		case xml.StartElement:
			v, err := dec.value(el)
			if err != nil {
				return model.Binding{}, err
			}
			b.Set(el.Name.Local, v)
		case xml.EndElement:
			return b, nil
		}
	}
}

func (dec *Decoder) value(el xml.StartElement) (model.Value, error) {
	for _, a := range el.Attr {
		if a.Name.Local != uriAttribute {
			continue
		}
		if err := dec.d.Skip(); err != nil {
			return model.Value{}, malformed(err)
		}
		v := model.Value{Type: model.ValueURI, URI: a.Value}
		if pid, ok := model.URIToIdentifier(a.Value); ok {
			v.Identifier = pid
		}
		return v, nil
	}

	var text strings.Builder
	for {
		tok, err := dec.d.Token()
		if err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return model.Value{}, malformed(err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			text.Write(t)
		case xml.StartElement:
			return model.Value{}, malformed(fmt.Errorf("unexpected element %q in variable %q", t.Name.Local, el.Name.Local))
		case xml.EndElement:
			return model.Value{Type: model.ValueLiteral, Literal: text.String()}, nil
		}
	}
}

// Parse reads all the rows of a response. A response without rows yields an empty slice.
func Parse(r io.Reader) ([]model.Binding, error) {
	dec := NewDecoder(r)
	rows := make([]model.Binding, 0)
	for {
		b, err := dec.Next()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, b)
	}
}

// ParseCount reads the response to a count query: a single integer, possibly surrounded by whitespace
func ParseCount(r io.Reader) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			if err == bufio.ErrTooLong {
				return 0, malformed(err)
			}
			return 0, err
		}
		return 0, malformed(io.ErrUnexpectedEOF)
	}
	n, err := strconv.Atoi(scanner.Text())
	if err != nil {
		return 0, malformed(err)
	}
	if n < 0 {
		return 0, malformed(fmt.Errorf("negative count %d", n))
	}
	return n, nil
}
