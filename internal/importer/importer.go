// Package importer implements the contact import wizard: a delimited-text
// file is parsed into header-labelled rows, the caller maps contact fields
// to headers, and the mapping is applied to every row to produce the
// candidate contact list. The wizard itself is a value; every transition
// is a pure function from (state, event) to a new state.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	// ErrNoHeaders indicates the uploaded file contained no header row
	ErrNoHeaders = errors.New("no headers found in file")
	// ErrNotParsed indicates a transition that requires parsed rows before upload
	ErrNotParsed = errors.New("no file has been parsed")
	// ErrUnknownHeader indicates a mapping to a header absent from the file
	ErrUnknownHeader = errors.New("unknown header")
	// ErrMappingIncomplete indicates a required field has no header assigned
	ErrMappingIncomplete = errors.New("required fields are not all mapped")
)

// Field names a Contact attribute that can be mapped to a CSV header.
type Field string

const (
	FieldName    Field = "name"
	FieldEmail   Field = "email"
	FieldCompany Field = "company"
	FieldNotes   Field = "notes"
)

// RequiredFields must all be mapped before the wizard may enter Preview.
var RequiredFields = []Field{FieldName, FieldEmail, FieldCompany}

// OptionalFields resolve to the empty string when unmapped.
var OptionalFields = []Field{FieldNotes}

// ParsedFile holds the outcome of parsing an uploaded delimited-text file.
type ParsedFile struct {
	Headers []string
	Rows    []map[string]string
}

// Parse reads comma-separated text and returns ordered headers plus one
// map per data row. The first record is the header row; a file with no
// records fails with ErrNoHeaders.
func Parse(r io.Reader) (*ParsedFile, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // rows may be ragged; missing cells become ""
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrNoHeaders
	}

	headers := make([]string, 0, len(records[0]))
	for _, h := range records[0] {
		headers = append(headers, strings.TrimSpace(h))
	}
	if len(headers) == 0 || (len(headers) == 1 && headers[0] == "") {
		return nil, ErrNoHeaders
	}

	rows := make([]map[string]string, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]string, len(headers))
		for i, header := range headers {
			if i < len(record) {
				row[header] = record[i]
			} else {
				row[header] = ""
			}
		}
		rows = append(rows, row)
	}

	return &ParsedFile{Headers: headers, Rows: rows}, nil
}

// Step identifies the wizard's current screen.
type Step string

const (
	StepUpload  Step = "upload"
	StepMap     Step = "map"
	StepPreview Step = "preview"
)

// Mapping assigns contact fields to parsed headers.
type Mapping map[Field]string

// Complete reports whether every required field has a header assigned.
func (m Mapping) Complete() bool {
	for _, field := range RequiredFields {
		if m[field] == "" {
			return false
		}
	}
	return true
}

// ContactRow is one candidate contact produced by applying a mapping.
type ContactRow struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company"`
	Notes   string `json:"notes"`
}

// Wizard is the import state value carried by the caller.
type Wizard struct {
	Step    Step
	File    *ParsedFile
	Mapping Mapping
}

// NewWizard returns a wizard at the Upload step.
func NewWizard() Wizard {
	return Wizard{Step: StepUpload, Mapping: Mapping{}}
}

// Upload parses a file and advances to Map. A parse failure returns the
// wizard unchanged, still at Upload.
func (w Wizard) Upload(r io.Reader) (Wizard, error) {
	file, err := Parse(r)
	if err != nil {
		return w, err
	}
	return Wizard{Step: StepMap, File: file, Mapping: Mapping{}}, nil
}

// Assign maps one field to a header while at the Map step.
func (w Wizard) Assign(field Field, header string) (Wizard, error) {
	if w.Step != StepMap {
		return w, fmt.Errorf("assign in step %s: %w", w.Step, ErrNotParsed)
	}
	if header != "" && !w.hasHeader(header) {
		return w, fmt.Errorf("%w: %q", ErrUnknownHeader, header)
	}

	next := w
	next.Mapping = make(Mapping, len(w.Mapping)+1)
	for f, h := range w.Mapping {
		next.Mapping[f] = h
	}
	next.Mapping[field] = header
	return next, nil
}

// ToPreview advances to Preview once every required field is mapped.
func (w Wizard) ToPreview() (Wizard, error) {
	if w.Step != StepMap {
		return w, fmt.Errorf("preview in step %s: %w", w.Step, ErrNotParsed)
	}
	if !w.Mapping.Complete() {
		return w, ErrMappingIncomplete
	}
	next := w
	next.Step = StepPreview
	return next, nil
}

// Contacts applies the mapping to every parsed row. Unmapped optional
// fields resolve to the empty string.
func (w Wizard) Contacts() []ContactRow {
	if w.File == nil {
		return nil
	}
	contacts := make([]ContactRow, 0, len(w.File.Rows))
	for _, row := range w.File.Rows {
		contacts = append(contacts, ContactRow{
			Name:    w.cell(row, FieldName),
			Email:   w.cell(row, FieldEmail),
			Company: w.cell(row, FieldCompany),
			Notes:   w.cell(row, FieldNotes),
		})
	}
	return contacts
}

// StartOver discards all parsed state and returns to Upload.
func (w Wizard) StartOver() Wizard {
	return NewWizard()
}

func (w Wizard) hasHeader(header string) bool {
	if w.File == nil {
		return false
	}
	for _, h := range w.File.Headers {
		if h == header {
			return true
		}
	}
	return false
}

func (w Wizard) cell(row map[string]string, field Field) string {
	header := w.Mapping[field]
	if header == "" {
		return ""
	}
	return row[header]
}
