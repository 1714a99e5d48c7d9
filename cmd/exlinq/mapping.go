package main

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ukaji3/exlinq-go/pkg/exlinq"
	"github.com/ukaji3/exlinq-go/pkg/exlinq/grid"
	"github.com/ukaji3/exlinq-go/pkg/exlinq/xlsx"
	"gopkg.in/yaml.v3"
)

// mappingFile is the YAML description of a dynamic model.
type mappingFile struct {
	IgnoreSheetNames bool           `yaml:"ignore_sheet_names"`
	Sheets           []sheetMapping `yaml:"sheets"`
}

type sheetMapping struct {
	Name           string          `yaml:"name"`
	AlternateNames nameList        `yaml:"alternate_names"`
	Optional       bool            `yaml:"optional"`
	SkipEmptyRows  bool            `yaml:"skip_empty_rows"`
	Range          string          `yaml:"range"`
	Header         string          `yaml:"header"`
	DefinedName    string          `yaml:"defined_name"`
	Columns        []columnMapping `yaml:"columns"`
}

type columnMapping struct {
	Name           string   `yaml:"name"`
	AlternateNames nameList `yaml:"alternate_names"`
	Optional       bool     `yaml:"optional"`
	Type           string   `yaml:"type"`
	NumberFormat   string   `yaml:"number_format"`
	Width          float64  `yaml:"width"`
}

// nameList is a list of names that may also be written as a single scalar.
// Blank names are rejected.
type nameList []string

func (n *nameList) UnmarshalYAML(node *yaml.Node) error {
	var names []string
	if node.Kind == yaml.ScalarNode {
		names = []string{node.Value}
	} else if err := node.Decode(&names); err != nil {
		return fmt.Errorf("line %d: expected a name or a list of names", node.Line)
	}
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("line %d: blank alternate name", node.Line)
		}
	}
	*n = names
	return nil
}

// loadMapping loads and parses a YAML mapping file.
func loadMapping(path string) (*mappingFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping file %s: %w", path, err)
	}
	var mf mappingFile
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("failed to parse mapping YAML: %w", err)
	}
	if len(mf.Sheets) == 0 {
		return nil, fmt.Errorf("mapping file %s declares no sheets", path)
	}
	return &mf, nil
}

// record holds one row of a dynamically mapped sheet, keyed by column name.
type record struct {
	Values map[string]any
}

// configure declares the mapped sheets on b.
func (mf *mappingFile) configure(b *exlinq.ModelBuilder) error {
	if mf.IgnoreSheetNames {
		b.IgnoreSheetNames()
	}
	for _, sm := range mf.Sheets {
		s := exlinq.NamedSheet[record](b, sm.Name)
		for _, alt := range sm.AlternateNames {
			s.AlternateName(alt)
		}
		if sm.Optional {
			s.Optional()
		}
		if sm.SkipEmptyRows {
			s.SkipEmptyRows()
		}
		switch {
		case sm.Range != "":
			s.ReadRangeLocator(exlinq.FixedLocator(sm.Range))
		case sm.DefinedName != "":
			s.ReadRangeLocator(xlsx.DefinedNameLocator(sm.DefinedName))
		case sm.Header != "":
			s.ReadRangeLocator(exlinq.HeaderLocator(sm.Header))
		}

		for _, cm := range sm.Columns {
			if err := declareColumn(s, cm); err != nil {
				return fmt.Errorf("sheet %q: %w", sm.Name, err)
			}
		}
	}
	return b.Err()
}

func declareColumn(s *exlinq.SheetBuilder[record], cm columnMapping) error {
	switch strings.ToLower(cm.Type) {
	case "", "text":
		recordColumn[*string](s, cm)
	case "number":
		recordColumn[*float64](s, cm)
	case "integer":
		recordColumn[*int64](s, cm)
	case "boolean":
		recordColumn[*bool](s, cm)
	case "date":
		recordColumn[*time.Time](s, cm)
	case "duration":
		recordColumn[*time.Duration](s, cm)
	case "uuid":
		recordColumn[*uuid.UUID](s, cm)
	case "url":
		recordColumn[*url.URL](s, cm)
	case "any":
		recordColumn[any](s, cm)
	default:
		return fmt.Errorf("column %q: unknown type %q", cm.Name, cm.Type)
	}
	return nil
}

// recordColumn maps the column to the record value stored under its name.
func recordColumn[V any](s *exlinq.SheetBuilder[record], cm columnMapping) {
	key := strings.TrimSpace(cm.Name)
	c := exlinq.ColumnFunc(s, cm.Name,
		func(r *record) V {
			v, _ := r.Values[key].(V)
			return v
		},
		func(r *record, v V) {
			if r.Values == nil {
				r.Values = make(map[string]any)
			}
			r.Values[key] = v
		},
	)

	for _, alt := range cm.AlternateNames {
		c.AlternateName(alt)
	}
	if cm.Optional {
		c.Optional()
	}
	c.HeaderFormatter(xlsx.Bold)
	if cm.NumberFormat != "" {
		format := cm.NumberFormat
		c.ColumnFormatter(func(r grid.Range) error { return xlsx.SetNumberFormat(r, format) })
	}
	if cm.Width > 0 {
		width := cm.Width
		c.WritePolisher(func(r grid.Range) error { return xlsx.SetColumnWidth(r, width) })
	}
}
