// Package notebooks holds the default notebook set shipped with the
// application and the logic that materializes it into the user's notebook
// directory. Templates are embedded in the binary so init works without any
// installed prefix.
package notebooks

import (
	"encoding/json"
	"fmt"
)

// Cell types defined by the notebook format.
const (
	CellTypeMarkdown = "markdown"
	CellTypeCode     = "code"
	CellTypeRaw      = "raw"
)

// NBFormatMajor is the notebook format major version this model targets.
const NBFormatMajor = 4

// Notebook is a minimal model of an nbformat 4 document: just enough
// structure to build, validate, and round-trip the bundled templates.
// Anything beyond that (outputs, attachments, widgets) is carried opaquely.
type Notebook struct {
	Cells         []Cell           `json:"cells"`
	Metadata      NotebookMetadata `json:"metadata"`
	NBFormat      int              `json:"nbformat"`
	NBFormatMinor int              `json:"nbformat_minor"`
}

// NotebookMetadata carries the kernel and language blocks.
type NotebookMetadata struct {
	Kernelspec   Kernelspec   `json:"kernelspec"`
	LanguageInfo LanguageInfo `json:"language_info"`
}

// Kernelspec names the kernel a notebook runs on.
type Kernelspec struct {
	DisplayName string `json:"display_name"`
	Language    string `json:"language"`
	Name        string `json:"name"`
}

// LanguageInfo describes the notebook language.
type LanguageInfo struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

// Cell is one notebook cell. ExecutionCount and Outputs only apply to code
// cells; the custom marshaler keeps the emitted JSON valid for both kinds.
type Cell struct {
	CellType       string                 `json:"cell_type"`
	ExecutionCount *int                   `json:"execution_count,omitempty"`
	Metadata       map[string]interface{} `json:"metadata"`
	Outputs        []interface{}          `json:"outputs,omitempty"`
	Source         []string               `json:"source"`
}

// MarshalJSON emits the cell with the exact key set nbformat requires:
// code cells always carry execution_count (null when never run) and outputs
// (empty list), markdown and raw cells carry neither.
func (c Cell) MarshalJSON() ([]byte, error) {
	metadata := c.Metadata
	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	source := c.Source
	if source == nil {
		source = []string{}
	}

	if c.CellType == CellTypeCode {
		outputs := c.Outputs
		if outputs == nil {
			outputs = []interface{}{}
		}
		return json.Marshal(struct {
			CellType       string                 `json:"cell_type"`
			ExecutionCount *int                   `json:"execution_count"`
			Metadata       map[string]interface{} `json:"metadata"`
			Outputs        []interface{}          `json:"outputs"`
			Source         []string               `json:"source"`
		}{c.CellType, c.ExecutionCount, metadata, outputs, source})
	}

	return json.Marshal(struct {
		CellType string                 `json:"cell_type"`
		Metadata map[string]interface{} `json:"metadata"`
		Source   []string               `json:"source"`
	}{c.CellType, metadata, source})
}

// MarkdownCell builds a markdown cell from source lines.
// This is a pure function with no side effects.
func MarkdownCell(source ...string) Cell {
	return Cell{
		CellType: CellTypeMarkdown,
		Metadata: map[string]interface{}{},
		Source:   source,
	}
}

// CodeCell builds a never-executed code cell from source lines.
// This is a pure function with no side effects.
func CodeCell(source ...string) Cell {
	return Cell{
		CellType: CellTypeCode,
		Metadata: map[string]interface{}{},
		Outputs:  []interface{}{},
		Source:   source,
	}
}

// NewNotebook builds an nbformat 4 notebook with the standard Python 3
// kernelspec around the given cells.
func NewNotebook(cells ...Cell) *Notebook {
	return &Notebook{
		Cells: cells,
		Metadata: NotebookMetadata{
			Kernelspec: Kernelspec{
				DisplayName: "Python 3",
				Language:    "python",
				Name:        "python3",
			},
			LanguageInfo: LanguageInfo{
				Name: "python",
			},
		},
		NBFormat:      NBFormatMajor,
		NBFormatMinor: 4,
	}
}

// Parse decodes a notebook document.
func Parse(data []byte) (*Notebook, error) {
	var nb Notebook
	if err := json.Unmarshal(data, &nb); err != nil {
		return nil, fmt.Errorf("failed to parse notebook: %w", err)
	}
	return &nb, nil
}

// Validate checks the document is a well-formed nbformat 4 notebook.
func (n *Notebook) Validate() error {
	if n.NBFormat != NBFormatMajor {
		return fmt.Errorf("notebook: unsupported nbformat %d (want %d)", n.NBFormat, NBFormatMajor)
	}
	if len(n.Cells) == 0 {
		return fmt.Errorf("notebook: no cells")
	}
	for i, cell := range n.Cells {
		switch cell.CellType {
		case CellTypeMarkdown, CellTypeCode, CellTypeRaw:
		default:
			return fmt.Errorf("notebook: cell %d has unknown type %q", i, cell.CellType)
		}
	}
	if n.Metadata.Kernelspec.Name == "" {
		return fmt.Errorf("notebook: kernelspec name missing")
	}
	return nil
}

// Marshal encodes the notebook with two-space indentation and a trailing
// newline, the formatting the notebook server itself writes.
func (n *Notebook) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(n, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal notebook: %w", err)
	}
	return append(data, '\n'), nil
}
