package record

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const frontmatterDelimiter = "---"

// ParseError reports a single malformed document. Directory loads collect
// these per file instead of aborting the whole load.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("parse error: %v", e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Encode renders a record as a frontmatter document: a YAML key/value
// block between --- delimiters followed by the free-text notes body.
// Encoding is deterministic, so Decode(Encode(r)) == r for every valid r.
func Encode(r *MovieRecord) ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	// Marshal through a yaml.Node so title and director can be forced to
	// double-quote style. yaml.v3 would otherwise emit bare scalars for
	// values containing ": " (e.g. "2001: A Space Odyssey"), which YAML
	// parsers read as nested mappings.
	var docNode yaml.Node
	if err := docNode.Encode(r); err != nil {
		return nil, fmt.Errorf("failed to marshal record: %w", err)
	}
	forceQuotedFields(&docNode, "title", "director")
	data, err := yaml.Marshal(&docNode)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal record: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(frontmatterDelimiter + "\n")
	sb.Write(data)
	sb.WriteString(frontmatterDelimiter + "\n")
	if notes := strings.TrimSpace(r.Notes); notes != "" {
		sb.WriteString("\n")
		sb.WriteString(notes)
		sb.WriteString("\n")
	}
	return []byte(sb.String()), nil
}

// Decode parses a frontmatter document back into a record. The path is
// carried into the ParseError for reporting only. Any malformed YAML,
// missing required field, or schema invariant violation is a ParseError;
// there is no best-effort recovery.
func Decode(path string, data []byte) (*MovieRecord, error) {
	front, body, err := splitFrontmatter(string(data))
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	var r MovieRecord
	if err := yaml.Unmarshal([]byte(front), &r); err != nil {
		return nil, &ParseError{Path: path, Err: fmt.Errorf("invalid frontmatter: %w", err)}
	}
	if r.Status == "" {
		return nil, &ParseError{Path: path, Err: fmt.Errorf("%w: status is required", ErrSchemaInvariant)}
	}
	if err := r.Validate(); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	r.Notes = strings.TrimSpace(body)
	return &r, nil
}

// splitFrontmatter separates the YAML block from the notes body. The
// closing delimiter must be a line consisting of exactly "---"; later
// occurrences inside the body are left alone.
func splitFrontmatter(doc string) (front, body string, err error) {
	if !strings.HasPrefix(doc, frontmatterDelimiter+"\n") {
		return "", "", errors.New("missing frontmatter opening delimiter")
	}
	rest := doc[len(frontmatterDelimiter)+1:]

	if end := strings.Index(rest, "\n"+frontmatterDelimiter+"\n"); end >= 0 {
		return rest[:end+1], rest[end+len(frontmatterDelimiter)+2:], nil
	}
	if strings.HasSuffix(rest, "\n"+frontmatterDelimiter) {
		return rest[:len(rest)-len(frontmatterDelimiter)], "", nil
	}
	return "", "", errors.New("frontmatter not properly closed")
}

// forceQuotedFields sets DoubleQuotedStyle on the named scalar values of
// the document's top-level mapping.
func forceQuotedFields(doc *yaml.Node, keys ...string) {
	mapping := doc
	if doc.Kind == yaml.DocumentNode {
		if len(doc.Content) == 0 {
			return
		}
		mapping = doc.Content[0]
	}
	if mapping.Kind != yaml.MappingNode {
		return
	}
	keySet := make(map[string]bool, len(keys))
	for _, k := range keys {
		keySet[k] = true
	}
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if keySet[mapping.Content[i].Value] {
			mapping.Content[i+1].Style = yaml.DoubleQuotedStyle
		}
	}
}
