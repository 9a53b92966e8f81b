// Package frontmatter splits YAML front matter from Markdown documents and
// decodes the page metadata docrender understands.
package frontmatter

import (
	"bytes"
	"errors"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the document started with a YAML
// frontmatter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// Split separates YAML frontmatter (`---` delimited) from the Markdown body.
//
// If the document does not start with a YAML frontmatter delimiter, had is false
// and body is the full input.
func Split(content []byte) (frontmatter []byte, body []byte, had bool, err error) {
	nl := detectNewline(content)
	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, nil
	}

	frontmatterStart := len(open)
	if bytes.HasPrefix(content[frontmatterStart:], open) {
		return []byte{}, content[frontmatterStart+len(open):], true, nil
	}

	closeSeq := []byte(nl + "---" + nl)
	idx := bytes.Index(content[frontmatterStart:], closeSeq)
	if idx < 0 {
		// The closing delimiter may be the last line without a newline.
		rest := content[frontmatterStart:]
		if string(rest) == "---" {
			return []byte{}, []byte{}, true, nil
		}
		if bytes.HasSuffix(rest, []byte(nl+"---")) {
			return rest[:len(rest)-len("---")], []byte{}, true, nil
		}
		return nil, nil, false, ErrMissingClosingDelimiter
	}

	frontmatterEnd := frontmatterStart + idx + len(nl)
	bodyStart := frontmatterStart + idx + len(closeSeq)
	return content[frontmatterStart:frontmatterEnd], content[bodyStart:], true, nil
}

// Metadata is the page metadata read from front matter. Unknown keys are ignored.
type Metadata struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Keywords    Keywords `yaml:"keywords"`
	CSSClass    string   `yaml:"css_class"`
	// Weight orders pages in the sidebar; lower comes first.
	Weight int `yaml:"weight"`
	// Aliases are output paths (relative to the site root) that redirect to this page.
	Aliases []string `yaml:"aliases"`
}

// Keywords accepts either a comma separated string or a YAML list.
type Keywords []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (k *Keywords) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		*k = nil
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				*k = append(*k, part)
			}
		}
		return nil
	}
	var list []string
	if err := value.Decode(&list); err != nil {
		return err
	}
	*k = list
	return nil
}

// String joins the keywords the way they appear in a keywords meta tag.
func (k Keywords) String() string {
	return strings.Join(k, ", ")
}

// Parse splits a document and decodes its front matter into Metadata.
func Parse(content []byte) (Metadata, []byte, error) {
	fm, body, had, err := Split(content)
	if err != nil {
		return Metadata{}, nil, err
	}
	var meta Metadata
	if had && len(bytes.TrimSpace(fm)) > 0 {
		if err := yaml.Unmarshal(fm, &meta); err != nil {
			return Metadata{}, nil, err
		}
	}
	return meta, body, nil
}

func detectNewline(content []byte) string {
	for i := 0; i+1 < len(content); i++ {
		if content[i] == '\r' && content[i+1] == '\n' {
			return "\r\n"
		}
		if content[i] == '\n' {
			return "\n"
		}
	}
	return "\n"
}
