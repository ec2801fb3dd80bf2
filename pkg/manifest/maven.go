package manifest

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"github.com/beevik/etree"

	"github.com/fulmenhq/semcast/pkg/errs"
)

// MavenAdapter handles pom.xml files: version is the <version> element
// directly under <project>. The <parent><version> of an inherited POM is a
// different element and never matches.
type MavenAdapter struct{}

// NewMavenAdapter creates a pom.xml adapter.
func NewMavenAdapter() *MavenAdapter {
	return &MavenAdapter{}
}

func (a *MavenAdapter) Name() string {
	return "maven"
}

func (a *MavenAdapter) Detect(filename string) bool {
	return baseName(filename) == "pom.xml"
}

func (a *MavenAdapter) ReadVersion(content []byte) (string, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(content); err != nil {
		return "", errs.Wrap(err, errs.ErrMalformedManifest, "parsing pom.xml")
	}
	root := doc.Root()
	if root == nil || root.Tag != "project" {
		return "", errs.New(errs.ErrMalformedManifest, "pom.xml root element is not <project>")
	}
	elem := root.SelectElement("version")
	if elem == nil {
		return "", errs.New(errs.ErrMissingVersionField, "no <version> directly under <project> in pom.xml")
	}
	version := strings.TrimSpace(elem.Text())
	if version == "" {
		return "", errs.New(errs.ErrMissingVersionField, "empty <version> under <project> in pom.xml")
	}
	return version, nil
}

// WriteVersion replaces the text of <project><version> in the raw bytes so
// the document keeps its exact formatting. Whitespace padding inside the
// element is preserved around the new value.
func (a *MavenAdapter) WriteVersion(content []byte, newVersion string) ([]byte, error) {
	start, end, err := projectVersionSpan(content)
	if err != nil {
		return nil, err
	}

	span := string(content[start:end])
	old := strings.TrimSpace(span)
	if old == "" {
		return nil, errs.New(errs.ErrMalformedManifest, "empty <version> under <project> in pom.xml")
	}

	var buf bytes.Buffer
	buf.Grow(len(content) + len(newVersion))
	buf.Write(content[:start])
	buf.WriteString(strings.Replace(span, old, newVersion, 1))
	buf.Write(content[end:])
	updated := buf.Bytes()

	got, err := a.ReadVersion(updated)
	if err != nil || got != newVersion {
		return nil, errs.New(errs.ErrMalformedManifest, "rewritten pom.xml does not carry the new version")
	}
	return updated, nil
}

// projectVersionSpan locates the byte span of the text inside the
// depth-two <version> element, end tag excluded.
func projectVersionSpan(content []byte) (int, int, error) {
	dec := xml.NewDecoder(bytes.NewReader(content))
	depth := 0
	var start int64 = -1

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, 0, errs.Wrap(err, errs.ErrMalformedManifest, "parsing pom.xml")
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if depth == 1 && t.Name.Local != "project" {
				return 0, 0, errs.New(errs.ErrMalformedManifest, "pom.xml root element is not <project>")
			}
			if depth == 2 && t.Name.Local == "version" {
				start = dec.InputOffset()
			}
		case xml.EndElement:
			if depth == 2 && t.Name.Local == "version" && start >= 0 {
				after := dec.InputOffset()
				tagStart := bytes.LastIndexByte(content[start:after], '<')
				if tagStart < 0 {
					return 0, 0, errs.New(errs.ErrMalformedManifest, "cannot locate version value in pom.xml")
				}
				return int(start), int(start) + tagStart, nil
			}
			depth--
		}
	}

	return 0, 0, errs.New(errs.ErrMissingVersionField, "no <version> directly under <project> in pom.xml")
}
