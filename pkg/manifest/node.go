package manifest

import (
	"bytes"
	"encoding/json"

	"github.com/fulmenhq/semcast/pkg/errs"
)

// NodeAdapter handles package.json files: version is the top-level "version"
// field. A "version" key inside dependencies, scripts, or any nested object
// never matches.
type NodeAdapter struct{}

// NewNodeAdapter creates a package.json adapter.
func NewNodeAdapter() *NodeAdapter {
	return &NodeAdapter{}
}

func (a *NodeAdapter) Name() string {
	return "node"
}

func (a *NodeAdapter) Detect(filename string) bool {
	return baseName(filename) == "package.json"
}

func (a *NodeAdapter) ReadVersion(content []byte) (string, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(content, &doc); err != nil {
		return "", errs.Wrap(err, errs.ErrMalformedManifest, "parsing package.json")
	}
	raw, ok := doc["version"]
	if !ok {
		return "", errs.New(errs.ErrMissingVersionField, "no top-level version field in package.json")
	}
	var version string
	if err := json.Unmarshal(raw, &version); err != nil {
		return "", errs.Wrap(err, errs.ErrMalformedManifest, "top-level version in package.json is not a string")
	}
	return version, nil
}

// WriteVersion replaces only the bytes of the top-level version value. The
// rest of the document, including indentation, key order, and any trailing
// newline, passes through untouched.
func (a *NodeAdapter) WriteVersion(content []byte, newVersion string) ([]byte, error) {
	start, end, err := topLevelVersionSpan(content)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Grow(len(content) + len(newVersion))
	buf.Write(content[:start])
	buf.WriteByte('"')
	buf.WriteString(newVersion)
	buf.WriteByte('"')
	buf.Write(content[end:])
	updated := buf.Bytes()

	got, err := a.ReadVersion(updated)
	if err != nil || got != newVersion {
		return nil, errs.New(errs.ErrMalformedManifest, "rewritten package.json does not carry the new version")
	}
	return updated, nil
}

// topLevelVersionSpan locates the byte span of the top-level version value,
// quotes included, by walking tokens with their input offsets. Nested objects
// and arrays are skipped wholesale so only a depth-one "version" key counts.
func topLevelVersionSpan(content []byte) (int, int, error) {
	dec := json.NewDecoder(bytes.NewReader(content))

	tok, err := dec.Token()
	if err != nil {
		return 0, 0, errs.Wrap(err, errs.ErrMalformedManifest, "parsing package.json")
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return 0, 0, errs.New(errs.ErrMalformedManifest, "package.json root is not an object")
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return 0, 0, errs.Wrap(err, errs.ErrMalformedManifest, "parsing package.json")
		}
		key, ok := keyTok.(string)
		if !ok {
			return 0, 0, errs.New(errs.ErrMalformedManifest, "unexpected token in package.json object")
		}
		afterKey := dec.InputOffset()

		if key == "version" {
			valTok, err := dec.Token()
			if err != nil {
				return 0, 0, errs.Wrap(err, errs.ErrMalformedManifest, "parsing package.json")
			}
			if _, ok := valTok.(string); !ok {
				return 0, 0, errs.New(errs.ErrMalformedManifest, "top-level version in package.json is not a string")
			}
			end := dec.InputOffset()
			// Everything between the key token and the value token is the
			// colon and whitespace; the first quote opens the value.
			rel := bytes.IndexByte(content[afterKey:end], '"')
			if rel < 0 {
				return 0, 0, errs.New(errs.ErrMalformedManifest, "cannot locate version value in package.json")
			}
			return int(afterKey) + rel, int(end), nil
		}

		if err := skipJSONValue(dec); err != nil {
			return 0, 0, errs.Wrap(err, errs.ErrMalformedManifest, "parsing package.json")
		}
	}

	return 0, 0, errs.New(errs.ErrMissingVersionField, "no top-level version field in package.json")
}

// skipJSONValue consumes one complete value, descending through any nesting.
func skipJSONValue(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	d, ok := tok.(json.Delim)
	if !ok || (d != '{' && d != '[') {
		return nil
	}
	depth := 1
	for depth > 0 {
		t, err := dec.Token()
		if err != nil {
			return err
		}
		if dd, ok := t.(json.Delim); ok {
			switch dd {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}
	}
	return nil
}
