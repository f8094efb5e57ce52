package jarinfo

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ManifestName is where archives keep their manifest.
const ManifestName = "META-INF/MANIFEST.MF"

// Attributes is one manifest section. Attribute names are case
// insensitive.
type Attributes map[string]string

// Get returns the named attribute, ignoring case.
func (a Attributes) Get(name string) string {
	if v, ok := a[name]; ok {
		return v
	}
	for k, v := range a {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

// Manifest is a parsed JAR manifest.
type Manifest struct {
	Main     Attributes
	Sections map[string]Attributes // keyed by the section's Name attribute
}

// ClassPath splits the main section's Class-Path attribute into its
// space-separated relative URLs.
func (m *Manifest) ClassPath() []string {
	return strings.Fields(m.Main.Get("Class-Path"))
}

// ParseManifest reads a manifest: "Name: value" lines, continuation lines
// starting with a single space, and sections separated by blank lines.
func ParseManifest(r io.Reader) (*Manifest, error) {
	m := &Manifest{Main: Attributes{}, Sections: map[string]Attributes{}}
	current := m.Main
	inMain := true
	var lastKey string

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSuffix(sc.Text(), "\r")
		switch {
		case line == "":
			if len(current) > 0 || inMain {
				current = Attributes{}
				inMain = false
			}
			lastKey = ""
			continue
		case line[0] == ' ':
			if lastKey == "" {
				return nil, fmt.Errorf("%w: line %d: continuation without attribute", ErrMalformedManifest, lineNo)
			}
			current[lastKey] += line[1:]
			continue
		}

		key, value, ok := strings.Cut(line, ":")
		if !ok || key == "" || strings.ContainsAny(key, " \t") {
			return nil, fmt.Errorf("%w: line %d: %q", ErrMalformedManifest, lineNo, line)
		}
		value = strings.TrimPrefix(value, " ")
		if !inMain && len(current) == 0 {
			if !strings.EqualFold(key, "Name") {
				return nil, fmt.Errorf("%w: line %d: section must start with Name", ErrMalformedManifest, lineNo)
			}
		}
		current[key] = value
		lastKey = key
		if !inMain && strings.EqualFold(key, "Name") {
			m.Sections[value] = current
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	// Continuation lines may have extended a section's Name after it was
	// registered.
	sections := make(map[string]Attributes, len(m.Sections))
	for _, attrs := range m.Sections {
		sections[attrs.Get("Name")] = attrs
	}
	m.Sections = sections
	return m, nil
}

// Manifest parses the archive's manifest.
func (j *JarInfo) Manifest() (*Manifest, error) {
	data, err := j.ReadFile(ManifestName)
	if errors.Is(err, ErrEntryNotFound) {
		return nil, ErrNoManifest
	}
	if err != nil {
		return nil, err
	}
	return ParseManifest(bytes.NewReader(data))
}
