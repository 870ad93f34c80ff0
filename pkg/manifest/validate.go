package manifest

import (
	"regexp"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
	"go.uber.org/multierr"
)

var hashruleName = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Validate reports every problem in the manifest at once.
func (m *FileManifest) Validate() error {
	var err error

	seen := map[string]bool{}
	for i, attr := range m.Attributes {
		switch {
		case attr == "":
			err = multierr.Append(err, errors.Errorf("attributes[%d]: empty name", i))
		case attr == "&":
			err = multierr.Append(err, errors.Errorf("attributes[%d]: %q is reserved for comments", i, attr))
		case seen[attr]:
			err = multierr.Append(err, errors.Errorf("attributes[%d]: duplicate %q", i, attr))
		}
		seen[attr] = true
	}

	for _, name := range sortedKeys(m.Hashrules) {
		if !hashruleName.MatchString(name) {
			err = multierr.Append(err, errors.Errorf("hashrules: invalid name %q", name))
		}
	}

	for i, pattern := range m.WatchFiles {
		if !doublestar.ValidatePattern(pattern) {
			err = multierr.Append(err, errors.Errorf("watchfiles[%d]: invalid pattern %q", i, pattern))
		}
	}

	if m.WebviewPort < 0 || m.WebviewPort > 65535 {
		err = multierr.Append(err, errors.Errorf("webviewport: %d out of range", m.WebviewPort))
	}

	return err
}

// Validate reports every dangling reference in the manifest at once.
func (m *StyleManifest) Validate() error {
	var err error

	for _, name := range sortedKeys(m.Symclasses) {
		if _, ok := m.SymclassData[m.Symclasses[name]]; !ok {
			err = multierr.Append(err, errors.Errorf("symclasses[%q]: no data at index %d", name, m.Symclasses[name]))
		}
	}

	for i, name := range m.Assignable {
		if _, ok := m.Symclasses[name]; !ok {
			err = multierr.Append(err, errors.Errorf("assignable[%d]: unknown symclass %q", i, name))
		}
	}

	return err
}
