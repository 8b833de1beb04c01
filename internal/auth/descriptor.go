// Package auth runs the documentation page's declared login test and probes
// for an active session cookie.
package auth

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/artpar/doctester/internal/dom"
)

const (
	// TestLinkClass marks elements that carry a test descriptor.
	TestLinkClass = "test_link"
	// AuthTestAttr flags the test link used for logging in.
	AuthTestAttr = "auth_test"
	// TestDataAttr holds the JSON-encoded descriptor.
	TestDataAttr = "test_data"
)

// ErrNoAuthTest is returned when the page declares no auth test.
var ErrNoAuthTest = errors.New("no auth test on page")

// Descriptor is the declared request of a test link.
type Descriptor struct {
	Path   string            `json:"path"`
	Method string            `json:"method"`
	Params map[string]string `json:"params"`
}

// DescriptorError reports a test link whose descriptor cannot be used.
type DescriptorError struct {
	ID  string
	Err error
}

func (e *DescriptorError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("invalid test descriptor: %v", e.Err)
	}
	return fmt.Sprintf("invalid test descriptor on %q: %v", e.ID, e.Err)
}

func (e *DescriptorError) Unwrap() error {
	return e.Err
}

// ParseDescriptor decodes and validates a descriptor. Scalar parameter
// values are converted to strings; nested values are rejected.
func ParseDescriptor(data []byte) (*Descriptor, error) {
	var raw struct {
		Path   string         `json:"path"`
		Method string         `json:"method"`
		Params map[string]any `json:"params"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &DescriptorError{Err: err}
	}

	d := &Descriptor{
		Path:   raw.Path,
		Method: raw.Method,
		Params: make(map[string]string, len(raw.Params)),
	}
	for key, value := range raw.Params {
		s, err := paramString(value)
		if err != nil {
			return nil, &DescriptorError{Err: fmt.Errorf("param %q: %w", key, err)}
		}
		d.Params[key] = s
	}
	if err := d.Validate(); err != nil {
		return nil, &DescriptorError{Err: err}
	}
	return d, nil
}

func paramString(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(t), nil
	default:
		return "", fmt.Errorf("unsupported value %v", v)
	}
}

// Validate checks required fields.
func (d *Descriptor) Validate() error {
	if d.Path == "" {
		return errors.New("path is required")
	}
	if d.Method == "" {
		return errors.New("method is required")
	}
	return nil
}

// Links is the part of the page scanned for test links.
type Links interface {
	ByClass(class string) []*dom.Element
}

// FindAuthTest returns the descriptor of the auth test link. When several
// links are flagged, the last one in document order wins.
func FindAuthTest(page Links, logger zerolog.Logger) (*Descriptor, error) {
	var (
		found *dom.Element
		count int
	)
	for _, el := range page.ByClass(TestLinkClass) {
		if _, ok := el.Attr(AuthTestAttr); ok {
			found = el
			count++
		}
	}
	if found == nil {
		return nil, ErrNoAuthTest
	}
	if count > 1 {
		logger.Warn().Int("count", count).Str("using", found.ID()).Msg("multiple auth tests on page, using the last")
	}

	data, _ := found.Attr(TestDataAttr)
	d, err := ParseDescriptor([]byte(data))
	if err != nil {
		var de *DescriptorError
		if errors.As(err, &de) {
			de.ID = found.ID()
		}
		return nil, err
	}
	return d, nil
}
