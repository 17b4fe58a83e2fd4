package grafana

import (
	"encoding/json"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Format is an output encoding of Marshal.
type Format string

const (
	JSONFormat Format = "json"
	YAMLFormat Format = "yaml"
)

// ErrFormatNotSupported is returned by Marshal for unknown formats.
var ErrFormatNotSupported = errors.New("format not supported")

// Marshal encodes v, usually a Dashboard or a Row, as indented JSON or as YAML.
// The YAML document is derived from the JSON one so both share the same keys.
func Marshal(v interface{}, format Format) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "json marshal")
	}
	switch format {
	case JSONFormat, "":
		return append(data, '\n'), nil
	case YAMLFormat:
		var doc interface{}
		if err = yaml.Unmarshal(data, &doc); err != nil {
			return nil, errors.Wrap(err, "convert json to yaml")
		}
		out, err := yaml.Marshal(doc)
		if err != nil {
			return nil, errors.Wrap(err, "yaml marshal")
		}
		return out, nil
	default:
		return nil, errors.Wrapf(ErrFormatNotSupported, "%q", format)
	}
}
