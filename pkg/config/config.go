// Package config loads pipeline options from TOML, YAML or JSON files.
//
// A config file holds the same keys as the HTTP API request options:
//
//	# sankeyflow.toml
//	sort = "top"
//	colormap = "plasma"
//	titles = ["2023", "2024"]
//	label_loc = ["left", "both", "right"]
//
//	[colors]
//	apple = "#c0392b"
//
// Unknown keys are rejected so that typos do not silently fall back to
// defaults.
package config

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/sankeyflow/pkg/errors"
	"github.com/matzehuels/sankeyflow/pkg/pipeline"
)

// DefaultNames are the file names [Discover] looks for, in order.
var DefaultNames = []string{"sankeyflow.toml", "sankeyflow.yaml", "sankeyflow.yml", "sankeyflow.json"}

// Load reads options from path. The format follows the extension.
func Load(path string) (pipeline.Options, error) {
	var opts pipeline.Options
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return opts, errors.Wrap(errors.ErrCodeFileNotFound, err, "read config")
		}
		return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "read config")
	}
	if err := Decode(data, filepath.Ext(path), &opts); err != nil {
		return opts, errors.Wrap(errors.GetCodeOr(err, errors.ErrCodeInvalidInput), err, "parse %s", filepath.Base(path))
	}
	return opts, nil
}

// LoadOrDefault loads options from path, or returns zero options (all
// defaults) if path is empty or does not exist.
func LoadOrDefault(path string) (pipeline.Options, error) {
	if path == "" {
		return pipeline.Options{}, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return pipeline.Options{}, nil
	}
	return Load(path)
}

// Discover returns the first of [DefaultNames] present in dir, or "".
func Discover(dir string) string {
	for _, name := range DefaultNames {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Decode parses data in the format named by ext (".toml", ".yaml", ".yml"
// or ".json") into opts.
func Decode(data []byte, ext string, opts *pipeline.Options) error {
	switch strings.ToLower(ext) {
	case ".toml":
		md, err := toml.Decode(string(data), opts)
		if err != nil {
			return err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return errors.New(errors.ErrCodeInvalidOption, "unknown keys: %s", strings.Join(keys, ", "))
		}
		return nil
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(opts); err != nil && err != io.EOF {
			return err
		}
		return nil
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		return dec.Decode(opts)
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported config format %q (want .toml, .yaml, .yml or .json)", ext)
	}
}

// Save writes opts to path in the format named by its extension.
func Save(path string, opts pipeline.Options) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		var buf bytes.Buffer
		err = toml.NewEncoder(&buf).Encode(opts)
		data = buf.Bytes()
	case ".yaml", ".yml":
		data, err = yaml.Marshal(opts)
	case ".json":
		data, err = json.MarshalIndent(opts, "", "  ")
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported config format %q", filepath.Ext(path))
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode config")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create config directory")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write config")
	}
	return nil
}
