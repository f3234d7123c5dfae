package registry

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	apperrors "github.com/matzehuels/archgraph/pkg/errors"
)

// Format identifies a registry data file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath infers the registry format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", apperrors.New(apperrors.ErrCodeInvalidFormat,
		"cannot infer registry format from %q (want .json, .yaml, .yml or .toml)", path)
}

// Read decodes a registry from r in the given format. It does not validate
// the result; call [Registry.Validate] for that.
//
// Read does not close r.
func Read(r io.Reader, format Format) (*Registry, error) {
	var reg Registry
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&reg); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRegistry, err, "decode json")
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&reg); err != nil && err != io.EOF {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRegistry, err, "decode yaml")
		}
	case FormatTOML:
		md, err := toml.NewDecoder(r).Decode(&reg)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRegistry, err, "decode toml")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, apperrors.New(apperrors.ErrCodeInvalidRegistry, "decode toml: unknown key %q", undecoded[0].String())
		}
	default:
		return nil, apperrors.New(apperrors.ErrCodeInvalidFormat, "unsupported registry format %q", format)
	}
	return &reg, nil
}

// Load reads, decodes and validates the registry file at path. The format is
// inferred from the extension.
func Load(path string) (*Registry, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	reg, err := Read(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := reg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return reg, nil
}

// Write encodes reg to w in the given format.
func Write(w io.Writer, reg *Registry, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(reg)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(reg); err != nil {
			return err
		}
		return enc.Close()
	case FormatTOML:
		return toml.NewEncoder(w).Encode(reg)
	}
	return apperrors.New(apperrors.ErrCodeInvalidFormat, "unsupported registry format %q", format)
}
