package settlecli

import (
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/splitpool/internal/domain/types"
)

// LoadSnapshot reads participants and an optional lang from a YAML or JSON
// file. JSON is a subset of YAML so one parser covers both.
func LoadSnapshot(path string) (types.SettleRequest, error) {
	var req types.SettleRequest
	if path == "" {
		return req, ErrNoFile
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return req, fmt.Errorf("%w: %s: %w", ErrLoadSnapshot, path, err)
	}
	if err := k.UnmarshalWithConf("", &req, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return req, fmt.Errorf("%w: %s: %w", ErrLoadSnapshot, path, err)
	}
	return req, nil
}
