package configutil

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

// localName turns "dir/name.ext" into "dir/name.local.ext".
func localName(name string) string {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + ".local" + ext
}

// readFile decodes a json5 file into out, found is false when the file does
// not exist or is empty.
func readFile(name string, out any) (found bool, err error) {
	contents, err := os.ReadFile(name)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if len(contents) == 0 {
		return false, nil
	}
	err = json5.Unmarshal(contents, out)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", name, err)
	}
	return true, nil
}

// ReadConfig reads the json5 file `name` and then merges `<name>.local.<ext>`
// over it, values in the local file win. os.ErrNotExist is returned when
// neither file exists.
func ReadConfig[T any](name string) (T, error) {
	var out T
	found, err := readFile(name, &out)
	if err != nil {
		return out, err
	}

	local := localName(name)
	var override T
	foundLocal, err := readFile(local, &override)
	if err != nil {
		return out, err
	}
	if foundLocal {
		err = mergo.Merge(&out, override, mergo.WithOverride)
		if err != nil {
			return out, err
		}
		slog.Info("merging config with local overrides", "local", local)
	}

	if !found && !foundLocal {
		return out, os.ErrNotExist
	}
	return out, nil
}
