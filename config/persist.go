package config

import (
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/teranos/schemagen/errors"
	"github.com/teranos/schemagen/logger"
)

// Save writes cfg as TOML. An existing file is only replaced when overwrite is
// set, and its previous content is kept in path.back1.
func Save(path string, cfg *Config, overwrite bool) error {
	if _, err := os.Stat(path); err == nil {
		if !overwrite {
			return errors.WithHint(
				errors.ConfigErrorf("%s already exists", path),
				"pass --force to replace it",
			)
		}
		if err := createBackup(path); err != nil {
			return errors.Wrap(err, "failed to create backup")
		}
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}

	logger.Debugw("saved config", logger.FieldFile, path, logger.FieldBytes, len(data))
	return nil
}

// createBackup copies the current file to .back1, shifting .back1 to .back2
func createBackup(path string) error {
	back1 := path + ".back1"
	back2 := path + ".back2"

	if _, err := os.Stat(back1); err == nil {
		if err := os.Rename(back1, back2); err != nil {
			return errors.Wrap(err, "failed to rotate .back1 to .back2")
		}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "failed to read config for backup")
	}
	if err := os.WriteFile(back1, content, 0o644); err != nil {
		return errors.Wrap(err, "failed to create .back1")
	}
	return nil
}
