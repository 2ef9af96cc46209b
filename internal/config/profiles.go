package config

import (
	"sort"

	"github.com/cockroachdb/errors"
)

type profile struct {
	maxSpeedMBps float64
	chunkSize    string
	noSync       bool
}

var profiles = map[string]profile{
	// бережный режим для рабочих машин
	"safe": {
		maxSpeedMBps: 50,
		chunkSize:    "4MiB",
	},
	"balanced": {
		maxSpeedMBps: 0,
		chunkSize:    "8MiB",
	},
	"fast": {
		maxSpeedMBps: 0,
		chunkSize:    "64MiB",
	},
}

// ProfileNames возвращает имена профилей в алфавитном порядке
func ProfileNames() []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyProfile применяет профиль производительности к конфигурации.
// Режим и число проходов профиль не меняет.
func ApplyProfile(cfg *Config, name string) error {
	p, ok := profiles[name]
	if !ok {
		return errors.WithHint(
			errors.Newf("unknown profile: %s", name),
			"use one of: balanced, fast, safe")
	}

	cfg.Wipe.MaxSpeedMBps = p.maxSpeedMBps
	cfg.Wipe.ChunkSize = p.chunkSize
	cfg.Wipe.NoSync = p.noSync
	return nil
}
