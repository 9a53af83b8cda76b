/*
Package config loads enumeration settings from YAML or JSON files.

# Overview

Config wraps a map[string]any and provides typed accessors that return a
default when a key is missing or has the wrong type. Settings is the
typed view the CLI and enumerator consume.

# File Format

	length: 8            # candidate length, 4..11
	workers: 8           # concurrent shard workers
	shard_depth: 2       # prefix length used to partition the search, 1..4
	output: data/nerdlegame/possible.txt
	checkpoint: nerdlegen.db
	run_id: nerdle-8
	log_level: info      # debug, info, warn, error
	log_format: text     # text, json
	metrics: false
	tracing: false
	progress_interval: 30s

Load a file and build Settings over the defaults. LoadSettings rejects
keys it does not know and values of the wrong type:

	settings, err := config.LoadSettings("nerdlegen.yaml")
	if err != nil {
	    log.Fatal(err)
	}
	if err := settings.Validate(); err != nil {
	    log.Fatal(err)
	}

# Thread Safety

Config is safe for concurrent read access. The underlying map is not
modified after creation.
*/
package config
