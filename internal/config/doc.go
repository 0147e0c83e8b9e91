// Package config loads sortviz settings from a YAML file.
//
// Loading is two-phase: the file is decoded over Default() (so omitted keys
// keep their defaults), then the merged value is unified with the embedded CUE
// definition #Config. Any constraint violation is reported as a
// *ValidationError listing every failing field.
//
// Example file:
//
//	default_size: 256
//	sizes: [64, 256, 1024]
//	frame_delay_ms: 2
//	database: ~/.local/share/sortviz/runs.db
//	seed: 0          # 0 = random
//	log_level: info
package config
