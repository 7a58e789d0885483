// Package confloader provides configuration loading for GridMap.
//
// It layers koanf providers so that later sources override earlier ones:
// defaults, then a YAML file, then GRIDMAP_-prefixed environment
// variables. A companion fsnotify watcher triggers reload callbacks when
// the configuration file changes on disk.
package confloader
