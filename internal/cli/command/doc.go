// Package command defines the gridmap-cli command tree.
package command
