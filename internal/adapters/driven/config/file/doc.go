// Package file provides TOML configuration loading for Sibyl.
// Settings are read from ~/.sibyl/config.toml and overlaid onto the
// built-in defaults; a missing file yields the defaults unchanged.
package file
