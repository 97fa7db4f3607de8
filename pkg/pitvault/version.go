// Package pitvault carries module-level metadata shared by the CLI and
// build tooling.
package pitvault

// Version is the pitvault release version.
const Version = "0.1.0"
