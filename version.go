package espalier

import _ "embed"

// Version is the library version, embedded from version.txt so release
// tooling can bump it without touching code. Trim before display.
//
//go:embed version.txt
var Version string
