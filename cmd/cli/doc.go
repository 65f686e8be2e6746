// Package cli constructs the gitshell command-line interface, wiring the
// Cobra command hierarchy, configuration loader, shell executor, and
// structured logging primitives. It exposes helpers to build reusable
// application instances and to execute the default command set as a library.
package cli
