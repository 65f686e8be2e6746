// Package execshell provides structured helpers for invoking the git executable.
//
// It wraps os/exec with logging, timeouts, and graceful-failure
// classification via ShellExecutor, exposes OSCommandRunner for default
// process execution, and defines the abstractions gitshell uses to run git
// subprocesses in a testable manner.
package execshell
