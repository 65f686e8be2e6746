// Package gitrepo contains helpers for interrogating and manipulating Git repositories.
//
// It resolves filesystem paths into working-tree or bare repositories,
// exposes Repository for structured operations over the git executable, and
// provides the pure parsing routines that turn git's textual output into
// branch, tag, and remote listings.
package gitrepo
