// Package archive handles the deployable code bundles a job ships to the
// cluster: resolving user-supplied archive paths into validated references,
// checking that a file really is a loadable archive, and packaging a
// directory of compiled session artifacts into a fresh archive.
package archive
