// Package cropstore persists cropped annotation regions to a local output
// directory and records (path, label) rows in a CSV manifest.
//
// The store is the local-mode destination for the transfer pipeline. The CSV
// is loaded once at open so re-runs skip rows that already exist, and the
// output directory is guarded by a file lock so two runs cannot interleave
// appends.
package cropstore
