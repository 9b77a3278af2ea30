// Package coco parses COCO-format detection manifests and exposes lookup
// helpers over their images, annotations, and categories.
//
// A manifest is loaded once per run and treated as read-only afterwards.
// Helpers build the id-keyed indexes the transfer and ingestion paths need
// (category names, images by id, annotations grouped by image) so callers
// never walk the raw slices themselves.
package coco
