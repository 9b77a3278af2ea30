// Command fathomsync moves a COCO-format FathomNet dataset into Google Cloud
// Storage and a hosted dataset-curation platform.
//
// Subcommands select one of the mutually exclusive workflows at startup:
// download (crop annotations locally and write a CSV manifest), upload
// (stream original images to the object store), ingest (register the dataset
// with the hosted platform), auth (verify credentials), and config
// (inspect or initialize the TOML configuration).
package main
