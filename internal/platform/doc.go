// Package platform talks to the hosted dataset-curation service.
//
// The service is an external collaborator reached over a small
// request/response surface: submit a dataset manifest, receive a handle.
// Manifest construction converts COCO records into platform samples with
// gs:// filepaths and normalized detections; images themselves never move
// through this package.
package platform
