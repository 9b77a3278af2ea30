// Package gcs wraps the Google Cloud Storage client for the stream-upload
// path.
//
// It owns bucket/key addressing, the one-shot prefix listing used to skip
// already-uploaded objects, the auth verification behind `fathomsync auth`,
// and the Destination adapter the transfer pipeline streams into. Uploads
// carry a does-not-exist precondition so concurrent runs cannot clobber each
// other.
package gcs
