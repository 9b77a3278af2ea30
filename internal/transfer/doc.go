// Package transfer runs the bounded concurrent asset pipeline.
//
// A Pipeline takes a batch of Tasks, fetches each source URL over HTTP, and
// hands the bytes to a Destination (local crop-and-save or object-store
// upload). A shared Budget caps the number of in-flight transfers; a slot is
// acquired before a task starts and released unconditionally when it
// finishes. Individual failures are logged and counted, never fatal to the
// batch, and the run ends with a Summary of outcomes.
package transfer
