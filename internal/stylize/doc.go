// Package stylize runs the style-transfer pipeline for one request:
// decode, preprocess, forward pass, postprocess, encode.
//
//   - config.go: Config and package defaults; NewWithConfig applies defaults.
//   - service.go: Service type, readiness, model listing and metadata.
//   - errors.go: typed errors and predicates (IsInvalidImage, IsTooBusy, ...).
//   - admission.go: optional bound on concurrent forward passes.
//   - pipeline.go: Preprocess, Infer, Postprocess and Stylize.
//   - events.go, eventpub_*.go: lifecycle events and publishers.
//   - status.go: Status reporting.
//   - metrics.go: Prometheus inference collectors.
//
// The HTTP layer depends only on the exported methods of Service.
package stylize
