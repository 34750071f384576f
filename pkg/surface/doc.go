// Package surface provides form.Surface implementations.
//
// Memory keeps everything in memory and exposes getters for what the
// orchestrator wrote; the CLI and tests use it. Signals bridges the form to a
// datastar front end: values arrive as client signals and every write is
// collected into a JSON merge patch that the caller sends back with
// PatchSignals.
package surface
