// Package formserver hosts registration forms over HTTP for datastar front
// ends.
//
// Every form lives in a session identified by a UUID. A session pairs a
// surface.Signals with a form.Orchestrator and is guarded by a mutex, so
// requests and the delayed banner dismissal never run concurrently on the same
// form. Routes:
//
//	POST   /forms                              create a session
//	GET    /forms/{id}/stream                  SSE stream of signal patches
//	POST   /forms/{id}/fields/{field}/input    value changed
//	POST   /forms/{id}/fields/{field}/blur     focus left a field
//	POST   /forms/{id}/validate                full validation pass
//	POST   /forms/{id}/submit                  submit
//	POST   /forms/{id}/reset                   clear the form
//	DELETE /forms/{id}                         discard the session
//	GET    /health                             readiness check
//
// Each POST reads the datastar signals of the request and answers with a
// PatchSignals event. The same patch is published to the session's open
// streams, together with patches produced outside a request. Sessions idle
// for longer than the TTL are swept by RunJanitor.
package formserver
