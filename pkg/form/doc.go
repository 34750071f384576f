// Package form implements the registration form validation engine.
//
// The form has a fixed set of twelve fields (see FieldIDs). Each field has a
// pure Rule that maps the whole FieldSet to a Verdict; rules are evaluated as
// an ordered chain of checks and the first failing check decides the Reason
// and Message. A static dependency table (DefaultEdges) declares which fields
// must be re-evaluated when another changes, e.g. country invalidates city and
// phone.
//
// The Orchestrator reacts to UI events through a Surface, the abstract UI the
// form reads values from and writes annotations to:
//
//	o, err := form.New(surface, form.WithReference(refdata.Default()))
//	if err != nil {
//	    return err
//	}
//	_ = o.Edit(ctx, form.Country) // repopulates cities, re-validates city and phone
//	res := o.Submit(ctx)          // focuses the first invalid field or resets the form
//
// After every event the orchestrator runs a full pass over all fields and
// enables submit only when every field is valid. A successful submission
// shows a success banner, clears the form and hides the banner after the
// dismiss delay (3.5s by default) through a Scheduler.
//
// Password strength (EvaluateStrength) is a separate UI signal reported to
// surfaces implementing StrengthReporter. It never affects validity.
//
// An Orchestrator is not safe for concurrent use.
package form
