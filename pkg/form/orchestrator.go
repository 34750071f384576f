package form

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/regform/pkg/logger"
	"github.com/dmitrymomot/regform/pkg/refdata"
	"github.com/dmitrymomot/regform/pkg/sanitizer"
	"github.com/dmitrymomot/regform/pkg/statemachine"
	"github.com/dmitrymomot/regform/pkg/validator"
)

const (
	DefaultSuccessMessage = "Registration Successful."
	DefaultDismissDelay   = 3500 * time.Millisecond
)

type fieldEvent string

const (
	eventEvaluate fieldEvent = "evaluate"
	eventReset    fieldEvent = "reset"
)

// SubmitResult describes a submission attempt. Fields holds the values and
// verdicts as validated, before any reset.
type SubmitResult struct {
	Submitted bool
	Focused   FieldID
	Invalid   []FieldID
	Fields    FieldSet
}

// Orchestrator validates the form in response to UI events and writes the
// outcome to its Surface.
//
// Orchestrator is not safe for concurrent use. The dismiss callback runs
// through the Scheduler; with RealScheduler that is another goroutine, so
// hosts serving several goroutines must supply a Scheduler that serializes
// callbacks with their other calls.
type Orchestrator struct {
	surface        Surface
	rules          RuleSet
	overrides      RuleSet
	deps           *Dependencies
	catalog        CityCatalog
	disposable     validator.Set[string]
	scheduler      Scheduler
	logger         *slog.Logger
	successMessage string
	dismissDelay   time.Duration

	fields   FieldSet
	machines map[FieldID]*statemachine.Machine[Status, fieldEvent]
	valid    bool
	dismiss  Timer
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithReference uses ref for the city catalog and the disposable domains.
func WithReference(ref *refdata.Reference) Option {
	return func(o *Orchestrator) {
		if ref == nil {
			return
		}
		o.catalog = ref.Catalog
		o.disposable = ref.Disposable
	}
}

func WithCatalog(c CityCatalog) Option {
	return func(o *Orchestrator) {
		if c != nil {
			o.catalog = c
		}
	}
}

// WithDisposableDomains sets the rejected email domains. Nil disables the check.
func WithDisposableDomains(set validator.Set[string]) Option {
	return func(o *Orchestrator) { o.disposable = set }
}

// WithRule replaces the rule of a single field.
func WithRule(id FieldID, rule Rule) Option {
	return func(o *Orchestrator) {
		if rule != nil && id.Valid() {
			o.overrides[id] = rule
		}
	}
}

func WithDependencies(d *Dependencies) Option {
	return func(o *Orchestrator) {
		if d != nil {
			o.deps = d
		}
	}
}

func WithScheduler(s Scheduler) Option {
	return func(o *Orchestrator) {
		if s != nil {
			o.scheduler = s
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

func WithSuccessMessage(msg string) Option {
	return func(o *Orchestrator) {
		if msg != "" {
			o.successMessage = msg
		}
	}
}

func WithDismissDelay(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.dismissDelay = d
		}
	}
}

// New creates an orchestrator over surface. Without options it uses the
// embedded reference data, DefaultEdges and RealScheduler.
func New(surface Surface, opts ...Option) (*Orchestrator, error) {
	if surface == nil {
		return nil, ErrNilSurface
	}

	o := &Orchestrator{
		surface:        surface,
		overrides:      make(RuleSet),
		scheduler:      RealScheduler(),
		logger:         logger.Discard(),
		successMessage: DefaultSuccessMessage,
		dismissDelay:   DefaultDismissDelay,
		fields:         NewFieldSet(),
	}

	ref := refdata.Default()
	o.catalog = ref.Catalog
	o.disposable = ref.Disposable

	for _, opt := range opts {
		opt(o)
	}

	if o.deps == nil {
		o.deps = DefaultDependencies()
	}

	o.rules = DefaultRules(o.disposable)
	for id, rule := range o.overrides {
		o.rules[id] = rule
	}

	o.logger = o.logger.With(logger.Component("form"))
	o.machines = make(map[FieldID]*statemachine.Machine[Status, fieldEvent], fieldCount)
	for _, id := range fieldOrder {
		o.machines[id] = o.newFieldMachine(id)
	}

	return o, nil
}

func (o *Orchestrator) newFieldMachine(id FieldID) *statemachine.Machine[Status, fieldEvent] {
	all := []Status{StatusUnevaluated, StatusValid, StatusInvalid}
	logChange := statemachine.WithAction[Status, fieldEvent](
		func(ctx context.Context, from, to Status, _ fieldEvent, data any) error {
			if from == to {
				return nil
			}
			v, _ := data.(Verdict)
			o.logger.DebugContext(ctx, "field status changed",
				logger.Field(id.String()),
				slog.String("from", string(from)),
				slog.String("to", string(to)),
				logger.Reason(string(v.Reason)),
			)
			return nil
		},
	)

	return statemachine.MustNew(StatusUnevaluated,
		statemachine.WithTransitionFromAny(all, StatusValid, eventEvaluate,
			statemachine.WithGuard(verdictValid), logChange),
		statemachine.WithTransitionFromAny(all, StatusInvalid, eventEvaluate,
			statemachine.WithGuard(verdictInvalid), logChange),
		statemachine.WithTransitionFromAny(all, StatusUnevaluated, eventReset, logChange),
	)
}

func verdictValid(_ context.Context, _ Status, _ fieldEvent, data any) bool {
	v, ok := data.(Verdict)
	return ok && v.Valid
}

func verdictInvalid(_ context.Context, _ Status, _ fieldEvent, data any) bool {
	v, ok := data.(Verdict)
	return ok && !v.Valid
}

// Edit handles a value change of id: it refreshes the values from the
// surface, repopulates the cities on a country change, re-evaluates id and
// its dependents, reports the password strength and runs a full pass.
func (o *Orchestrator) Edit(ctx context.Context, id FieldID) error {
	if !id.Valid() {
		return ErrUnknownField
	}

	o.load()

	if id == Country {
		o.repopulateCities(ctx)
	}

	for _, affected := range o.deps.Affected(id) {
		o.evaluate(ctx, affected)
	}

	if id == Password {
		o.reportStrength(EvaluateStrength(o.fields.Text(Password)))
	}

	o.validateAll(ctx)
	return nil
}

// Blur handles focus leaving id. It re-evaluates id and runs a full pass
// without any side effects.
func (o *Orchestrator) Blur(ctx context.Context, id FieldID) error {
	if !id.Valid() {
		return ErrUnknownField
	}

	o.load()
	o.evaluate(ctx, id)
	o.validateAll(ctx)
	return nil
}

// ValidateAll refreshes the values from the surface, evaluates every field,
// annotates the surface and gates submit. It returns the global validity.
func (o *Orchestrator) ValidateAll(ctx context.Context) bool {
	o.load()
	return o.validateAll(ctx)
}

// Submit validates the form. On failure it focuses the first invalid field
// and keeps every value. On success it shows the banner, resets the form and
// schedules the banner dismissal, replacing any dismissal still pending.
func (o *Orchestrator) Submit(ctx context.Context) SubmitResult {
	o.load()
	valid := o.validateAll(ctx)
	result := SubmitResult{Submitted: valid, Fields: o.fields.Clone()}

	if !valid {
		for _, f := range o.fields.fields {
			if f.Status == StatusInvalid {
				result.Invalid = append(result.Invalid, f.ID)
			}
		}
		if id, ok := o.fields.FirstInvalid(); ok {
			result.Focused = id
			o.surface.Focus(id)
		}
		o.logger.InfoContext(ctx, "submission rejected",
			logger.Event("submit"),
			logger.Fields(fieldStrings(result.Invalid)...),
			logger.Error(o.fields.Err()),
		)
		return result
	}

	o.surface.ShowSuccessBanner(o.successMessage)
	o.surface.SetSubmitEnabled(false)
	o.reset(ctx)
	o.scheduleDismiss()

	o.logger.InfoContext(ctx, "submission accepted",
		logger.Event("submit"),
		slog.String("email", sanitizer.MaskEmail(result.Fields.Text(Email))),
		logger.Duration(o.dismissDelay),
	)
	return result
}

// Reset clears every field back to empty and unevaluated and disables submit.
// A pending banner dismissal is left alone.
func (o *Orchestrator) Reset(ctx context.Context) {
	o.reset(ctx)
	o.surface.SetSubmitEnabled(false)
}

// Stop cancels a pending banner dismissal.
func (o *Orchestrator) Stop() {
	if o.dismiss != nil {
		o.dismiss.Stop()
		o.dismiss = nil
	}
}

// State returns a copy of the current field set.
func (o *Orchestrator) State() FieldSet {
	return o.fields.Clone()
}

// Valid returns the global validity computed by the last full pass.
func (o *Orchestrator) Valid() bool {
	return o.valid
}

// DismissPending reports whether a banner dismissal is scheduled.
func (o *Orchestrator) DismissPending() bool {
	return o.dismiss != nil
}

func (o *Orchestrator) load() {
	for _, id := range fieldOrder {
		_ = o.fields.SetValue(id, o.surface.Value(id))
	}
}

func (o *Orchestrator) repopulateCities(ctx context.Context) {
	var cities []string
	if country := o.fields.Text(Country); country != "" {
		cities = o.catalog.Cities(country)
	}

	o.surface.SetOptions(City, cityOptions(cities))
	o.surface.SetValue(City, Value{})
	_ = o.fields.SetValue(City, Value{})

	o.logger.DebugContext(ctx, "city options replaced",
		logger.Field(City.String()),
		slog.Int("options", len(cities)),
	)
}

func (o *Orchestrator) evaluate(ctx context.Context, id FieldID) Verdict {
	v := o.rules.Evaluate(id, o.fields)

	m := o.machines[id]
	if _, err := m.Fire(ctx, eventEvaluate, v); err != nil {
		o.logger.ErrorContext(ctx, "field transition failed", logger.Field(id.String()), logger.Error(err))
	}

	o.fields.record(id, m.Current(), v)
	o.surface.SetErrorState(id, !v.Valid, v.Message)
	return v
}

func (o *Orchestrator) validateAll(ctx context.Context) bool {
	for _, id := range fieldOrder {
		o.evaluate(ctx, id)
	}
	o.valid = o.fields.Valid()
	o.surface.SetSubmitEnabled(o.valid)
	return o.valid
}

func (o *Orchestrator) reset(ctx context.Context) {
	for _, id := range fieldOrder {
		if _, err := o.machines[id].Fire(ctx, eventReset, Verdict{}); err != nil {
			o.logger.ErrorContext(ctx, "field reset failed", logger.Field(id.String()), logger.Error(err))
		}
		o.surface.SetValue(id, Value{})
		o.surface.SetErrorState(id, false, "")
	}
	o.fields.reset()
	o.surface.SetOptions(City, []SelectOption{})
	o.reportStrength(EvaluateStrength(""))
	o.valid = false
}

func (o *Orchestrator) scheduleDismiss() {
	o.Stop()

	var t Timer
	t = o.scheduler.AfterFunc(o.dismissDelay, func() {
		if o.dismiss != t {
			return
		}
		o.dismiss = nil
		o.surface.HideSuccessBanner()
	})
	o.dismiss = t
}

func (o *Orchestrator) reportStrength(s Strength) {
	if r, ok := o.surface.(StrengthReporter); ok {
		r.ShowPasswordStrength(s)
	}
}

func fieldStrings(ids []FieldID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
