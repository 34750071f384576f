package surface

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/dmitrymomot/regform/pkg/form"
)

// Signal names written by Signals. Field-level signals are nested under the
// field id, e.g. {"errors": {"email": "Email required"}}.
const (
	SignalForm       = "form"
	SignalErrors     = "errors"
	SignalInvalid    = "invalid"
	SignalOptions    = "options"
	SignalCanSubmit  = "canSubmit"
	SignalFocus      = "focus"
	SignalFocusSeq   = "focusSeq"
	SignalBanner     = "banner"
	SignalStrength   = "strength"
	bannerVisibleKey = "visible"
	bannerMessageKey = "message"
)

// ErrInvalidSignals is returned when client signals cannot be decoded.
var ErrInvalidSignals = errors.New("invalid form signals")

// Banner is the banner signal.
type Banner struct {
	Visible bool   `json:"visible"`
	Message string `json:"message"`
}

// Signals is a form.Surface backed by datastar signals. Values come from the
// client through Load; writes accumulate in a merge patch taken with
// TakePatch. Signals is not safe for concurrent use.
//
// Every Focus call also bumps the focusSeq signal, so a client watching it
// re-focuses even when the target field has not changed.
type Signals struct {
	values   map[form.FieldID]form.Value
	patch    map[string]any
	focusSeq int
}

func NewSignals() *Signals {
	return &Signals{
		values: make(map[form.FieldID]form.Value),
		patch:  make(map[string]any),
	}
}

type clientSignals struct {
	Form map[string]json.RawMessage `json:"form"`
}

// Load reads the "form" signal from a datastar request and replaces the
// known field values with it. Unknown fields and missing values are ignored.
func (s *Signals) Load(r *http.Request) error {
	var in clientSignals
	if err := datastar.ReadSignals(r, &in); err != nil {
		return errors.Join(ErrInvalidSignals, err)
	}
	return s.LoadFields(in.Form)
}

// LoadFields decodes raw field signals keyed by field id.
func (s *Signals) LoadFields(raw map[string]json.RawMessage) error {
	for key, msg := range raw {
		id := form.FieldID(key)
		if !id.Valid() {
			continue
		}
		v, err := decodeValue(id, msg)
		if err != nil {
			return errors.Join(ErrInvalidSignals, fmt.Errorf("%s: %w", id, err))
		}
		s.values[id] = v
	}
	return nil
}

func decodeValue(id form.FieldID, msg json.RawMessage) (form.Value, error) {
	var v form.Value
	switch id.Kind() {
	case form.KindCheckbox:
		err := json.Unmarshal(msg, &v.Checked)
		return v, err
	case form.KindCheckgroup:
		err := json.Unmarshal(msg, &v.Choices)
		return v, err
	default:
		err := json.Unmarshal(msg, &v.Text)
		return v, err
	}
}

func encodeValue(id form.FieldID, v form.Value) any {
	switch id.Kind() {
	case form.KindCheckbox:
		return v.Checked
	case form.KindCheckgroup:
		if v.Choices == nil {
			return []string{}
		}
		return slices.Clone(v.Choices)
	default:
		return v.Text
	}
}

func (s *Signals) Value(id form.FieldID) form.Value {
	v := s.values[id]
	v.Choices = slices.Clone(v.Choices)
	return v
}

func (s *Signals) SetValue(id form.FieldID, v form.Value) {
	v.Choices = slices.Clone(v.Choices)
	s.values[id] = v
	s.setField(SignalForm, id, encodeValue(id, v))
}

func (s *Signals) SetOptions(id form.FieldID, opts []form.SelectOption) {
	if opts == nil {
		opts = []form.SelectOption{}
	}
	s.setField(SignalOptions, id, slices.Clone(opts))
}

func (s *Signals) SetErrorState(id form.FieldID, invalid bool, message string) {
	s.setField(SignalErrors, id, message)
	s.setField(SignalInvalid, id, invalid)
}

func (s *Signals) SetSubmitEnabled(enabled bool) {
	s.patch[SignalCanSubmit] = enabled
}

func (s *Signals) Focus(id form.FieldID) {
	s.focusSeq++
	s.patch[SignalFocus] = id.String()
	s.patch[SignalFocusSeq] = s.focusSeq
}

func (s *Signals) ShowSuccessBanner(message string) {
	s.patch[SignalBanner] = Banner{Visible: true, Message: message}
}

func (s *Signals) HideSuccessBanner() {
	s.patch[SignalBanner] = map[string]any{bannerVisibleKey: false}
}

func (s *Signals) ShowPasswordStrength(st form.Strength) {
	s.patch[SignalStrength] = st
}

// Pending reports whether writes are waiting to be taken.
func (s *Signals) Pending() bool {
	return len(s.patch) > 0
}

// TakePatch returns the accumulated merge patch as JSON and starts a new one.
// It returns nil when nothing was written.
func (s *Signals) TakePatch() ([]byte, error) {
	if len(s.patch) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(s.patch)
	if err != nil {
		return nil, fmt.Errorf("marshal signal patch: %w", err)
	}
	s.patch = make(map[string]any)
	return data, nil
}

// Flush sends the accumulated patch as a datastar PatchSignals event.
func (s *Signals) Flush(sse *datastar.ServerSentEventGenerator) error {
	data, err := s.TakePatch()
	if err != nil || data == nil {
		return err
	}
	return sse.PatchSignals(data)
}

func (s *Signals) setField(group string, id form.FieldID, value any) {
	m, ok := s.patch[group].(map[string]any)
	if !ok {
		m = make(map[string]any)
		s.patch[group] = m
	}
	m[id.String()] = value
}

// Snapshot returns the current values keyed by field id in signal encoding.
func (s *Signals) Snapshot() map[string]any {
	out := make(map[string]any, len(s.values))
	for _, id := range form.FieldIDs() {
		out[id.String()] = encodeValue(id, s.values[id])
	}
	return out
}
