package surface

import (
	"slices"
	"sync"

	"github.com/dmitrymomot/regform/pkg/form"
)

// ErrorState is the error annotation of a field.
type ErrorState struct {
	Invalid bool
	Message string
}

// Memory is an in-memory form.Surface. It is safe for concurrent use.
type Memory struct {
	mu            sync.RWMutex
	values        map[form.FieldID]form.Value
	options       map[form.FieldID][]form.SelectOption
	errors        map[form.FieldID]ErrorState
	submitEnabled bool
	focused       []form.FieldID
	banner        string
	bannerVisible bool
	strength      form.Strength
}

// NewMemory returns an empty surface with submit disabled.
func NewMemory() *Memory {
	return &Memory{
		values:   make(map[form.FieldID]form.Value),
		options:  make(map[form.FieldID][]form.SelectOption),
		errors:   make(map[form.FieldID]ErrorState),
		strength: form.EvaluateStrength(""),
	}
}

// Fill sets several values at once, as a user would by typing.
func (m *Memory) Fill(values map[form.FieldID]form.Value) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, v := range values {
		m.values[id] = cloneValue(v)
	}
}

func (m *Memory) Value(id form.FieldID) form.Value {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneValue(m.values[id])
}

func (m *Memory) SetValue(id form.FieldID, v form.Value) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[id] = cloneValue(v)
}

func (m *Memory) SetOptions(id form.FieldID, opts []form.SelectOption) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.options[id] = slices.Clone(opts)
}

func (m *Memory) SetErrorState(id form.FieldID, invalid bool, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[id] = ErrorState{Invalid: invalid, Message: message}
}

func (m *Memory) SetSubmitEnabled(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.submitEnabled = enabled
}

func (m *Memory) Focus(id form.FieldID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.focused = append(m.focused, id)
}

func (m *Memory) ShowSuccessBanner(message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.banner = message
	m.bannerVisible = true
}

func (m *Memory) HideSuccessBanner() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bannerVisible = false
}

func (m *Memory) ShowPasswordStrength(s form.Strength) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.strength = s
}

// Options returns the options last set for id.
func (m *Memory) Options(id form.FieldID) []form.SelectOption {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.options[id])
}

// ErrorState returns the annotation last set for id.
func (m *Memory) ErrorState(id form.FieldID) ErrorState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.errors[id]
}

func (m *Memory) SubmitEnabled() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.submitEnabled
}

// Focused returns the last focused field, if any.
func (m *Memory) Focused() (form.FieldID, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.focused) == 0 {
		return "", false
	}
	return m.focused[len(m.focused)-1], true
}

// FocusCount returns how many times focus was requested.
func (m *Memory) FocusCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.focused)
}

// Banner returns the last banner message and whether it is visible.
func (m *Memory) Banner() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.banner, m.bannerVisible
}

func (m *Memory) Strength() form.Strength {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.strength
}

func cloneValue(v form.Value) form.Value {
	v.Choices = slices.Clone(v.Choices)
	return v
}
