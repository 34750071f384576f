package form_test

import (
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/regform/pkg/form"
)

// MockSurface is a mock implementation of form.Surface.
type MockSurface struct {
	mock.Mock
}

func (m *MockSurface) Value(id form.FieldID) form.Value {
	args := m.Called(id)
	return args.Get(0).(form.Value)
}

func (m *MockSurface) SetValue(id form.FieldID, v form.Value) {
	m.Called(id, v)
}

func (m *MockSurface) SetOptions(id form.FieldID, opts []form.SelectOption) {
	m.Called(id, opts)
}

func (m *MockSurface) SetErrorState(id form.FieldID, invalid bool, message string) {
	m.Called(id, invalid, message)
}

func (m *MockSurface) SetSubmitEnabled(enabled bool) {
	m.Called(enabled)
}

func (m *MockSurface) Focus(id form.FieldID) {
	m.Called(id)
}

func (m *MockSurface) ShowSuccessBanner(message string) {
	m.Called(message)
}

func (m *MockSurface) HideSuccessBanner() {
	m.Called()
}

// fakeScheduler runs callbacks when Advance moves its clock past them.
type fakeScheduler struct {
	now    time.Duration
	timers []*fakeTimer
}

type fakeTimer struct {
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) form.Timer {
	t := &fakeTimer{at: s.now + d, f: f}
	s.timers = append(s.timers, t)
	return t
}

func (s *fakeScheduler) Advance(d time.Duration) {
	s.now += d
	for _, t := range s.timers {
		if !t.stopped && !t.fired && t.at <= s.now {
			t.fired = true
			t.f()
		}
	}
}

func (s *fakeScheduler) Pending() int {
	n := 0
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

func validValues() map[form.FieldID]form.Value {
	return map[form.FieldID]form.Value{
		form.FirstName:       form.Text("Jane"),
		form.LastName:        form.Text("Doe"),
		form.Email:           form.Text("jane@example.com"),
		form.Country:         form.Text("US"),
		form.City:            form.Text("Chicago"),
		form.Phone:           form.Text("5551234567"),
		form.Age:             form.Text("30"),
		form.Address:         form.Text("123 Main Street"),
		form.Password:        form.Text("Abcd1234"),
		form.ConfirmPassword: form.Text("Abcd1234"),
		form.Gender:          form.Choices("female"),
		form.Terms:           form.Checked(true),
	}
}

func fieldSet(values map[form.FieldID]form.Value) form.FieldSet {
	fs := form.NewFieldSet()
	for id, v := range values {
		if err := fs.SetValue(id, v); err != nil {
			panic(err)
		}
	}
	return fs
}
