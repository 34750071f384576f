package form_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/regform/pkg/form"
	"github.com/dmitrymomot/regform/pkg/logger"
	"github.com/dmitrymomot/regform/pkg/surface"
	"github.com/dmitrymomot/regform/pkg/validator"
)

func newOrchestrator(t *testing.T, opts ...form.Option) (*form.Orchestrator, *surface.Memory, *fakeScheduler) {
	t.Helper()
	mem := surface.NewMemory()
	sched := &fakeScheduler{}
	o, err := form.New(mem, append([]form.Option{form.WithScheduler(sched)}, opts...)...)
	require.NoError(t, err)
	return o, mem, sched
}

func usCities() []form.SelectOption {
	return []form.SelectOption{
		{Label: "New York", Value: "New York"},
		{Label: "Los Angeles", Value: "Los Angeles"},
		{Label: "Chicago", Value: "Chicago"},
		{Label: "Houston", Value: "Houston"},
		{Label: "San Francisco", Value: "San Francisco"},
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	_, err := form.New(nil)
	assert.ErrorIs(t, err, form.ErrNilSurface)

	o, mem, _ := newOrchestrator(t)
	assert.False(t, o.Valid())
	assert.False(t, o.DismissPending())
	for _, f := range o.State().Fields() {
		assert.Equal(t, form.StatusUnevaluated, f.Status)
	}
	assert.False(t, mem.SubmitEnabled())
}

func TestValidateAll(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("annotates every field of an empty form", func(t *testing.T) {
		o, mem, _ := newOrchestrator(t)

		assert.False(t, o.ValidateAll(ctx))
		assert.False(t, o.Valid())
		assert.False(t, mem.SubmitEnabled())

		for _, f := range o.State().Fields() {
			assert.Equal(t, form.StatusInvalid, f.Status, f.ID)
			assert.Equal(t, form.ReasonRequired, f.Reason, f.ID)
			state := mem.ErrorState(f.ID)
			assert.True(t, state.Invalid, f.ID)
			assert.Equal(t, f.Message, state.Message, f.ID)
		}
	})

	t.Run("enables submit when everything is valid", func(t *testing.T) {
		o, mem, _ := newOrchestrator(t)
		mem.Fill(validValues())

		assert.True(t, o.ValidateAll(ctx))
		assert.True(t, mem.SubmitEnabled())
		for _, id := range form.FieldIDs() {
			assert.Equal(t, surface.ErrorState{}, mem.ErrorState(id), id)
		}
	})

	t.Run("is idempotent", func(t *testing.T) {
		o, mem, _ := newOrchestrator(t)
		values := validValues()
		values[form.Email] = form.Text("user@mailinator.com")
		values[form.Age] = form.Text("9")
		mem.Fill(values)

		first := o.ValidateAll(ctx)
		state := o.State()
		errs := make(map[form.FieldID]surface.ErrorState)
		for _, id := range form.FieldIDs() {
			errs[id] = mem.ErrorState(id)
		}

		for range 3 {
			assert.Equal(t, first, o.ValidateAll(ctx))
			assert.Equal(t, state, o.State())
			for _, id := range form.FieldIDs() {
				assert.Equal(t, errs[id], mem.ErrorState(id), id)
			}
		}
		assert.Equal(t, form.ReasonDisposableDomain, state.Field(form.Email).Reason)
		assert.Equal(t, form.ReasonOutOfRange, state.Field(form.Age).Reason)
	})
}

func TestEdit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("unknown field", func(t *testing.T) {
		o, _, _ := newOrchestrator(t)
		assert.ErrorIs(t, o.Edit(ctx, "nickname"), form.ErrUnknownField)
		assert.ErrorIs(t, o.Blur(ctx, "nickname"), form.ErrUnknownField)
	})

	t.Run("country change repopulates and resets city", func(t *testing.T) {
		o, mem, _ := newOrchestrator(t)
		mem.Fill(map[form.FieldID]form.Value{
			form.Country: form.Text("CA"),
			form.City:    form.Text("Toronto"),
			form.Phone:   form.Text("5551234567"),
		})

		mem.SetValue(form.Country, form.Text("US"))
		require.NoError(t, o.Edit(ctx, form.Country))

		assert.Equal(t, usCities(), mem.Options(form.City))
		assert.Equal(t, form.Value{}, mem.Value(form.City))
		city := o.State().Field(form.City)
		assert.Empty(t, city.Value.Text)
		assert.Equal(t, form.StatusInvalid, city.Status)
		assert.Equal(t, "Please select a city", mem.ErrorState(form.City).Message)
		assert.Equal(t, form.StatusValid, o.State().Field(form.Phone).Status)
	})

	t.Run("country change always resets even with a valid city", func(t *testing.T) {
		o, mem, _ := newOrchestrator(t)
		mem.Fill(map[form.FieldID]form.Value{form.Country: form.Text("US"), form.City: form.Text("Chicago")})

		require.NoError(t, o.Edit(ctx, form.Country))
		assert.Empty(t, mem.Value(form.City).Text)
		assert.Equal(t, usCities(), mem.Options(form.City))
	})

	t.Run("clearing the country empties the options and invalidates phone", func(t *testing.T) {
		o, mem, _ := newOrchestrator(t)
		mem.Fill(map[form.FieldID]form.Value{form.Country: form.Text("US"), form.Phone: form.Text("5551234567")})
		require.NoError(t, o.Edit(ctx, form.Country))
		require.Equal(t, form.StatusValid, o.State().Field(form.Phone).Status)

		mem.SetValue(form.Country, form.Text(""))
		require.NoError(t, o.Edit(ctx, form.Country))

		assert.Empty(t, mem.Options(form.City))
		phone := o.State().Field(form.Phone)
		assert.Equal(t, form.StatusInvalid, phone.Status)
		assert.Equal(t, form.ReasonCountryRequired, phone.Reason)
	})

	t.Run("unknown country yields no cities", func(t *testing.T) {
		o, mem, _ := newOrchestrator(t)
		mem.SetValue(form.Country, form.Text("FR"))
		require.NoError(t, o.Edit(ctx, form.Country))
		assert.Empty(t, mem.Options(form.City))
	})

	t.Run("password edit reports strength", func(t *testing.T) {
		o, mem, _ := newOrchestrator(t)

		mem.SetValue(form.Password, form.Text("Abc12345"))
		require.NoError(t, o.Edit(ctx, form.Password))
		assert.Equal(t, form.Strength{Score: 3, Label: form.StrengthMedium}, mem.Strength())
		assert.Equal(t, form.StatusValid, o.State().Field(form.Password).Status)

		mem.SetValue(form.Password, form.Text("abc"))
		require.NoError(t, o.Edit(ctx, form.Password))
		assert.Equal(t, form.Strength{Score: 0, Label: form.StrengthWeak}, mem.Strength())
		assert.Equal(t, form.ReasonTooShort, o.State().Field(form.Password).Reason)

		mem.SetValue(form.Password, form.Text("Abc123$xyz"))
		require.NoError(t, o.Edit(ctx, form.Password))
		assert.Equal(t, form.Strength{Score: 4, Label: form.StrengthStrong}, mem.Strength())
		assert.Equal(t, form.StatusValid, o.State().Field(form.Password).Status)
	})

	t.Run("confirm flips to valid when password catches up", func(t *testing.T) {
		o, mem, _ := newOrchestrator(t)
		mem.Fill(map[form.FieldID]form.Value{
			form.Password:        form.Text("Abcd1234"),
			form.ConfirmPassword: form.Text("Abcd12345"),
		})

		require.NoError(t, o.Edit(ctx, form.ConfirmPassword))
		confirm := o.State().Field(form.ConfirmPassword)
		assert.Equal(t, form.StatusInvalid, confirm.Status)
		assert.Equal(t, form.ReasonMismatch, confirm.Reason)
		assert.Equal(t, "Passwords do not match", mem.ErrorState(form.ConfirmPassword).Message)

		mem.SetValue(form.Password, form.Text("Abcd12345"))
		require.NoError(t, o.Edit(ctx, form.Password))
		assert.Equal(t, form.StatusValid, o.State().Field(form.ConfirmPassword).Status)
		assert.Equal(t, surface.ErrorState{}, mem.ErrorState(form.ConfirmPassword))
	})

	t.Run("submit gating follows every edit", func(t *testing.T) {
		o, mem, _ := newOrchestrator(t)
		values := validValues()
		values[form.Terms] = form.Checked(false)
		mem.Fill(values)

		require.NoError(t, o.Edit(ctx, form.FirstName))
		assert.False(t, mem.SubmitEnabled())

		mem.SetValue(form.Terms, form.Checked(true))
		require.NoError(t, o.Edit(ctx, form.Terms))
		assert.True(t, mem.SubmitEnabled())
		assert.True(t, o.Valid())
	})

	t.Run("blur validates without side effects", func(t *testing.T) {
		o, mem, _ := newOrchestrator(t)
		mem.Fill(map[form.FieldID]form.Value{form.Country: form.Text("US"), form.City: form.Text("Chicago")})

		require.NoError(t, o.Blur(ctx, form.Country))
		assert.Equal(t, "Chicago", mem.Value(form.City).Text)
		assert.Nil(t, mem.Options(form.City))
		assert.Equal(t, form.StatusValid, o.State().Field(form.City).Status)
	})
}

func TestSubmit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("successful submission resets the form", func(t *testing.T) {
		o, mem, sched := newOrchestrator(t)
		mem.Fill(validValues())
		mem.SetValue(form.Country, form.Text("US"))
		require.NoError(t, o.Edit(ctx, form.Country))
		mem.SetValue(form.City, form.Text("Chicago"))
		require.NoError(t, o.Edit(ctx, form.City))
		require.True(t, mem.SubmitEnabled())

		res := o.Submit(ctx)

		require.True(t, res.Submitted)
		assert.Empty(t, res.Invalid)
		assert.Empty(t, res.Focused)
		assert.True(t, res.Fields.Valid())
		assert.Equal(t, "Jane", res.Fields.Text(form.FirstName))

		msg, visible := mem.Banner()
		assert.True(t, visible)
		assert.Equal(t, "Registration Successful.", msg)
		assert.False(t, mem.SubmitEnabled())
		assert.False(t, o.Valid())
		assert.Equal(t, 0, mem.FocusCount())

		for _, f := range o.State().Fields() {
			assert.Equal(t, form.StatusUnevaluated, f.Status, f.ID)
			assert.True(t, f.Value.IsZero(), f.ID)
			assert.Empty(t, f.Message, f.ID)
			assert.True(t, mem.Value(f.ID).IsZero(), f.ID)
			assert.Equal(t, surface.ErrorState{}, mem.ErrorState(f.ID), f.ID)
		}
		assert.Empty(t, mem.Options(form.City))
		assert.Equal(t, form.Strength{Score: 0, Label: form.StrengthWeak}, mem.Strength())

		assert.True(t, o.DismissPending())
		assert.Equal(t, 1, sched.Pending())

		sched.Advance(3499 * time.Millisecond)
		_, visible = mem.Banner()
		assert.True(t, visible)

		sched.Advance(time.Millisecond)
		_, visible = mem.Banner()
		assert.False(t, visible)
		assert.False(t, mem.SubmitEnabled())
		assert.False(t, o.DismissPending())
	})

	t.Run("only terms unchecked blocks submission", func(t *testing.T) {
		o, mem, sched := newOrchestrator(t)
		values := validValues()
		values[form.Terms] = form.Checked(false)
		mem.Fill(values)

		res := o.Submit(ctx)

		assert.False(t, res.Submitted)
		assert.Equal(t, form.Terms, res.Focused)
		assert.Equal(t, []form.FieldID{form.Terms}, res.Invalid)

		focused, ok := mem.Focused()
		require.True(t, ok)
		assert.Equal(t, form.Terms, focused)

		_, visible := mem.Banner()
		assert.False(t, visible)
		assert.False(t, mem.SubmitEnabled())
		assert.Equal(t, 0, sched.Pending())
		assert.Equal(t, "Jane", mem.Value(form.FirstName).Text)
		assert.Equal(t, "Jane", o.State().Text(form.FirstName))
		assert.Equal(t, "You must accept terms", mem.ErrorState(form.Terms).Message)

		err := res.Fields.Err()
		require.ErrorIs(t, err, validator.ErrValidationFailed)
		errs := validator.ExtractValidationErrors(err)
		assert.Equal(t, []string{"terms"}, errs.Fields())
		assert.Equal(t, string(form.ReasonRequired), errs[0].Code)
	})

	t.Run("accepted submission has no field errors", func(t *testing.T) {
		o, mem, _ := newOrchestrator(t)
		mem.Fill(validValues())
		assert.NoError(t, o.Submit(ctx).Fields.Err())
	})

	t.Run("focuses first invalid field in declaration order", func(t *testing.T) {
		o, mem, _ := newOrchestrator(t)
		values := validValues()
		values[form.Gender] = form.Choices()
		values[form.Email] = form.Text("not-an-email")
		values[form.Age] = form.Text("200")
		mem.Fill(values)

		res := o.Submit(ctx)
		assert.Equal(t, form.Email, res.Focused)
		assert.Equal(t, []form.FieldID{form.Email, form.Age, form.Gender}, res.Invalid)
	})

	t.Run("new submission replaces the pending dismissal", func(t *testing.T) {
		o, mem, sched := newOrchestrator(t)

		mem.Fill(validValues())
		require.True(t, o.Submit(ctx).Submitted)
		sched.Advance(2 * time.Second)

		mem.Fill(validValues())
		require.True(t, o.Submit(ctx).Submitted)
		assert.Equal(t, 1, sched.Pending())

		sched.Advance(1500 * time.Millisecond)
		_, visible := mem.Banner()
		assert.True(t, visible, "first timer must not hide the second banner")

		sched.Advance(2 * time.Second)
		_, visible = mem.Banner()
		assert.False(t, visible)
		assert.Equal(t, 0, sched.Pending())
	})

	t.Run("custom message and delay", func(t *testing.T) {
		o, mem, sched := newOrchestrator(t,
			form.WithSuccessMessage("Welcome aboard"),
			form.WithDismissDelay(time.Second),
		)
		mem.Fill(validValues())
		require.True(t, o.Submit(ctx).Submitted)

		msg, _ := mem.Banner()
		assert.Equal(t, "Welcome aboard", msg)

		sched.Advance(time.Second)
		_, visible := mem.Banner()
		assert.False(t, visible)
	})

	t.Run("stop cancels the pending dismissal", func(t *testing.T) {
		o, mem, sched := newOrchestrator(t)
		mem.Fill(validValues())
		require.True(t, o.Submit(ctx).Submitted)

		o.Stop()
		assert.False(t, o.DismissPending())
		sched.Advance(time.Hour)
		_, visible := mem.Banner()
		assert.True(t, visible)
	})
}

func TestSubmit_SurfaceCalls(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	values := validValues()
	values[form.Terms] = form.Checked(false)

	m := &MockSurface{}
	for id, v := range values {
		m.On("Value", id).Return(v)
	}
	m.On("SetErrorState", mock.Anything, false, "").Return()
	m.On("SetErrorState", form.Terms, true, "You must accept terms").Return().Once()
	m.On("SetSubmitEnabled", false).Return()
	m.On("Focus", form.Terms).Return().Once()

	o, err := form.New(m, form.WithScheduler(&fakeScheduler{}))
	require.NoError(t, err)

	res := o.Submit(ctx)
	assert.False(t, res.Submitted)

	m.AssertExpectations(t)
	m.AssertNotCalled(t, "ShowSuccessBanner", mock.Anything)
	m.AssertNotCalled(t, "SetValue", mock.Anything, mock.Anything)
	m.AssertNotCalled(t, "SetOptions", mock.Anything, mock.Anything)
}

func TestOptions(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("rule override", func(t *testing.T) {
		o, mem, _ := newOrchestrator(t, form.WithRule(form.Address, func(form.FieldSet) form.Verdict {
			return form.Verdict{Valid: true}
		}))
		values := validValues()
		values[form.Address] = form.Text("")
		mem.Fill(values)
		assert.True(t, o.ValidateAll(ctx))
	})

	t.Run("disposable check disabled", func(t *testing.T) {
		o, mem, _ := newOrchestrator(t, form.WithDisposableDomains(nil))
		values := validValues()
		values[form.Email] = form.Text("user@mailinator.com")
		mem.Fill(values)
		assert.True(t, o.ValidateAll(ctx))
	})

	t.Run("custom catalog", func(t *testing.T) {
		catalog := catalogFunc(func(country string) []string {
			if country == "DE" {
				return []string{"Berlin"}
			}
			return nil
		})
		o, mem, _ := newOrchestrator(t, form.WithCatalog(catalog))
		mem.SetValue(form.Country, form.Text("DE"))
		require.NoError(t, o.Edit(ctx, form.Country))
		assert.Equal(t, []form.SelectOption{{Label: "Berlin", Value: "Berlin"}}, mem.Options(form.City))
	})

	t.Run("logs transitions and submissions", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithLevel(slog.LevelDebug))
		o, mem, _ := newOrchestrator(t, form.WithLogger(log))

		mem.Fill(validValues())
		o.Submit(ctx)

		out := buf.String()
		assert.Contains(t, out, `"msg":"field status changed"`)
		assert.Contains(t, out, `"component":"form"`)
		assert.Contains(t, out, `"msg":"submission accepted"`)
		assert.Contains(t, out, `"email":"j***@example.com"`)
	})
}

type catalogFunc func(string) []string

func (f catalogFunc) Cities(country string) []string { return f(country) }
