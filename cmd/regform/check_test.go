package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/regform/pkg/form"
)

const validYAML = `firstName: Jane
lastName: Doe
email: jane@example.com
country: US
city: Chicago
phone: "5551234567"
age: "30"
address: 123 Main Street
password: Abc123$xyz
confirmPassword: Abc123$xyz
gender: [female]
terms: true
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func runCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCheckCommand(t *testing.T) {
	t.Parallel()

	t.Run("accepts a valid form", func(t *testing.T) {
		out, err := runCommand(t, "", "check", writeFile(t, "ok.yaml", validYAML))
		require.NoError(t, err)
		assert.Contains(t, out, "result: accepted")
		assert.Contains(t, out, "password strength: Strong (4/4)")
		assert.Contains(t, out, "terms")
	})

	t.Run("rejects and exits with status 1", func(t *testing.T) {
		in := strings.Replace(validYAML, "terms: true", "terms: false", 1)
		out, err := runCommand(t, "", "check", writeFile(t, "terms.yaml", in))

		var exitErr *ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, 1, exitErr.Code)
		assert.Contains(t, out, "first invalid field: terms")
		assert.Contains(t, out, "You must accept terms")
	})

	t.Run("reads json from stdin", func(t *testing.T) {
		in := `{"email":"user@mailinator.com","password":"Abc12345","terms":true}`
		out, err := runCommand(t, in, "check", "--json", "-")
		require.Error(t, err)

		var report checkReport
		require.NoError(t, json.Unmarshal([]byte(out), &report))
		assert.False(t, report.Submitted)
		assert.Equal(t, form.FirstName, report.Focused)
		assert.Equal(t, form.StrengthMedium, report.Strength.Label)
		require.Len(t, report.Fields, len(form.FieldIDs()))

		for _, f := range report.Fields {
			switch f.Field {
			case form.Email:
				assert.Equal(t, form.ReasonDisposableDomain, f.Reason)
			case form.Terms, form.Password:
				assert.Equal(t, form.StatusValid, f.Status)
			}
		}
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := runCommand(t, "", "check", writeFile(t, "bad.yaml", "nickname: jj\n"))
		assert.ErrorIs(t, err, form.ErrUnknownField)
	})

	t.Run("mistyped value", func(t *testing.T) {
		_, err := runCommand(t, "", "check", writeFile(t, "bad.yaml", "gender: {a: b}\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "gender")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := runCommand(t, "", "check", filepath.Join(t.TempDir(), "none.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("custom reference data", func(t *testing.T) {
		ref := writeFile(t, "ref.yaml", `countries:
  - code: US
    name: United States
    cities: [Springfield]
disposable_domains: [example.com]
`)
		out, err := runCommand(t, "", "check", "--reference", ref, writeFile(t, "ok.yaml", validYAML))
		require.Error(t, err)
		assert.Contains(t, out, "first invalid field: email")
	})
}
