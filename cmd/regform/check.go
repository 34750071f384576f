package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/regform/pkg/form"
	"github.com/dmitrymomot/regform/pkg/surface"
)

type checkOptions struct {
	referenceFile string
	jsonOutput    bool
}

func newCheckCommand() *cobra.Command {
	var opts checkOptions

	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Submit form values from a YAML or JSON file",
		Long: `Load field values from a YAML or JSON file ("-" reads stdin), submit them
and print the verdict of every field and the password strength.

The command exits with status 1 when the submission is rejected.

Example file:
  firstName: Jane
  country: US
  city: Chicago
  gender: [female]
  terms: true`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := readValues(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			report, err := check(cmd, values, opts)
			if err != nil {
				return err
			}
			if err := writeReport(cmd.OutOrStdout(), report, opts.jsonOutput); err != nil {
				return err
			}
			if !report.Submitted {
				return &ExitError{Code: 1}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.referenceFile, "reference", "", "YAML reference data file (default: embedded)")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "print the report as JSON")
	return cmd
}

type fieldReport struct {
	Field   form.FieldID `json:"field"`
	Status  form.Status  `json:"status"`
	Reason  form.Reason  `json:"reason,omitempty"`
	Message string       `json:"message,omitempty"`
}

type checkReport struct {
	Submitted bool          `json:"submitted"`
	Focused   form.FieldID  `json:"focused,omitempty"`
	Strength  form.Strength `json:"strength"`
	Fields    []fieldReport `json:"fields"`
}

func check(cmd *cobra.Command, values map[form.FieldID]form.Value, opts checkOptions) (checkReport, error) {
	ref, err := loadReference(opts.referenceFile)
	if err != nil {
		return checkReport{}, err
	}

	mem := surface.NewMemory()
	mem.Fill(values)

	orch, err := form.New(mem, form.WithReference(ref))
	if err != nil {
		return checkReport{}, err
	}
	defer orch.Stop()

	res := orch.Submit(cmd.Context())
	report := checkReport{
		Submitted: res.Submitted,
		Focused:   res.Focused,
		Strength:  form.EvaluateStrength(values[form.Password].Text),
	}
	for _, f := range res.Fields.Fields() {
		report.Fields = append(report.Fields, fieldReport{
			Field:   f.ID,
			Status:  f.Status,
			Reason:  f.Reason,
			Message: f.Message,
		})
	}
	return report, nil
}

// readValues decodes field values keyed by field id. JSON input is read as
// YAML.
func readValues(stdin io.Reader, path string) (map[form.FieldID]form.Value, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var doc map[string]yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	values := make(map[form.FieldID]form.Value, len(doc))
	for key, node := range doc {
		id, err := form.ParseFieldID(key)
		if err != nil {
			return nil, err
		}
		v, err := decodeNode(id, &node)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", id, err)
		}
		values[id] = v
	}
	return values, nil
}

func decodeNode(id form.FieldID, node *yaml.Node) (form.Value, error) {
	var v form.Value
	switch id.Kind() {
	case form.KindCheckbox:
		return v, node.Decode(&v.Checked)
	case form.KindCheckgroup:
		return v, node.Decode(&v.Choices)
	default:
		return v, node.Decode(&v.Text)
	}
}

func writeReport(w io.Writer, report checkReport, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FIELD\tSTATUS\tMESSAGE")
	for _, f := range report.Fields {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", f.Field, f.Status, f.Message)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\npassword strength: %s (%d/%d)\n", report.Strength.Label, report.Strength.Score, form.MaxStrengthScore)
	if report.Submitted {
		fmt.Fprintln(w, "result: accepted")
		return nil
	}
	fmt.Fprintf(w, "result: rejected, first invalid field: %s\n", report.Focused)
	return nil
}
