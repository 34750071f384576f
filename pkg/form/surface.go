package form

// SelectOption is a selectable choice of a select field.
type SelectOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Surface is the UI side of a form: it holds the live values and renders
// whatever the orchestrator writes back.
type Surface interface {
	// Value returns the current raw value of id.
	Value(id FieldID) Value
	// SetValue overwrites a value. Used on reset and to clear the city.
	SetValue(id FieldID, v Value)
	// SetOptions replaces the selectable options of a select field.
	SetOptions(id FieldID, opts []SelectOption)
	SetErrorState(id FieldID, invalid bool, message string)
	SetSubmitEnabled(enabled bool)
	Focus(id FieldID)
	ShowSuccessBanner(message string)
	HideSuccessBanner()
}

// StrengthReporter is implemented by surfaces that display password strength.
type StrengthReporter interface {
	ShowPasswordStrength(s Strength)
}

// CityCatalog lists the cities of a country.
type CityCatalog interface {
	Cities(country string) []string
}

func cityOptions(cities []string) []SelectOption {
	opts := make([]SelectOption, 0, len(cities))
	for _, c := range cities {
		opts = append(opts, SelectOption{Label: c, Value: c})
	}
	return opts
}
