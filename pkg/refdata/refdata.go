// Package refdata holds the read-only reference data used by the registration
// form: the country/city catalog and the set of disposable e-mail domains.
//
// The default data set is embedded from reference.yaml. A different data set
// can be loaded from any YAML source with Load or LoadFile; it is validated
// before use.
package refdata

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	playground "github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed reference.yaml
var defaultReference []byte

// Country is a selectable country with its ordered list of cities.
type Country struct {
	Code   string   `yaml:"code" validate:"required,len=2,uppercase"`
	Name   string   `yaml:"name" validate:"required"`
	Cities []string `yaml:"cities" validate:"required,min=1,dive,required"`
}

type document struct {
	Countries         []Country `yaml:"countries" validate:"required,min=1,dive"`
	DisposableDomains []string  `yaml:"disposable_domains" validate:"dive,required,fqdn"`
}

// Reference bundles the catalog and the disposable domain set.
type Reference struct {
	Catalog    *Catalog
	Disposable DomainSet
}

// Catalog maps country codes to ordered city lists.
type Catalog struct {
	countries []Country
	byCode    map[string]int
}

// NewCatalog builds a catalog, rejecting duplicate country codes.
func NewCatalog(countries []Country) (*Catalog, error) {
	c := &Catalog{byCode: make(map[string]int, len(countries))}
	for _, country := range countries {
		if _, dup := c.byCode[country.Code]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCountry, country.Code)
		}
		c.byCode[country.Code] = len(c.countries)
		c.countries = append(c.countries, Country{
			Code:   country.Code,
			Name:   country.Name,
			Cities: slices.Clone(country.Cities),
		})
	}
	return c, nil
}

// Cities returns a copy of the cities for code, or nil for an empty or unknown code.
func (c *Catalog) Cities(code string) []string {
	i, ok := c.byCode[code]
	if !ok {
		return nil
	}
	return slices.Clone(c.countries[i].Cities)
}

// Has reports whether code is a known country.
func (c *Catalog) Has(code string) bool {
	_, ok := c.byCode[code]
	return ok
}

// Countries returns the catalog countries in declaration order.
func (c *Catalog) Countries() []Country {
	out := make([]Country, len(c.countries))
	for i, country := range c.countries {
		out[i] = Country{Code: country.Code, Name: country.Name, Cities: slices.Clone(country.Cities)}
	}
	return out
}

// DomainSet is a case-insensitive set of e-mail domains.
type DomainSet map[string]struct{}

// NewDomainSet builds a set from domains, lower-casing each entry.
func NewDomainSet(domains ...string) DomainSet {
	s := make(DomainSet, len(domains))
	for _, d := range domains {
		s[strings.ToLower(strings.TrimSpace(d))] = struct{}{}
	}
	return s
}

// Contains reports whether domain is in the set. The lookup is exact after lower-casing.
func (s DomainSet) Contains(domain string) bool {
	_, ok := s[strings.ToLower(domain)]
	return ok
}

// Len returns the number of domains in the set.
func (s DomainSet) Len() int {
	return len(s)
}

// Load decodes and validates reference data from r.
func Load(r io.Reader) (*Reference, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Join(ErrInvalidReference, err)
	}

	if err := playground.New().Struct(doc); err != nil {
		return nil, errors.Join(ErrInvalidReference, err)
	}

	catalog, err := NewCatalog(doc.Countries)
	if err != nil {
		return nil, errors.Join(ErrInvalidReference, err)
	}

	return &Reference{
		Catalog:    catalog,
		Disposable: NewDomainSet(doc.DisposableDomains...),
	}, nil
}

// LoadFile reads reference data from a YAML file.
func LoadFile(path string) (*Reference, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Join(ErrInvalidReference, err)
	}
	defer f.Close()

	return Load(f)
}

// Default returns the embedded reference data set.
func Default() *Reference {
	ref, err := Load(strings.NewReader(string(defaultReference)))
	if err != nil {
		panic(fmt.Sprintf("refdata: embedded reference data is invalid: %v", err))
	}
	return ref
}
