package routing

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed errors.yaml
var errorCatalogYAML []byte

type CatalogEntry struct {
	Code    string `yaml:"code"`
	Status  int    `yaml:"status"`
	Message string `yaml:"message"`
}

type errorCatalog struct {
	Version int            `yaml:"version"`
	Errors  []CatalogEntry `yaml:"errors"`
}

var loadCatalog = sync.OnceValues(func() (map[string]CatalogEntry, error) {
	return parseErrorCatalog(errorCatalogYAML)
})

func parseErrorCatalog(b []byte) (map[string]CatalogEntry, error) {
	var c errorCatalog
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	if c.Version != 1 {
		return nil, fmt.Errorf("error catalog: unsupported version %d", c.Version)
	}
	out := make(map[string]CatalogEntry, len(c.Errors))
	for _, e := range c.Errors {
		e.Code = strings.TrimSpace(e.Code)
		if e.Code == "" || e.Status < 400 || e.Status > 599 {
			return nil, fmt.Errorf("error catalog: invalid entry %+v", e)
		}
		if _, dup := out[e.Code]; dup {
			return nil, fmt.Errorf("error catalog: duplicate code %q", e.Code)
		}
		out[e.Code] = e
	}
	return out, nil
}

// LookupCode returns the catalog entry for code.
func LookupCode(code string) (CatalogEntry, bool) {
	entries, err := loadCatalog()
	if err != nil {
		return CatalogEntry{}, false
	}
	e, ok := entries[code]
	return e, ok
}
