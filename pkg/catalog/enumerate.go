package catalog

import (
	"context"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed services.yaml
var embeddedServices []byte

// Enumerator lists the service identifiers known to the cloud SDK
type Enumerator interface {
	ServiceIdentifiers(ctx context.Context) ([]string, error)
}

// EmbeddedEnumerator reads the identifier list shipped with the binary
type EmbeddedEnumerator struct{}

type serviceList struct {
	Services []string `yaml:"services"`
}

// ServiceIdentifiers decodes the embedded services.yaml
func (EmbeddedEnumerator) ServiceIdentifiers(_ context.Context) ([]string, error) {
	return parseServiceList(embeddedServices)
}

// StaticEnumerator returns a fixed identifier list
type StaticEnumerator []string

// ServiceIdentifiers returns a copy of the static list
func (s StaticEnumerator) ServiceIdentifiers(_ context.Context) ([]string, error) {
	return append([]string(nil), s...), nil
}

func parseServiceList(data []byte) ([]string, error) {
	var list serviceList
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("error parsing service list: %w", err)
	}
	if len(list.Services) == 0 {
		return nil, fmt.Errorf("service list is empty")
	}
	return list.Services, nil
}

// Load enumerates identifiers and builds the catalog. Enumeration errors are
// returned as is; callers treat them as fatal at startup.
func Load(ctx context.Context, e Enumerator) (*ServiceCatalog, error) {
	ids, err := e.ServiceIdentifiers(ctx)
	if err != nil {
		return nil, fmt.Errorf("error enumerating service identifiers: %w", err)
	}
	return New(ids), nil
}
