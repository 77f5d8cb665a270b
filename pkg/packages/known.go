package packages

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/boutproject/boutpkg/pkg/header"
	"github.com/boutproject/boutpkg/pkg/serializer"
)

//go:embed data/known-packages.yaml
var knownPackagesYAML []byte

// KnownPackages lists external packages that the surrounding package
// repository can provide.
//
//	kind: KnownPackages
//	apiVersion: boutpkg.boutproject.org/v1alpha1
//	packages:
//	  - vantagereactions
type KnownPackages struct {
	header.Header `json:",inline" yaml:",inline"`

	Packages []string `json:"packages" yaml:"packages"`
}

func (k *KnownPackages) names() ([]string, error) {
	if err := k.Check(header.KindKnownPackages); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(k.Packages))
	for _, n := range k.Packages {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

// BuiltinKnownPackages returns the embedded list of external packages.
func BuiltinKnownPackages() ([]string, error) {
	var doc KnownPackages
	if err := yaml.Unmarshal(knownPackagesYAML, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse embedded known packages: %w", err)
	}
	return doc.names()
}

// LoadKnownPackages reads a KnownPackages document from a YAML or JSON
// file or an HTTP(S) URL.
func LoadKnownPackages(path string) ([]string, error) {
	doc, err := serializer.FromFile[KnownPackages](path)
	if err != nil {
		return nil, fmt.Errorf("failed to load known packages from %s: %w", path, err)
	}
	return doc.names()
}
