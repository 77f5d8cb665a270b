package recipe

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/boutproject/boutpkg/pkg/header"
	"github.com/boutproject/boutpkg/pkg/serializer"
)

// BuildRequest is the document form of a Request, used in request files
// and HTTP bodies.
//
// Example:
//
//	kind: BuildRequest
//	apiVersion: boutpkg.boutproject.org/v1alpha1
//	metadata:
//	  name: boutpp-petsc
//	spec:
//	  package: boutpp
//	  version: 5.1.0
//	  variants:
//	    petsc: true
//	    check: 3
//	    buildtests: [all]
type BuildRequest struct {
	header.Header `json:",inline" yaml:",inline"`

	// Spec holds the request.
	Spec Request `json:"spec" yaml:"spec"`
}

// NewBuildRequest wraps req in a document header.
func NewBuildRequest(req Request) *BuildRequest {
	return &BuildRequest{
		Header: *header.New(header.WithKind(header.KindBuildRequest)),
		Spec:   req,
	}
}

func (b *BuildRequest) validate() (*Request, error) {
	if err := b.Check(header.KindBuildRequest); err != nil {
		return nil, err
	}
	if strings.TrimSpace(b.Spec.Package) == "" {
		return nil, fmt.Errorf("request spec must name a package")
	}
	req := b.Spec
	if req.Variants == nil {
		req.Variants = Selection{}
	}
	return &req, nil
}

// LoadRequestFromFile loads a BuildRequest from a YAML or JSON file or an
// HTTP(S) URL. The format is detected from the extension.
func LoadRequestFromFile(path string) (*Request, error) {
	doc, err := serializer.FromFile[BuildRequest](path)
	if err != nil {
		return nil, fmt.Errorf("failed to load request file: %w", err)
	}
	return doc.validate()
}

// ParseRequestFromRequest parses a Request from HTTP query parameters.
func ParseRequestFromRequest(r *http.Request) (*Request, error) {
	if r == nil {
		return nil, fmt.Errorf("request cannot be nil")
	}
	return ParseRequestFromValues(r.URL.Query())
}

// ParseRequestFromValues parses a Request from URL values.
//
// Either "spec" carries a complete spec string, or "package" names the
// package with optional "version" and "revision". Each "variant" value is a
// "+name", "~name" or "name=value" term and is applied on top.
func ParseRequestFromValues(values url.Values) (*Request, error) {
	var req Request
	if s := values.Get("spec"); s != "" {
		parsed, err := ParseSpec(s)
		if err != nil {
			return nil, err
		}
		req = parsed
	}
	if p := values.Get("package"); p != "" {
		if req.Package != "" && req.Package != p {
			return nil, fmt.Errorf("package %q conflicts with spec package %q", p, req.Package)
		}
		req.Package = p
	}
	if req.Package == "" {
		return nil, fmt.Errorf("package is required")
	}
	if v := values.Get("version"); v != "" {
		req.Version = v
	}
	req.Revision = values.Get("revision")
	if req.Variants == nil {
		req.Variants = Selection{}
	}

	for _, term := range values["variant"] {
		extra, err := ParseSpec(req.Package + " " + term)
		if err != nil {
			return nil, fmt.Errorf("invalid variant %q: %w", term, err)
		}
		for k, v := range extra.Variants {
			req.Variants[k] = v
		}
	}
	return &req, nil
}

// ParseRequestFromBody parses a BuildRequest from an HTTP body. JSON and
// YAML are supported based on the Content-Type header; JSON is assumed
// when it is empty or unrecognized.
func ParseRequestFromBody(body io.Reader, contentType string) (*Request, error) {
	if body == nil {
		return nil, fmt.Errorf("request body cannot be nil")
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("request body is empty")
	}

	var doc BuildRequest
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if idx := strings.Index(ct, ";"); idx != -1 {
		ct = strings.TrimSpace(ct[:idx])
	}

	switch ct {
	case "application/x-yaml", "application/yaml", "text/yaml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse YAML body: %w", err)
		}
	case "application/json", "":
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse JSON body: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("unsupported content type %q and failed to parse as JSON: %w", contentType, err)
		}
	}

	return doc.validate()
}
