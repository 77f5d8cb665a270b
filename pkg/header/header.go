package header

import (
	"time"
)

// APIVersion is the API version stamped on every boutpkg document.
const APIVersion = "boutpkg.boutproject.org/v1alpha1"

// Kind represents the type of boutpkg document.
type Kind string

// Valid Kind constants for all boutpkg document types.
const (
	KindBuildRequest  Kind = "BuildRequest"
	KindResolution    Kind = "Resolution"
	KindBuildPlan     Kind = "BuildPlan"
	KindPackageInfo   Kind = "PackageInfo"
	KindPackageList   Kind = "PackageList"
	KindKnownPackages Kind = "KnownPackages"
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	return string(k)
}

// IsValid checks if the Kind is one of the recognized kinds.
func (k *Kind) IsValid() bool {
	switch *k {
	case KindBuildRequest, KindResolution, KindBuildPlan, KindPackageInfo, KindPackageList, KindKnownPackages:
		return true
	default:
		return false
	}
}

// Option is a functional option for configuring Header instances.
type Option func(*Header)

// WithMetadata adds a metadata key-value pair.
func WithMetadata(key, value string) Option {
	return func(h *Header) {
		if h.Metadata == nil {
			h.Metadata = make(map[string]string)
		}
		h.Metadata[key] = value
	}
}

// WithKind sets the Kind.
func WithKind(kind Kind) Option {
	return func(h *Header) {
		h.Kind = kind
	}
}

// WithAPIVersion overrides the default API version.
func WithAPIVersion(version string) Option {
	return func(h *Header) {
		h.APIVersion = version
	}
}

// New creates a Header stamped with the default API version.
func New(opts ...Option) *Header {
	h := &Header{
		APIVersion: APIVersion,
		Metadata:   make(map[string]string),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Header contains metadata and versioning information for boutpkg documents.
type Header struct {
	// Kind is the type of the document.
	Kind Kind `json:"kind,omitempty" yaml:"kind,omitempty"`

	// APIVersion is the API version of the document.
	APIVersion string `json:"apiVersion,omitempty" yaml:"apiVersion,omitempty"`

	// Metadata contains key-value pairs such as the timestamp and tool version.
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Init resets the header for the given kind, stamping the current time and
// the tool version (when not empty).
func (h *Header) Init(kind Kind, version string) {
	h.Kind = kind
	h.APIVersion = APIVersion
	h.Metadata = make(map[string]string)

	h.Metadata["timestamp"] = time.Now().UTC().Format(time.RFC3339)
	if version != "" {
		h.Metadata["version"] = version
	}
}

// Check verifies that the header carries the expected kind and a supported
// API version. Empty fields are accepted.
func (h *Header) Check(kind Kind) error {
	if h.Kind != "" && h.Kind != kind {
		return &MismatchError{Field: "kind", Got: string(h.Kind), Want: string(kind)}
	}
	if h.APIVersion != "" && h.APIVersion != APIVersion {
		return &MismatchError{Field: "apiVersion", Got: h.APIVersion, Want: APIVersion}
	}
	return nil
}

// MismatchError reports an unexpected kind or apiVersion.
type MismatchError struct {
	Field string
	Got   string
	Want  string
}

func (e *MismatchError) Error() string {
	return "invalid " + e.Field + " " + quote(e.Got) + ", expected " + quote(e.Want)
}

func quote(s string) string {
	return `"` + s + `"`
}
