// Package v1beta1 contains the v1beta1 API types for rtool configuration.
package v1beta1

import (
	"errors"
	"fmt"
	"slices"

	"github.com/invopop/jsonschema"
)

// APIVersion is the current API version for all rtool configuration kinds.
const APIVersion = "rtool.macropower.dev/v1beta1"

// ValidAPIVersions contains all valid API versions.
var ValidAPIVersions = []string{APIVersion}

var (
	// ErrUnsupportedAPIVersion is returned by [CheckTypeMeta] for unknown API versions.
	ErrUnsupportedAPIVersion = errors.New("unsupported apiVersion")
	// ErrUnsupportedKind is returned by [CheckTypeMeta] for unknown kinds.
	ErrUnsupportedKind = errors.New("unsupported kind")
)

// TypeMeta contains the API version and kind metadata common to all config types.
type TypeMeta struct {
	// APIVersion specifies the API version for this configuration.
	APIVersion string `json:"apiVersion" jsonschema:"required,title=API Version"`
	// Kind defines the type of configuration.
	Kind string `json:"kind" jsonschema:"required,title=Kind"`
}

// GetAPIVersion returns the API version.
func (tm TypeMeta) GetAPIVersion() string {
	return tm.APIVersion
}

// GetKind returns the kind.
func (tm TypeMeta) GetKind() string {
	return tm.Kind
}

// Object is the interface that all config types implement.
type Object interface {
	GetAPIVersion() string
	GetKind() string
	EnsureDefaults()
}

// CheckTypeMeta returns an error if obj does not carry one of
// [ValidAPIVersions] and one of kinds.
func CheckTypeMeta(obj Object, kinds []string) error {
	if !slices.Contains(ValidAPIVersions, obj.GetAPIVersion()) {
		return fmt.Errorf("%w: %q", ErrUnsupportedAPIVersion, obj.GetAPIVersion())
	}
	if !slices.Contains(kinds, obj.GetKind()) {
		return fmt.Errorf("%w: %q", ErrUnsupportedKind, obj.GetKind())
	}

	return nil
}

// ExtendSchemaWithEnums restricts the apiVersion and kind properties of a
// JSON schema to the given values. It panics if either property is missing.
func ExtendSchemaWithEnums(jss *jsonschema.Schema, apiVersions, kinds []string) {
	restrict(jss, "apiVersion", apiVersions)
	restrict(jss, "kind", kinds)
}

func restrict(jss *jsonschema.Schema, property string, values []string) {
	prop, ok := jss.Properties.Get(property)
	if !ok {
		panic(property + " property not found in schema")
	}

	for _, v := range values {
		prop.Enum = append(prop.Enum, v)
	}

	_, _ = jss.Properties.Set(property, prop)
}
