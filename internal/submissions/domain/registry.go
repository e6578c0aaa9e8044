package domain

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed registry.yaml
var registryYAML []byte

// MessageBounds declares length limits for a free-text field.
type MessageBounds struct {
	Field     string `yaml:"field"`
	MinLength int    `yaml:"minLength"`
	MaxLength int    `yaml:"maxLength"`
}

// TypeSpec declares everything the pipeline needs to know about one
// submission family. The pipeline stays table-driven: adding a form type is
// a registry entry, not a new handler.
type TypeSpec struct {
	// Label is the human-readable family name used in notification emails.
	Label string `yaml:"label"`
	// Required lists the fields (contact or form data) that must be present
	// and non-empty.
	Required []string `yaml:"required"`
	// BasePriority is the priority assigned unless an urgency flag overrides it.
	BasePriority Priority `yaml:"basePriority"`
	// Scheduling marks types whose preferredDate must lie strictly in the future.
	Scheduling bool `yaml:"scheduling"`
	// Individual marks types where a missing company defaults to "Individual".
	Individual bool `yaml:"individual"`
	// ArrayFields lists form data keys that must always be sequences,
	// defaulting to empty slices rather than null.
	ArrayFields []string `yaml:"arrayFields"`
	// Message, when set, bounds the length of a free-text field.
	Message *MessageBounds `yaml:"message"`
}

type registryFile struct {
	Types map[string]TypeSpec `yaml:"types"`
}

var (
	registry   map[Type]TypeSpec
	knownTypes []Type
)

func init() {
	var file registryFile
	if err := yaml.Unmarshal(registryYAML, &file); err != nil {
		panic(fmt.Sprintf("submissions: malformed type registry: %v", err))
	}
	if len(file.Types) == 0 {
		panic("submissions: type registry is empty")
	}

	registry = make(map[Type]TypeSpec, len(file.Types))
	for name, spec := range file.Types {
		if spec.BasePriority == "" {
			spec.BasePriority = PriorityNormal
		}
		registry[Type(name)] = spec
		knownTypes = append(knownTypes, Type(name))
	}
	sort.Slice(knownTypes, func(i, j int) bool { return knownTypes[i] < knownTypes[j] })
}

// Spec returns the registry entry for the given type.
func Spec(t Type) (TypeSpec, bool) {
	spec, ok := registry[t]
	return spec, ok
}

// KnownTypes returns the enumerated submission types in stable order.
func KnownTypes() []Type {
	out := make([]Type, len(knownTypes))
	copy(out, knownTypes)
	return out
}

// KnownTypeList renders the allowed type set for error messages.
func KnownTypeList() string {
	names := make([]string, len(knownTypes))
	for i, t := range knownTypes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

// ParseType resolves a declared type string against the registry. Unknown
// types are rejected before any other processing.
func ParseType(raw string) (Type, bool) {
	t := Type(strings.ToLower(strings.TrimSpace(raw)))
	_, ok := registry[t]
	return t, ok
}
