package core

// ParamSpec describes one named parameter an action accepts.
type ParamSpec struct {
	// Type is the minimal JSON-schema type name ("string", "number", ...).
	Type string `json:"type"`
	// Required marks the parameter as mandatory for suggestion validation.
	Required bool `json:"required"`
	// Example is an illustrative value surfaced in prompts.
	Example any `json:"example,omitempty"`
}

// ActionDescriptor is a static capability record: it tells the pipeline how a
// classified intent can be turned into an outbound event. Descriptors are
// read-only during pipeline execution; registration is the only mutation.
type ActionDescriptor struct {
	// Kind is the action identifier, e.g. "tweet".
	Kind string `json:"kind"`
	// Description is shown to the completion collaborator when composing
	// action-selection prompts.
	Description string `json:"description"`
	// Platforms lists the platform tags this action applies to.
	Platforms []string `json:"platforms"`
	// OutputKind is the outbound event kind an accepted suggestion produces.
	OutputKind Kind `json:"output_kind"`
	// TargetClient is the client id the produced event is addressed to.
	TargetClient string `json:"target_client"`
	// Parameters is the named-parameter schema for suggestion validation.
	Parameters map[string]ParamSpec `json:"parameters,omitempty"`
	// Examples are illustrative invocations embedded in prompts.
	Examples []string `json:"examples,omitempty"`
}

// Schema lowers the named-parameter specification to the minimal JSON-schema
// map used for prompt construction and parameter validation.
func (d ActionDescriptor) Schema() map[string]any {
	properties := make(map[string]any, len(d.Parameters))
	required := make([]string, 0, len(d.Parameters))
	for name, spec := range d.Parameters {
		prop := map[string]any{"type": spec.Type}
		if spec.Example != nil {
			prop["example"] = spec.Example
		}
		properties[name] = prop
		if spec.Required {
			required = append(required, name)
		}
	}
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}
