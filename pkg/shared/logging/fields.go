// Package logging provides a small structured-field builder shared across
// the gateway's components, and the zap/logr wiring used to emit it.
package logging

import "time"

// Fields is a chainable builder for structured log fields. Each method
// returns the same map for chaining: logger.With(fields.ToArgs()...).
type Fields map[string]any

func NewFields() Fields {
	return Fields{}
}

func (f Fields) Component(name string) Fields {
	f["component"] = name
	return f
}

func (f Fields) Operation(name string) Fields {
	f["operation"] = name
	return f
}

func (f Fields) Resource(kind, name string) Fields {
	f["resource_type"] = kind
	if name != "" {
		f["resource_name"] = name
	}
	return f
}

func (f Fields) Duration(d time.Duration) Fields {
	f["duration_ms"] = d.Milliseconds()
	return f
}

func (f Fields) Error(err error) Fields {
	if err != nil {
		f["error"] = err.Error()
	}
	return f
}

func (f Fields) UserID(id string) Fields {
	f["user_id"] = id
	return f
}

func (f Fields) Provider(provider string) Fields {
	f["provider"] = provider
	return f
}

func (f Fields) ExecutionID(id string) Fields {
	f["execution_id"] = id
	return f
}

func (f Fields) PlaybookID(id string) Fields {
	f["playbook_id"] = id
	return f
}

// ToArgs flattens Fields into the alternating key/value slice zap.Logger.With
// and logr.Logger.WithValues both accept.
func (f Fields) ToArgs() []any {
	args := make([]any, 0, len(f)*2)
	for k, v := range f {
		args = append(args, k, v)
	}
	return args
}
