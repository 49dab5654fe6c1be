package template

import "fmt"

// The mailer path has three failure classes, none of them user-recoverable:
// a missing template is a configuration error, a missing section or variable
// is a developer error in a template or its context builder. All of them are
// permanent: retrying the render produces the same failure, so the worker
// marks them SkipRetry and alerts instead.

// TemplateNotFoundError indicates no template is registered or loaded for the
// requested name.
type TemplateNotFoundError struct {
	Name string
}

func (e *TemplateNotFoundError) Error() string {
	return fmt.Sprintf("template not found: %s", e.Name)
}

// Permanent reports that retrying cannot succeed.
func (e *TemplateNotFoundError) Permanent() bool { return true }

// MissingSectionError indicates a child template omits a required section
// of the base layout. Caught at load time, before any render can happen.
type MissingSectionError struct {
	Template string
	Section  string
}

func (e *MissingSectionError) Error() string {
	return fmt.Sprintf("template %s: missing required section %q", e.Template, e.Section)
}

// Permanent reports that retrying cannot succeed.
func (e *MissingSectionError) Permanent() bool { return true }

// UndefinedVariableError indicates a template referenced a context key the
// caller did not supply.
type UndefinedVariableError struct {
	Template string
	Variable string
}

func (e *UndefinedVariableError) Error() string {
	return fmt.Sprintf("template %s: undefined variable %q", e.Template, e.Variable)
}

// Permanent reports that retrying cannot succeed.
func (e *UndefinedVariableError) Permanent() bool { return true }
