package registry

import "github.com/antchfx/xmlquery"

// Field is a struct member or command parameter: a name, its decorated
// Type (built by parseParameterOrMember), and the flags and bit-field
// width derived from its declarator.
type Field struct {
	Name       string
	Type       Type
	Node       *xmlquery.Node
	IsOptional bool
	IsOutput   bool
	BitSize    *int // nil unless the declarator had a ":width" bit-field suffix
	Values     []string
}

// Command is a single Vulkan entry point: its return type, ordered
// parameters, and the bookkeeping the extension merger and the
// instance/device classification in commands.go attach to it.
type Command struct {
	Name         string
	Node         *xmlquery.Node
	ReturnType   Type
	Parameters   []*Field
	SuccessCodes []string
	ErrorCodes   []string
	Extensions   []*Extension
	Feature      string // core version name that introduced this command, if any
	IsInstance   bool
}

// FindParameter returns the parameter named name, or nil.
func (c *Command) FindParameter(name string) *Field {
	for _, p := range c.Parameters {
		if p.Name == name {
			return p
		}
	}
	return nil
}

func (c *Command) addExtension(e *Extension)   { c.Extensions = append(c.Extensions, e) }
func (c *Command) extensionList() []*Extension { return c.Extensions }
