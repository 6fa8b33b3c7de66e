package registry

import (
	"fmt"
	"strings"

	"github.com/antchfx/xmlquery"
)

// parseCommands populates r.Commands from every commands/command element.
// Aliased commands (alias="...") share the *Command of their target rather
// than copying it, matching the source registry: mutating one (e.g.
// assigning Feature during extmerge.go) is visible through every alias.
func parseCommands(r *Registry, doc *xmlDoc) error {
	var aliasNodes []*xmlquery.Node

	for _, ce := range doc.find("/registry/commands/command") {
		if alias := attr(ce, "alias", ""); alias != "" {
			aliasNodes = append(aliasNodes, ce)
			continue
		}
		cmd, err := parseCommand(ce)
		if err != nil {
			return err
		}
		r.Commands[cmd.Name] = cmd
	}

	for _, ce := range aliasNodes {
		name := attr(ce, "name", "")
		alias := attr(ce, "alias", "")
		target, ok := r.Commands[alias]
		if !ok {
			return fmt.Errorf("%w: command %s aliases unknown command %s", ErrSchema, name, alias)
		}
		r.Commands[name] = target
		r.Aliases[name] = &TypeAlias{Name: name, Alias: &typeRef{Ref: alias}}
	}

	return nil
}

func parseCommand(ce *xmlquery.Node) (*Command, error) {
	proto := childElement(ce, "proto")
	if proto == nil {
		return nil, fmt.Errorf("%w: command missing <proto>", ErrSchema)
	}
	name := text(childElement(proto, "name"))
	if name == "" {
		return nil, fmt.Errorf("%w: command <proto> missing <name>", ErrSchema)
	}

	cmd := &Command{
		Name: name,
		Node: ce,
	}

	retTypeName := text(childElement(proto, "type"))
	cmd.ReturnType = &typeRef{Ref: retTypeName}

	for _, pe := range childElements(ce, "param") {
		f, err := parseParameterOrMember(pe, cmd)
		if err != nil {
			return nil, fmt.Errorf("command %s: %w", name, err)
		}
		cmd.Parameters = append(cmd.Parameters, f)
	}

	if sc := attr(ce, "successcodes", ""); sc != "" {
		cmd.SuccessCodes = splitNonEmpty(sc, ",")
	}
	if ec := attr(ce, "errorcodes", ""); ec != "" {
		cmd.ErrorCodes = splitNonEmpty(ec, ",")
	}

	return cmd, nil
}

func splitNonEmpty(s, sep string) []string {
	var out []string
	for _, p := range strings.Split(s, sep) {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// computeIsInstance sets Command.IsInstance: true for vkCreateInstance, or
// when the first parameter is a handle whose parent chain climbs to
// VkInstance.
func computeIsInstance(r *Registry) {
	for _, c := range r.Commands {
		if c.Name == "vkCreateInstance" {
			c.IsInstance = true
			continue
		}
		if len(c.Parameters) == 0 {
			continue
		}
		h, ok := c.Parameters[0].Type.(*Handle)
		c.IsInstance = ok && h.IsInstanceHandle()
	}
}
