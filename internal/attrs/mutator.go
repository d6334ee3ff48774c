package attrs

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/rs/zerolog/log"

	"github.com/darmiel/ticketbind/internal/config"
)

// Mutator applies expression-based release rules to the attributes of a
// validated assertion before they are attached to the principal. Each
// rule writes one attribute; a nil result drops it. Rules run in order,
// so later rules can read attributes written by earlier ones.
type Mutator struct {
	rules []compiledRule
}

type compiledRule struct {
	name    string
	program *vm.Program
}

// NewMutator compiles the configured rules. Expressions see the current
// attribute map as their environment, plus an "attributes" binding for
// explicit access.
func NewMutator(rules []config.AttributeRule) (*Mutator, error) {
	compiled := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		program, err := expr.Compile(r.Expr, expr.AllowUndefinedVariables())
		if err != nil {
			return nil, fmt.Errorf("compiling attribute rule %q: %w", r.Name, err)
		}
		compiled = append(compiled, compiledRule{name: r.Name, program: program})
	}
	return &Mutator{rules: compiled}, nil
}

// Apply returns a new attribute map with every rule applied. The input
// map is never modified.
func (m *Mutator) Apply(attributes map[string]any) map[string]any {
	out := make(map[string]any, len(attributes))
	for k, v := range attributes {
		out[k] = v
	}

	for _, rule := range m.rules {
		env := make(map[string]any, len(out)+1)
		for k, v := range out {
			env[k] = v
		}
		env["attributes"] = out

		result, err := expr.Run(rule.program, env)
		if err != nil {
			log.Warn().Err(err).Msgf("error evaluating attribute rule '%s'", rule.name)
			continue
		}
		if result == nil {
			delete(out, rule.name)
			continue
		}
		out[rule.name] = result
	}
	return out
}
