package expression

import (
	"fmt"

	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"
)

// CheckSyntax parses expression without compiling or running it
func CheckSyntax(expression string) error {
	if _, err := parser.Parse(expression); err != nil {
		return fmt.Errorf("invalid expression: %w", err)
	}
	return nil
}

// identifierCollector gathers variable references, skipping function names
type identifierCollector struct {
	seen    map[string]struct{}
	names   []string
	callees map[ast.Node]struct{}
}

func (c *identifierCollector) Visit(node *ast.Node) {
	n, ok := (*node).(*ast.IdentifierNode)
	if !ok {
		return
	}
	if _, isCallee := c.callees[n]; isCallee {
		return
	}
	if _, dup := c.seen[n.Value]; dup {
		return
	}
	c.seen[n.Value] = struct{}{}
	c.names = append(c.names, n.Value)
}

// Identifiers returns the variable names referenced by expression, in order of
// first appearance. Function names are not included.
func Identifiers(expression string) ([]string, error) {
	tree, err := parser.Parse(expression)
	if err != nil {
		return nil, fmt.Errorf("failed to parse expression: %w", err)
	}
	// Walk is post-order, so callees are marked in a first pass.
	callees := &calleeMarker{callees: make(map[ast.Node]struct{})}
	ast.Walk(&tree.Node, callees)

	c := &identifierCollector{
		seen:    make(map[string]struct{}),
		callees: callees.callees,
	}
	ast.Walk(&tree.Node, c)
	return c.names, nil
}

type calleeMarker struct {
	callees map[ast.Node]struct{}
}

func (m *calleeMarker) Visit(node *ast.Node) {
	if call, ok := (*node).(*ast.CallNode); ok {
		m.callees[call.Callee] = struct{}{}
	}
}

// References reports whether expression refers to identifier name
func References(expression, name string) bool {
	ids, err := Identifiers(expression)
	if err != nil {
		return false
	}
	for _, id := range ids {
		if id == name {
			return true
		}
	}
	return false
}
