package ast

import (
	"github.com/lakiscript/laki/internal/span"
)

// NodeToMap converts an AST node to a map suitable for JSON serialization,
// for the `laki ast` debug subcommand. It produces a tagged-union
// structure: every node has a "kind" field plus its own span.
func NodeToMap(node Node) map[string]interface{} {
	if node == nil {
		return nil
	}

	switch n := node.(type) {
	case *NumberNode:
		return m("NumberNode", n.Span(), "value", n.Token.Value)
	case *StringNode:
		return m("StringNode", n.Span(), "value", n.Token.Value)
	case *ListNode:
		return m("ListNode", n.Span(), "elements", nodeSlice(n.Elements))
	case *VarAccessNode:
		return m("VarAccessNode", n.Span(), "name", n.NameToken.Value)
	case *VarAssignNode:
		return m("VarAssignNode", n.Span(),
			"name", n.NameToken.Value,
			"eq", n.Eq.String(),
			"define", n.Define,
			"value", NodeToMap(n.Value))
	case *BinaryOpNode:
		return m("BinaryOpNode", n.Span(),
			"op", n.Op.Kind.String(),
			"left", NodeToMap(n.Left),
			"right", NodeToMap(n.Right))
	case *UnaryOpNode:
		return m("UnaryOpNode", n.Span(), "op", n.Op.String(), "operand", NodeToMap(n.Operand))
	case *IfNode:
		cases := make([]interface{}, len(n.Cases))
		for i, c := range n.Cases {
			cases[i] = map[string]interface{}{"cond": NodeToMap(c.Cond), "body": NodeToMap(c.Body)}
		}
		result := m("IfNode", n.Span(), "cases", cases)
		if n.ElseBody != nil {
			result["else"] = NodeToMap(n.ElseBody)
		}
		return result
	case *ForNode:
		result := m("ForNode", n.Span(),
			"var", n.VarToken.Value,
			"start", NodeToMap(n.Start),
			"end", NodeToMap(n.End),
			"body", NodeToMap(n.Body))
		if n.Step != nil {
			result["step"] = NodeToMap(n.Step)
		}
		return result
	case *WhileNode:
		return m("WhileNode", n.Span(), "cond", NodeToMap(n.Cond), "body", NodeToMap(n.Body))
	case *FuncNode:
		params := make([]string, len(n.Params))
		for i, p := range n.Params {
			params[i], _ = p.Value.(string)
		}
		result := m("FuncNode", n.Span(),
			"params", params,
			"autoReturn", n.AutoReturn,
			"body", NodeToMap(n.Body))
		if n.NameToken != nil {
			result["name"] = n.NameToken.Value
		}
		return result
	case *CallNode:
		return m("CallNode", n.Span(), "callee", NodeToMap(n.Callee), "args", nodeSlice(n.Args))
	case *ReturnNode:
		result := m("ReturnNode", n.Span())
		if n.Value != nil {
			result["value"] = NodeToMap(n.Value)
		}
		return result
	case *ContinueNode:
		return m("ContinueNode", n.Span())
	case *BreakNode:
		return m("BreakNode", n.Span())
	default:
		return map[string]interface{}{"kind": "Unknown"}
	}
}

func m(kind string, s span.Span, kvs ...interface{}) map[string]interface{} {
	result := map[string]interface{}{
		"kind": kind,
		"span": spanToMap(s),
	}
	for i := 0; i+1 < len(kvs); i += 2 {
		key := kvs[i].(string)
		result[key] = kvs[i+1]
	}
	return result
}

func spanToMap(s span.Span) map[string]interface{} {
	return map[string]interface{}{
		"start": map[string]interface{}{
			"index":  s.Start.Index,
			"line":   s.Start.Line,
			"column": s.Start.Column,
		},
		"end": map[string]interface{}{
			"index":  s.End.Index,
			"line":   s.End.Line,
			"column": s.End.Column,
		},
	}
}

func nodeSlice(nodes []Node) []interface{} {
	result := make([]interface{}, len(nodes))
	for i, n := range nodes {
		result[i] = NodeToMap(n)
	}
	return result
}
