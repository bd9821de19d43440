package ast

import (
	"blang/internal/span"
)

// NodeToMap converts an AST node to a map suitable for JSON serialization.
// Every node becomes an object with a "kind" and a "span" field.
func NodeToMap(node Node) map[string]interface{} {
	if node == nil {
		return nil
	}

	switch n := node.(type) {
	case *File:
		body := make([]interface{}, len(n.Body))
		for i, s := range n.Body {
			body[i] = NodeToMap(s)
		}
		return m("File", n.Span, "body", body)

	// ---- Expressions ----
	case *IdentExpr:
		return m("IdentExpr", n.Span, "name", n.Name)
	case *IntLiteral:
		return m("IntLiteral", n.Span, "value", n.Value)
	case *StringLiteral:
		return m("StringLiteral", n.Span, "value", n.Value)
	case *BinaryExpr:
		return m("BinaryExpr", n.Span,
			"op", n.Op.String(),
			"left", NodeToMap(n.Left),
			"right", NodeToMap(n.Right))
	case *CallExpr:
		return m("CallExpr", n.Span, "name", n.Name, "args", exprSlice(n.Args))

	// ---- Statements ----
	case *DeclStmt:
		return m("DeclStmt", n.Span,
			"type", n.Type.String(),
			"name", n.Name,
			"value", NodeToMap(n.Value))
	case *ReassignStmt:
		return m("ReassignStmt", n.Span, "name", n.Name, "value", NodeToMap(n.Value))
	case *PrintStmt:
		return m("PrintStmt", n.Span, "value", NodeToMap(n.Value))
	case *BlockStmt:
		return m("BlockStmt", n.Span, "stmts", stmtSlice(n.Stmts))
	case *IfStmt:
		result := m("IfStmt", n.Span,
			"condition", NodeToMap(n.Condition),
			"then", NodeToMap(n.Then))
		if n.Else != nil {
			result["else"] = NodeToMap(n.Else)
		}
		return result
	case *WhileStmt:
		return m("WhileStmt", n.Span,
			"condition", NodeToMap(n.Condition),
			"body", NodeToMap(n.Body))
	case *ForStmt:
		return m("ForStmt", n.Span,
			"init", NodeToMap(n.Init),
			"condition", NodeToMap(n.Condition),
			"update", NodeToMap(n.Update),
			"body", NodeToMap(n.Body))
	case *FuncDecl:
		params := n.Params
		if params == nil {
			params = []string{}
		}
		return m("FuncDecl", n.Span,
			"name", n.Name,
			"params", params,
			"body", NodeToMap(n.Body))
	case *ReturnStmt:
		return m("ReturnStmt", n.Span, "value", NodeToMap(n.Value))
	case *CallStmt:
		return m("CallStmt", n.Span, "call", NodeToMap(n.Call))

	default:
		return map[string]interface{}{"kind": "Unknown"}
	}
}

// ---- helpers ----

// m builds a map with kind, span, and extra key-value pairs.
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
			"offset": s.Start.Offset,
			"line":   s.Start.Line,
			"column": s.Start.Column,
		},
		"end": map[string]interface{}{
			"offset": s.End.Offset,
			"line":   s.End.Line,
			"column": s.End.Column,
		},
	}
}

func stmtSlice(stmts []Stmt) []interface{} {
	result := make([]interface{}, len(stmts))
	for i, s := range stmts {
		result[i] = NodeToMap(s)
	}
	return result
}

func exprSlice(exprs []Expr) []interface{} {
	result := make([]interface{}, len(exprs))
	for i, e := range exprs {
		result[i] = NodeToMap(e)
	}
	return result
}
