// Package policy gates question submission with an OPA rego policy.
package policy

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/rego"
)

// Decision values a policy can return.
const (
	DecisionAllow = "allow"
	DecisionBlock = "block"
)

// Engine is the OPA policy engine.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine creates a new policy engine with the given policy content.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.question_policy.result"),
		rego.Module("question_policy.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// Evaluate checks whether a question may be asked. Input carries keys
// uid, question and question_len. Returns the decision and an optional
// human-readable reason.
func (e *Engine) Evaluate(ctx context.Context, input interface{}) (string, string, error) {
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return "", "", fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		// The default policy always produces a result; an empty result
		// set means a custom policy forgot its default rule.
		return DecisionAllow, "no policy result", nil
	}

	val := results[0].Expressions[0].Value
	if obj, ok := val.(map[string]interface{}); ok {
		decision, _ := obj["decision"].(string)
		reason, _ := obj["reason"].(string)
		if decision == "" {
			decision = DecisionAllow
		}
		return decision, reason, nil
	}
	if s, ok := val.(string); ok {
		return s, "", nil
	}

	return DecisionAllow, "unexpected return type", nil
}

// DefaultPolicy is the default policy content.
const DefaultPolicy = `
package question_policy

default result = {"decision": "allow"}

result = {"decision": "block", "reason": "question is empty"} {
	input.question_len == 0
}

result = {"decision": "block", "reason": "question is too long"} {
	input.question_len > 4000
}
`
