// internal/service/orchestrator/infrastructure/rule/replenish_rule.go
package rule

import (
	"context"
	"fmt"

	"github.com/google/cel-go/cel"
)

// DefaultExpression 是默认的补货条件
const DefaultExpression = "quantity < low_water_mark"

// CELReplenishRule 是 port.ReplenishRule 的 CEL 实现。
// 表达式可以引用 quantity 和 low_water_mark 两个 int 变量，结果必须是 bool。
type CELReplenishRule struct {
	expr    string
	program cel.Program
}

// NewCELReplenishRule 在启动时编译表达式，语法或类型错误直接返回。
func NewCELReplenishRule(expr string) (*CELReplenishRule, error) {
	if expr == "" {
		expr = DefaultExpression
	}
	env, err := cel.NewEnv(
		cel.Variable("quantity", cel.IntType),
		cel.Variable("low_water_mark", cel.IntType),
	)
	if err != nil {
		return nil, fmt.Errorf("create cel env: %w", err)
	}
	ast, iss := env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return nil, fmt.Errorf("compile replenish rule %q: %w", expr, iss.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("replenish rule %q must evaluate to bool, got %s", expr, ast.OutputType())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("build replenish rule %q: %w", expr, err)
	}
	return &CELReplenishRule{expr: expr, program: prg}, nil
}

// ShouldReplenish 实现了 port.ReplenishRule 接口。
func (r *CELReplenishRule) ShouldReplenish(ctx context.Context, quantity, lowWaterMark int) (bool, error) {
	out, _, err := r.program.ContextEval(ctx, map[string]any{
		"quantity":       int64(quantity),
		"low_water_mark": int64(lowWaterMark),
	})
	if err != nil {
		return false, fmt.Errorf("evaluate replenish rule %q: %w", r.expr, err)
	}
	b, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("replenish rule %q returned %T", r.expr, out.Value())
	}
	return b, nil
}

func (r *CELReplenishRule) String() string { return r.expr }
