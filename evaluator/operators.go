package evaluator

import "github.com/risor-io/monkey/object"

func evalPrefix(operator string, right object.Object) object.Object {
	switch operator {
	case "!":
		return object.NativeBool(!object.IsTruthy(right))
	case "-":
		integer, ok := right.(*object.Integer)
		if !ok {
			return object.Errorf("unknown operator: -%s", right.Type())
		}
		return object.NewInteger(-integer.Value)
	}
	return object.Errorf("unknown operator: %s%s", operator, right.Type())
}

func evalInfix(operator string, left, right object.Object) object.Object {
	switch {
	case operator == "==":
		return object.NativeBool(object.Equal(left, right))
	case operator == "!=":
		return object.NativeBool(!object.Equal(left, right))
	case left.Type() == object.INTEGER && right.Type() == object.INTEGER:
		return evalIntegerInfix(operator, left.(*object.Integer).Value, right.(*object.Integer).Value)
	case left.Type() == object.STRING && right.Type() == object.STRING && operator == "+":
		return object.NewString(left.(*object.String).Value + right.(*object.String).Value)
	case left.Type() != right.Type():
		return object.Errorf("type mismatch: %s %s %s", left.Type(), operator, right.Type())
	}
	return object.Errorf("unknown operator: %s %s %s", left.Type(), operator, right.Type())
}

func evalIntegerInfix(operator string, left, right int64) object.Object {
	switch operator {
	case "+":
		return object.NewInteger(left + right)
	case "-":
		return object.NewInteger(left - right)
	case "*":
		return object.NewInteger(left * right)
	case "/":
		if right == 0 {
			return object.Errorf("division by zero")
		}
		return object.NewInteger(left / right)
	case "<":
		return object.NativeBool(left < right)
	case ">":
		return object.NativeBool(left > right)
	}
	return object.Errorf("unknown operator: INTEGER %s INTEGER", operator)
}

func evalIndex(left, index object.Object) object.Object {
	switch left := left.(type) {
	case *object.Array:
		i, ok := index.(*object.Integer)
		if !ok {
			return object.Errorf("index operator not supported: %s", left.Type())
		}
		return left.Index(i.Value)
	case *object.Hash:
		value, err := left.Get(index)
		if err != nil {
			return err
		}
		return value
	}
	return object.Errorf("index operator not supported: %s", left.Type())
}
