package evaluator

import (
	"fmt"

	"github.com/cwbudde/argon/ast"
	"github.com/cwbudde/argon/internal/env"
	"github.com/cwbudde/argon/internal/runtime"
)

// BuildClass evaluates a ClassDecl/ClassExpr into a runtime.ClassValue
// (spec §3.2/§4.2's Class rule): static-field initializers and static
// blocks run immediately in declaration order with `this` bound to the
// class and the class's own name visible during initialization;
// instance-field initializers are only recorded here for per-`new` replay.
func BuildClass(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, decl *ast.ClassDecl) (*runtime.ClassValue, error) {
	cls := &runtime.ClassValue{
		Name:        decl.Name,
		Methods:     make(map[string]*runtime.ClassMethod),
		Statics:     make(map[string]*runtime.ClassMethod),
		Getters:     make(map[string]*runtime.ClassMethod),
		Setters:     make(map[string]*runtime.ClassMethod),
		StaticProps: make(map[string]runtime.Value),
	}

	classScope := env.NewEnclosed(scope)
	cls.Closure = classScope
	if decl.Name != "" {
		classScope.Define(decl.Name, cls)
	}

	if decl.SuperClass != nil {
		superVal, err := ev.Eval(ctx, scope, decl.SuperClass)
		if err != nil {
			return nil, err
		}
		super, ok := superVal.(*runtime.ClassValue)
		if !ok {
			return nil, fmt.Errorf("TypeError: Class extends value is not a constructor")
		}
		cls.Super = super
	}

	for _, m := range decl.Members {
		name := m.Name
		switch m.Kind {
		case "method":
			method := &runtime.ClassMethod{Name: name, Params: m.Params, Body: m.Body, Async: m.Async, Generator: m.Generator, Private: m.Private}
			if m.Static {
				cls.Statics[name] = method
			} else {
				cls.Methods[name] = method
			}
		case "get":
			cls.Getters[name] = &runtime.ClassMethod{Name: name, Params: m.Params, Body: m.Body, Private: m.Private}
		case "set":
			cls.Setters[name] = &runtime.ClassMethod{Name: name, Params: m.Params, Body: m.Body, Private: m.Private}
		case "field":
			if m.Static {
				var v runtime.Value = runtime.Undefined
				if m.FieldInit != nil {
					fieldScope := env.NewEnclosed(classScope)
					fieldScope.Define("this", cls)
					val, err := ev.Eval(ctx, fieldScope, m.FieldInit)
					if err != nil {
						return nil, err
					}
					v = val
				}
				cls.StaticOrder = append(cls.StaticOrder, name)
				cls.StaticProps[name] = v
			} else {
				cls.FieldInits = append(cls.FieldInits, runtime.FieldInit{Name: name, Private: m.Private, Init: m.FieldInit})
			}
		case "static-block":
			blockScope := env.NewEnclosed(classScope)
			blockScope.Define("this", cls)
			r := ev.ExecBlock(ctx, blockScope, m.StaticBlockBody.Statements)
			if r.Kind == ThrowSignal {
				return nil, &thrownValue{value: r.Value}
			}
		}
	}

	return cls, nil
}

// Instantiate implements `new Class(args...)` (spec §3.2/§4.2): replays
// instance-field initializers in declaration order, walking the
// superclass chain from the root down, then invokes the most-derived
// `constructor` method if one exists.
func Instantiate(ev *Evaluator, ctx EvaluationContext, cls *runtime.ClassValue, args []runtime.Value) (*runtime.InstanceValue, error) {
	inst := runtime.NewInstance(cls)

	var chain []*runtime.ClassValue
	for c := cls; c != nil; c = c.Super {
		chain = append([]*runtime.ClassValue{c}, chain...)
	}
	for _, c := range chain {
		fieldScope, _ := c.Closure.(*env.Environment)
		scope := env.NewEnclosed(fieldScope)
		scope.Define("this", inst)
		for _, fi := range c.FieldInits {
			var v runtime.Value = runtime.Undefined
			if fi.Init != nil {
				val, err := ev.Eval(ctx, scope, fi.Init)
				if err != nil {
					return nil, err
				}
				v = val
			}
			if fi.Private {
				inst.SetPrivate(c, fi.Name, v)
			} else {
				inst.Set(fi.Name, v)
			}
		}
	}

	if ctor, declClass := cls.Lookup("constructor"); ctor != nil {
		if _, err := callMethodOn(ev, ctx, inst, declClass, ctor, args); err != nil {
			return nil, err
		}
	}
	return inst, nil
}

func callMethodOn(ev *Evaluator, ctx EvaluationContext, recv runtime.Value, declClass *runtime.ClassValue, m *runtime.ClassMethod, args []runtime.Value) (runtime.Value, error) {
	fn := &runtime.FunctionValue{
		Name: m.Name, Params: m.Params, Body: m.Body,
		Async: m.Async, Generator: m.Generator, Closure: declClass.Closure,
	}
	return callUserFunction(ev, ctx, fn, recv, args)
}
