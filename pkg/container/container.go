// Package container is a very small DI container using constructor
// injection. It centralizes wiring in main without external deps while
// keeping everything testable through interfaces.
package container

import (
	"fmt"
	"reflect"
	"sync"
)

var errType = reflect.TypeOf((*error)(nil)).Elem()

type provider struct {
	fn        reflect.Value
	singleton bool
}

type Container struct {
	mu        sync.Mutex
	providers map[reflect.Type]provider
	instances map[reflect.Type]reflect.Value
}

func New() *Container {
	return &Container{
		providers: make(map[reflect.Type]provider),
		instances: make(map[reflect.Type]reflect.Value),
	}
}

// Provide registers a constructor for the type of its first return value.
// Constructors may take parameters (resolved recursively) and may return
// (T) or (T, error).
func (c *Container) Provide(constructor any, singleton bool) error {
	v := reflect.ValueOf(constructor)
	if v.Kind() != reflect.Func {
		return fmt.Errorf("container: constructor must be a function")
	}
	ft := v.Type()
	if ft.NumOut() == 0 || ft.NumOut() > 2 {
		return fmt.Errorf("container: constructor must return (T) or (T, error)")
	}
	if ft.NumOut() == 2 && ft.Out(1) != errType {
		return fmt.Errorf("container: second return value must be error")
	}

	out := ft.Out(0)
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.providers[out]; exists {
		return fmt.Errorf("container: provider already registered for %v", out)
	}
	c.providers[out] = provider{fn: v, singleton: singleton}
	return nil
}

// Resolve fills target (a non-nil pointer) with an instance of its type.
func (c *Container) Resolve(target any) error {
	ptr := reflect.ValueOf(target)
	if ptr.Kind() != reflect.Ptr || ptr.IsNil() {
		return fmt.Errorf("container: target must be a non-nil pointer")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	val, err := c.get(ptr.Elem().Type(), make(map[reflect.Type]bool))
	if err != nil {
		return err
	}
	ptr.Elem().Set(val)
	return nil
}

// Invoke calls fn with its parameters resolved from the container.
func (c *Container) Invoke(fn any) error {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		return fmt.Errorf("container: fn must be a function")
	}
	ft := v.Type()
	args := make([]reflect.Value, ft.NumIn())
	c.mu.Lock()
	for i := range args {
		val, err := c.get(ft.In(i), make(map[reflect.Type]bool))
		if err != nil {
			c.mu.Unlock()
			return err
		}
		args[i] = val
	}
	c.mu.Unlock()
	outs := v.Call(args)
	if len(outs) > 0 {
		if last := outs[len(outs)-1]; last.Type() == errType && !last.IsNil() {
			return last.Interface().(error)
		}
	}
	return nil
}

// get resolves a type, constructing it (and its dependencies) on demand.
// Caller holds the lock. visiting guards against provider cycles.
func (c *Container) get(t reflect.Type, visiting map[reflect.Type]bool) (reflect.Value, error) {
	if inst, ok := c.instances[t]; ok {
		return inst, nil
	}
	p, ok := c.providers[t]
	if !ok {
		return reflect.Value{}, fmt.Errorf("container: no provider for %v", t)
	}
	if visiting[t] {
		return reflect.Value{}, fmt.Errorf("container: dependency cycle involving %v", t)
	}
	visiting[t] = true
	defer delete(visiting, t)

	ft := p.fn.Type()
	args := make([]reflect.Value, ft.NumIn())
	for i := range args {
		arg, err := c.get(ft.In(i), visiting)
		if err != nil {
			return reflect.Value{}, err
		}
		args[i] = arg
	}

	outs := p.fn.Call(args)
	if len(outs) == 2 && !outs[1].IsNil() {
		return reflect.Value{}, outs[1].Interface().(error)
	}
	if p.singleton {
		c.instances[t] = outs[0]
	}
	return outs[0], nil
}
