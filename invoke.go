package private

import "fmt"

// Method is a callable stored in a container. self is the reference the
// method was invoked on.
type Method[T any] func(self *T, args ...any) (any, error)

// InvokeFunc is the core function type for running a stored method.
type InvokeFunc[T any] func(ref *T, name string, args []any) (any, error)

// InvokeMiddleware wraps method invocation. It can inspect or replace the
// arguments, the result, or skip the call entirely.
type InvokeMiddleware[T any] func(next InvokeFunc[T]) InvokeFunc[T]

func noop[T any](*T, ...any) (any, error) {
	return nil, nil
}

// Use adds middleware to the invoke chain.
// Middleware runs in the order it is added.
func (s *Store[T]) Use(middleware ...InvokeMiddleware[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.middleware = append(s.middleware, middleware...)
}

// Invoke calls the method stored under name with ref bound as its receiver.
//
// An absent method is replaced by a no-op Method that is written into the
// container, like Get with a default. The method runs without the store lock
// held, so it may use the store itself.
func (s *Store[T]) Invoke(ref *T, name string, args ...any) (any, error) {
	if ref == nil {
		return nil, opError("invoke", ErrMissingReference)
	}
	if name == "" {
		return nil, opError("invoke", ErrMissingMethodName)
	}

	s.mu.Lock()
	chain := append([]InvokeMiddleware[T](nil), s.middleware...)
	s.mu.Unlock()

	var handler InvokeFunc[T] = s.callMethod
	for i := len(chain) - 1; i >= 0; i-- {
		handler = chain[i](handler)
	}

	result, err := handler(ref, name, args)
	return result, opError("invoke", err)
}

// callMethod resolves and runs the stored method.
func (s *Store[T]) callMethod(ref *T, name string, args []any) (any, error) {
	s.mu.Lock()
	v, err := s.get(ref, name, Method[T](noop[T]))
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	switch fn := v.(type) {
	case Method[T]:
		if fn != nil {
			s.metrics.invocations.Inc()
			return fn(ref, args...)
		}
	case func(*T, ...any) (any, error):
		if fn != nil {
			s.metrics.invocations.Inc()
			return fn(ref, args...)
		}
	}
	return nil, fmt.Errorf("%w: %q holds %T", ErrNotCallable, name, v)
}
