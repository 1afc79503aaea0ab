package layout

// stack is a persistent stack: push and pop return new stacks and leave
// the receiver unchanged. Copies share structure, which makes engine state
// snapshots cheap. Popping the base element is a no-op.
type stack[T any] struct {
	top  *stackNode[T]
	base T
}

type stackNode[T any] struct {
	value T
	next  *stackNode[T]
}

func newStack[T any](base T) stack[T] {
	return stack[T]{base: base}
}

func (s stack[T]) push(v T) stack[T] {
	return stack[T]{top: &stackNode[T]{value: v, next: s.top}, base: s.base}
}

func (s stack[T]) pop() stack[T] {
	if s.top == nil {
		return s
	}
	return stack[T]{top: s.top.next, base: s.base}
}

func (s stack[T]) peek() T {
	if s.top == nil {
		return s.base
	}
	return s.top.value
}

func (s stack[T]) isEmpty() bool {
	return s.top == nil
}
