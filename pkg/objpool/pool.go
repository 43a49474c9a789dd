// Package objpool переиспользует объекты с внутренним состоянием между вызовами.
// Подписчик берет из пула экземпляры hash.Hash вместо создания нового на каждую подпись.
package objpool

import "sync"

// Resetter - объект, который можно вернуть в исходное состояние.
type Resetter interface {
	Reset()
}

// Pool отдает только чистые объекты: Reset вызывается при возврате.
type Pool[T Resetter] struct {
	pool  sync.Pool
	newFn func() T
}

func New[T Resetter](newFn func() T) *Pool[T] {
	p := &Pool[T]{newFn: newFn}
	p.pool.New = func() any { return newFn() }
	return p
}

func (p *Pool[T]) Get() T {
	if obj, ok := p.pool.Get().(T); ok {
		return obj
	}
	return p.newFn()
}

func (p *Pool[T]) Put(obj T) {
	obj.Reset()
	p.pool.Put(obj)
}

// Do выдает объект на время fn и возвращает его в пул, в том числе при ошибке.
func (p *Pool[T]) Do(fn func(T) error) error {
	obj := p.Get()
	defer p.Put(obj)

	return fn(obj)
}
