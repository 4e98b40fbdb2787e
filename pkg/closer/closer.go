// Package closer реализует упорядоченное закрытие ресурсов приложения при завершении работы.
package closer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Func — сигнатура функции закрытия ресурса.
type Func func(ctx context.Context) error

// Closer накапливает функции закрытия и запускает их в порядке LIFO.
// Ресурсы, не успевшие закрыться до отмены контекста, закрываются принудительно
// с собственным таймаутом.
type Closer struct {
	mu           sync.Mutex
	once         sync.Once
	funcs        []Func
	forceTimeout time.Duration
}

// NewCloser создает новый Closer.
// forceTimeout — время на принудительное закрытие остатков после отмены контекста в Close.
func NewCloser(forceTimeout time.Duration) *Closer {
	const defaultForceTimeout = 2 * time.Second

	if forceTimeout <= 0 {
		forceTimeout = defaultForceTimeout
	}

	return &Closer{forceTimeout: forceTimeout}
}

// Add регистрирует функцию закрытия. Последняя добавленная закрывается первой.
func (c *Closer) Add(f Func) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.funcs = append(c.funcs, f)
}

// Close запускает все зарегистрированные функции. Повторные вызовы — no-op.
func (c *Closer) Close(ctx context.Context) error {
	var err error
	c.once.Do(func() {
		c.mu.Lock()
		funcs := c.funcs
		c.mu.Unlock()

		var errs []error
		remaining := len(funcs)

		for i := len(funcs) - 1; i >= 0; i-- {
			done := make(chan error, 1)
			f := funcs[i]

			go func() {
				done <- f(ctx)
			}()

			select {
			case closeErr := <-done:
				remaining--
				if closeErr != nil {
					errs = append(errs, closeErr)
				}
			case <-ctx.Done():
				errs = append(errs, c.forceClose(funcs[:i+1])...)
				err = fmt.Errorf("shutdown interrupted, %d/%d funcs forced: %w",
					remaining, len(funcs), errors.Join(errs...))
				return
			}
		}

		if len(errs) > 0 {
			err = fmt.Errorf("shutdown finished with error(s): %w", errors.Join(errs...))
		}
	})

	return err
}

// forceClose параллельно закрывает оставшиеся ресурсы с собственным таймаутом.
func (c *Closer) forceClose(funcs []Func) []error {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)

	ctx, cancel := context.WithTimeout(context.Background(), c.forceTimeout)
	defer cancel()

	for _, f := range funcs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := f(ctx); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("forced: %w", err))
				mu.Unlock()
			}
		}()
	}

	wg.Wait()
	return errs
}
