package exrender

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"testing"
	"time"
)

// Compile-time interface check.
var _ interface {
	Acquire(context.Context) (*Renderer, error)
	Release(*Renderer)
	Size() int
	Close() error
} = (*RendererPool)(nil)

func newTestPool(n int) *RendererPool {
	p := NewRendererPool(n)
	p.newFunc = func(opts ...Option) (*Renderer, error) {
		return NewRenderer(append(opts, withPDFConverter(&mockPDFConverter{}))...)
	}
	return p
}

func TestResolvePoolSize(t *testing.T) {
	t.Parallel()

	gomaxprocs := runtime.GOMAXPROCS(0)
	auto := min(max(gomaxprocs/cpuDivisor, MinPoolSize), MaxPoolSize)

	tests := []struct {
		name    string
		workers int
		want    int
	}{
		{"explicit takes priority", 4, 4},
		{"explicit above cap is kept", 20, 20},
		{"zero uses GOMAXPROCS", 0, auto},
		{"negative uses GOMAXPROCS", -1, auto},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ResolvePoolSize(tt.workers); got != tt.want {
				t.Errorf("ResolvePoolSize(%d) = %d, want %d", tt.workers, got, tt.want)
			}
		})
	}
}

func TestNewRendererPool_Size(t *testing.T) {
	t.Parallel()

	if got := NewRendererPool(0).Size(); got != MinPoolSize {
		t.Errorf("Size() = %d, want %d", got, MinPoolSize)
	}
	if got := NewRendererPool(3).Size(); got != 3 {
		t.Errorf("Size() = %d, want 3", got)
	}
}

func TestRendererPool_AcquireRelease(t *testing.T) {
	t.Parallel()

	p := newTestPool(1)
	defer p.Close()

	ctx := context.Background()
	first, err := p.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	waitCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	if _, err := p.Acquire(waitCtx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Acquire() on exhausted pool error = %v, want DeadlineExceeded", err)
	}

	p.Release(first)
	second, err := p.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire() after Release error = %v", err)
	}
	if second != first {
		t.Error("pool should reuse the released renderer")
	}
}

func TestRendererPool_CreationError(t *testing.T) {
	t.Parallel()

	boom := errors.New("no templates")
	p := NewRendererPool(1)
	p.newFunc = func(...Option) (*Renderer, error) { return nil, boom }

	if _, err := p.Acquire(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("Acquire() error = %v, want %v", err, boom)
	}

	// The failed creation must not consume capacity.
	p.newFunc = newTestPool(1).newFunc
	if _, err := p.Acquire(context.Background()); err != nil {
		t.Errorf("Acquire() after failure error = %v", err)
	}
}

func TestRendererPool_Close(t *testing.T) {
	t.Parallel()

	p := newTestPool(2)
	r, err := p.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	pdfConv := r.pdfConverter.(*mockPDFConverter)

	if err := p.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if !pdfConv.closed {
		t.Error("Close() should close created renderers")
	}
	if err := p.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	p.Release(r) // no-op after close
	if _, err := p.Acquire(context.Background()); !errors.Is(err, ErrPoolClosed) {
		t.Errorf("Acquire() after Close error = %v, want ErrPoolClosed", err)
	}
}

func TestRendererPool_CloseDuringCreation(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	proceed := make(chan struct{})
	pdfConv := &mockPDFConverter{}

	p := NewRendererPool(1)
	p.newFunc = func(opts ...Option) (*Renderer, error) {
		close(started)
		<-proceed
		return NewRenderer(append(opts, withPDFConverter(pdfConv))...)
	}

	errc := make(chan error, 1)
	go func() {
		_, err := p.Acquire(context.Background())
		errc <- err
	}()

	<-started
	if err := p.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	close(proceed)

	if err := <-errc; !errors.Is(err, ErrPoolClosed) {
		t.Errorf("Acquire() error = %v, want ErrPoolClosed", err)
	}
	if !pdfConv.closed {
		t.Error("renderer created after Close should be closed")
	}
}

func TestRendererPool_Concurrent(t *testing.T) {
	t.Parallel()

	p := newTestPool(3)
	defer p.Close()

	var wg sync.WaitGroup
	for range 12 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, err := p.Acquire(context.Background())
			if err != nil {
				t.Error(err)
				return
			}
			defer p.Release(r)
			if _, err := r.Render(context.Background(), Input{Exercise: sampleExercise(), HTMLOnly: true}); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	p.mu.Lock()
	created := p.created
	p.mu.Unlock()
	if created > 3 {
		t.Errorf("created %d renderers, want at most 3", created)
	}
}
