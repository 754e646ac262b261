package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter — скользящее окно: не более limit событий на ключ за window.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// bucket хранит зачтённые вызовы и окно своего ключа. Один инстанс
// лимитера обслуживает ключи с разными окнами (логин 10м, сброс 1ч),
// поэтому протухание ключа считается по его окну, а не по окну
// текущего вызова.
type bucket struct {
	stamps []time.Time
	window time.Duration
}

// MemoryLimiter — вариант для одного процесса. Состояние под мьютексом,
// а не глобальная мапа: инстанс внедряется зависимостью и изолируется в тестах.
type MemoryLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	// время последней чистки пустых ключей
	lastSweep time.Time
	now       func() time.Time
}

const sweepEvery = 10 * time.Minute

func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string, limit int, window time.Duration) (bool, error) {
	if limit <= 0 {
		return false, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-window)

	b := l.buckets[key]
	if b == nil {
		b = &bucket{}
		l.buckets[key] = b
	}
	b.window = window

	kept := b.stamps[:0]
	for _, ts := range b.stamps {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	b.stamps = kept

	if len(kept) >= limit {
		l.sweep(now)
		return false, nil
	}

	b.stamps = append(kept, now)
	l.sweep(now)
	return true, nil
}

// sweep выкидывает протухшие ключи целиком, иначе мапа растёт
// на каждом новом IP до бесконечности. Живость ключа проверяется
// по его собственному окну. Вызывается под мьютексом.
func (l *MemoryLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < sweepEvery {
		return
	}
	l.lastSweep = now
	for k, b := range l.buckets {
		cutoff := now.Add(-b.window)
		alive := false
		for _, ts := range b.stamps {
			if ts.After(cutoff) {
				alive = true
				break
			}
		}
		if !alive {
			delete(l.buckets, k)
		}
	}
}
