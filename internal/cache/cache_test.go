// Copyright 2025 The Chill Authors
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"sync"
	"testing"

	"github.com/pkg/errors"
)

func TestCoalescingMemoryCacheGetAndSet(t *testing.T) {
	c := &CoalescingMemoryCache{}
	if _, err := c.Get("missing"); err != ErrNotExist {
		t.Fatalf("want ErrNotExist, got %v", err)
	}
	if err := c.Set("key", func() (any, error) { return 42, nil }); err != nil {
		t.Fatal(err)
	}
	got, err := c.Get("key")
	if err != nil {
		t.Fatal(err)
	}
	if got != 42 {
		t.Errorf("want 42, got %v", got)
	}
	c.Del("key")
	if _, err := c.Get("key"); err != ErrNotExist {
		t.Errorf("want ErrNotExist after Del, got %v", err)
	}
}

func TestCoalescingMemoryCacheFetchRunsOnce(t *testing.T) {
	c := &CoalescingMemoryCache{}
	var calls int
	fetch := func() (any, error) {
		calls++
		return "value", nil
	}
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.GetOrSet("key", fetch); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()
	if calls != 1 {
		t.Errorf("fetch calls: want 1, got %d", calls)
	}
}

func TestCoalescingMemoryCacheErrorNotCached(t *testing.T) {
	c := &CoalescingMemoryCache{}
	boom := errors.New("boom")
	if _, err := c.GetOrSet("key", func() (any, error) { return nil, boom }); err != boom {
		t.Fatalf("want fetch error, got %v", err)
	}
	got, err := c.GetOrSet("key", func() (any, error) { return "ok", nil })
	if err != nil {
		t.Fatal(err)
	}
	if got != "ok" {
		t.Errorf("failed fetch must not be cached: got %v", got)
	}
}
