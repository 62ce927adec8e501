package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestCache_SetAndGet(t *testing.T) {
	c := New(1 * time.Second)
	defer c.Close()

	c.Set("companies", []string{"Acme"})

	val, found := c.Get("companies")
	if !found {
		t.Fatal("Expected to find companies")
	}
	if got := val.([]string); len(got) != 1 || got[0] != "Acme" {
		t.Errorf("Expected [Acme], got %v", got)
	}
}

func TestCache_Expiration(t *testing.T) {
	c := New(100 * time.Millisecond)
	defer c.Close()

	c.Set("key1", "value1")

	_, found := c.Get("key1")
	if !found {
		t.Error("Expected to find key1 immediately")
	}

	time.Sleep(150 * time.Millisecond)

	_, found = c.Get("key1")
	if found {
		t.Error("Expected key1 to be expired")
	}
}

func TestCache_SetWithTTL(t *testing.T) {
	c := New(1 * time.Hour)
	defer c.Close()

	c.SetWithTTL("short", "v", 50*time.Millisecond)
	time.Sleep(80 * time.Millisecond)

	if _, found := c.Get("short"); found {
		t.Error("Expected custom TTL to override default")
	}
}

func TestCache_Clear(t *testing.T) {
	c := New(1 * time.Second)
	defer c.Close()

	c.Set("key1", "value1")
	c.Clear("key1")

	_, found := c.Get("key1")
	if found {
		t.Error("Expected key1 to be cleared")
	}
}

func TestCache_Flush(t *testing.T) {
	c := New(1 * time.Minute)
	defer c.Close()

	c.Set("companies", 1)
	c.Set("programs", 2)
	c.Flush()

	if c.Len() != 0 {
		t.Errorf("Expected empty cache after flush, got %d entries", c.Len())
	}

	// Flushing an empty cache is a no-op
	c.Flush()
}

func TestCache_ConcurrentFlush(t *testing.T) {
	c := New(1 * time.Minute)
	defer c.Close()

	for i := 0; i < 50; i++ {
		c.Set(fmt.Sprintf("key-%d", i), i)
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Flush()
		}()
	}
	wg.Wait()

	if c.Len() != 0 {
		t.Errorf("Expected empty cache, got %d entries", c.Len())
	}
}

func TestCache_CloseIdempotent(t *testing.T) {
	c := New(1 * time.Minute)
	c.Close()
	c.Close()
}
