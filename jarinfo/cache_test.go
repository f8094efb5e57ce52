package jarinfo

import (
	"sync"
	"testing"

	"go.uber.org/zap"
)

func TestCache_ReusesOpenArchive(t *testing.T) {
	path := writeJar(t, testEntry{name: "a.txt", content: "a"})
	c, err := NewCache(2, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	j1, release1, err := c.Acquire(path)
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	j2, release2, err := c.Acquire(path)
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if j1 != j2 {
		t.Error("second Acquire should return the cached archive")
	}
	release1()
	release2()
	release2() // releasing twice is harmless
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
	c.Purge()
	if c.Len() != 0 {
		t.Errorf("Len() after Purge = %d, want 0", c.Len())
	}
}

func TestCache_EvictedArchiveStaysUsableUntilReleased(t *testing.T) {
	first := writeJar(t, testEntry{name: "first.txt", content: "1"})
	second := writeJar(t, testEntry{name: "second.txt", content: "2"})
	c, err := NewCache(1, nil)
	if err != nil {
		t.Fatal(err)
	}

	j, release, err := c.Acquire(first)
	if err != nil {
		t.Fatal(err)
	}
	_, release2, err := c.Acquire(second)
	if err != nil {
		t.Fatal(err)
	}
	defer release2()

	// first has been evicted but is still held.
	data, err := j.ReadFile("first.txt")
	if err != nil || string(data) != "1" {
		t.Errorf("ReadFile() after eviction = %q, %v", data, err)
	}
	release()

	if _, _, err := c.Acquire("/nonexistent/archive.jar"); err == nil {
		t.Error("Acquire() of a missing archive should fail")
	}
}

func TestCache_ConcurrentAcquire(t *testing.T) {
	paths := []string{
		writeJar(t, testEntry{name: "a.txt", content: "a"}),
		writeJar(t, testEntry{name: "b.txt", content: "b"}),
	}
	c, err := NewCache(4, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Purge()

	const callers = 8
	got := make([]*JarInfo, callers)
	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			j, release, err := c.Acquire(paths[i%2])
			if err != nil {
				t.Errorf("Acquire() error = %v", err)
				return
			}
			defer release()
			if _, err := j.ReadFile(j.entries[1].Name()); err != nil {
				t.Errorf("ReadFile() error = %v", err)
			}
			got[i] = j
		}()
	}
	wg.Wait()

	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
	for i := 2; i < callers; i++ {
		if got[i] != got[i%2] {
			t.Errorf("caller %d got a different archive than caller %d", i, i%2)
		}
	}
}
