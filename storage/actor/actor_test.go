package actor

import (
	"fmt"
	"testing"

	"golang.org/x/sync/errgroup"

	"github.com/weftnet/weft/content"
	"github.com/weftnet/weft/storage"
	"github.com/weftnet/weft/storage/memcas"
	"github.com/weftnet/weft/storage/testkit"
)

func TestActor_Conformance(t *testing.T) {
	testkit.RunCASConformance(t, func(t *testing.T) storage.ContentAddressableStorage {
		t.Helper()
		s := New(memcas.New(), nil)
		t.Cleanup(s.Close)
		return s
	})
}

// unsyncedCAS is deliberately not safe for concurrent use; the race detector
// will flag any access that bypasses the actor's serialization.
type unsyncedCAS struct {
	objects map[content.Address][]byte
}

func (c *unsyncedCAS) Add(ac content.Addressable) error {
	b, err := ac.Content()
	if err != nil {
		return err
	}
	c.objects[ac.Address()] = b
	return nil
}

func (c *unsyncedCAS) Contains(addr content.Address) bool {
	_, ok := c.objects[addr]
	return ok
}

func (c *unsyncedCAS) Fetch(addr content.Address) ([]byte, error) {
	b, ok := c.objects[addr]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return b, nil
}

func TestActor_SerializesConcurrentCallers(t *testing.T) {
	s := New(&unsyncedCAS{objects: make(map[content.Address][]byte)}, nil)
	defer s.Close()

	var g errgroup.Group
	for i := 0; i < 16; i++ {
		i := i
		g.Go(func() error {
			c := content.Raw(fmt.Sprintf(`{"writer":%d}`, i))
			if err := s.Add(c); err != nil {
				return err
			}
			if !s.Contains(c.Address()) {
				return fmt.Errorf("writer %d: Contains false after Add", i)
			}
			b, err := s.Fetch(c.Address())
			if err != nil {
				return err
			}
			if string(b) != string(c) {
				return fmt.Errorf("writer %d: bytes mismatch", i)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
}

func TestActor_ClosedStoreRejectsOperations(t *testing.T) {
	s := New(memcas.New(), nil)
	s.Close()
	s.Close() // idempotent

	if err := s.Add(content.Raw(`{}`)); err != ErrClosed {
		t.Fatalf("Add after Close: got %v want ErrClosed", err)
	}
	if _, err := s.Fetch(content.Raw(`{}`).Address()); err != ErrClosed {
		t.Fatalf("Fetch after Close: got %v want ErrClosed", err)
	}
	if s.Contains(content.Raw(`{}`).Address()) {
		t.Fatalf("Contains after Close should report false")
	}
}

func TestActor_InstancesIndependent(t *testing.T) {
	a := New(memcas.New(), nil)
	b := New(memcas.New(), nil)
	defer a.Close()
	defer b.Close()

	c := content.Raw(`{"only":"a"}`)
	if err := a.Add(c); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if b.Contains(c.Address()) {
		t.Fatalf("content leaked across actor instances")
	}
}
