package module

import (
	"sync"
	"testing"

	"ipvault/internal/platform/testkit"
)

func TestSet_AddAndNames(t *testing.T) {
	t.Parallel()

	s := NewSet()
	s.Add(fakeModule{name: "wallet"})
	s.Add(fakeModule{name: "assets"})
	s.Add(fakeModule{name: "meta"})

	got := s.Names()
	want := []string{"assets", "meta", "wallet"}
	if len(got) != len(want) {
		t.Fatalf("Names = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Names = %v, want %v", got, want)
		}
	}
}

func TestSet_DuplicatePanics(t *testing.T) {
	t.Parallel()

	s := NewSet()
	s.Add(fakeModule{name: "storage"})
	got := testkit.MustPanic(t, func() { s.Add(fakeModule{name: "storage"}) })
	testkit.MustContain(t, testkit.PanicText(got), "duplicate module name storage")
}

func TestSet_PortsAs(t *testing.T) {
	t.Parallel()

	type Ports struct{ Session SessionPort }
	s := NewSet()
	s.Add(fakeModule{name: "wallet", ports: Ports{Session: session{addr: "0xabc"}}})
	s.Add(fakeModule{name: "meta"})

	got, ok := PortsAs[SessionPort](s, "wallet")
	if !ok || got.Address() != "0xabc" {
		t.Fatalf("PortsAs wallet = %v, %v", got, ok)
	}
	if _, ok := PortsAs[SessionPort](s, "meta"); ok {
		t.Fatalf("meta exposes no session port")
	}
	if _, ok := PortsAs[SessionPort](s, "missing"); ok {
		t.Fatalf("missing module resolved")
	}
}

func TestSet_ConcurrentAdd(t *testing.T) {
	t.Parallel()

	s := NewSet()
	names := []string{"meta", "storage", "wallet", "assets", "registrations"}
	var wg sync.WaitGroup
	for _, n := range names {
		wg.Add(1)
		go func(n string) {
			defer wg.Done()
			s.Add(fakeModule{name: n})
		}(n)
	}
	wg.Wait()
	if got := len(s.Names()); got != len(names) {
		t.Fatalf("Names len = %d, want %d", got, len(names))
	}
}
