package testkit

import (
	"errors"
	"sync"
	"testing"
	"time"
)

var (
	gateway = "https://ipfs.io/ipfs/"
	pin     = func(cid string) error { return nil }
)

func TestSwap_Restores(t *testing.T) {
	t.Run("swapped", func(t *testing.T) {
		Swap(t, &gateway, "http://127.0.0.1:8080/ipfs/")
		Swap(t, &pin, func(string) error { return errors.New("pinning offline") })
		if gateway != "http://127.0.0.1:8080/ipfs/" || pin("bafy") == nil {
			t.Fatalf("swap did not apply")
		}
	})
	if gateway != "https://ipfs.io/ipfs/" || pin("bafy") != nil {
		t.Fatalf("swap not restored: %q", gateway)
	}
}

func TestSerial_Excludes(t *testing.T) {
	var (
		mu      sync.Mutex
		active  int
		overlap bool
	)
	enter := func() {
		mu.Lock()
		defer mu.Unlock()
		active++
		overlap = overlap || active > 1
	}
	leave := func() {
		mu.Lock()
		active--
		mu.Unlock()
	}

	t.Run("group", func(t *testing.T) {
		for _, name := range []string{"upload", "register", "connect"} {
			t.Run(name, func(t *testing.T) {
				t.Parallel()
				Serial(t)
				enter()
				time.Sleep(10 * time.Millisecond)
				leave()
			})
		}
	})
	if overlap {
		t.Fatalf("Serial let tests overlap")
	}
}

func TestMustPanic(t *testing.T) {
	t.Parallel()

	got := MustPanic(t, func() { panic("module: duplicate module name wallet") })
	MustContain(t, PanicText(got), "duplicate module name")
}
