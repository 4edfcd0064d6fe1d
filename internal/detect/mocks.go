package detect

import (
	"encoding/base64"
	"fmt"
)

// mockAllocator hands out sequential mock values per category within a single
// detection call. Counters are scoped to the allocator so independent calls
// on identical input produce identical output.
type mockAllocator struct {
	counters map[Category]int
	byKey    map[string]string // "type|original" -> replacement
}

func newMockAllocator() *mockAllocator {
	return &mockAllocator{
		counters: make(map[Category]int),
		byKey:    make(map[string]string),
	}
}

// replacementFor returns the mock value for an original, allocating the next
// sequential value on first sight and reusing it afterwards.
func (a *mockAllocator) replacementFor(c Category, original string) string {
	key := string(c) + "|" + original
	if repl, ok := a.byKey[key]; ok {
		return repl
	}

	a.counters[c]++
	repl := mockValue(c, a.counters[c])
	a.byKey[key] = repl
	return repl
}

// mockValue produces the nth mock value for a category. Every value is
// derived from n alone, with no randomness, so repeated runs on identical
// input are byte-for-byte reproducible.
func mockValue(c Category, n int) string {
	switch c {
	case CategoryEmail:
		return fmt.Sprintf("user%d@example.com", n)
	case CategoryIPAddress:
		return fmt.Sprintf("10.0.0.%d", n)
	case CategoryHostname:
		return fmt.Sprintf("host%d.example.local", n)
	case CategoryAPIKey:
		return fmt.Sprintf("APIKEY_REDACTED_%d", n)
	case CategoryGUID:
		return fmt.Sprintf("00000000-0000-0000-0000-%012d", n)
	case CategorySSHKey:
		blob := base64.StdEncoding.EncodeToString(mockKeyBytes(n, 64))
		return fmt.Sprintf("ssh-rsa %s sanitized%d@example.local", blob, n)
	case CategorySSHFingerprint:
		return "SHA256:" + base64.RawStdEncoding.EncodeToString(mockKeyBytes(n, 32))
	default:
		return fmt.Sprintf("REDACTED_%d", n)
	}
}

// mockKeyBytes synthesizes a byte sequence from the allocation index.
func mockKeyBytes(n, size int) []byte {
	b := make([]byte, size)
	for i := range b {
		b[i] = byte((n*131 + i*17) % 251)
	}
	return b
}
