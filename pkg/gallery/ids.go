package gallery

import (
	"fmt"
	"strings"
	"sync"
)

// UniqueIDs hands out HTML ids that are unique within one page.
type UniqueIDs struct {
	mu   sync.Mutex
	seen map[string]int
}

// NewUniqueIDs returns an empty id registry for a page render.
func NewUniqueIDs() *UniqueIDs {
	return &UniqueIDs{seen: map[string]int{}}
}

// Get returns id normalized to lowercase dashes, suffixed with --N after its first use.
func (u *UniqueIDs) Get(id string) string {
	id = strings.ToLower(strings.NewReplacer(" ", "-", "_", "-", "[", "-", "]", "").Replace(id))

	u.mu.Lock()
	defer u.mu.Unlock()

	u.seen[id]++
	if n := u.seen[id]; n > 1 {
		return fmt.Sprintf("%s--%d", id, n)
	}
	return id
}
