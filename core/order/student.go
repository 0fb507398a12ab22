package order

import (
	"math/rand"
	"sync"
	"time"
)

var DefaultStudentNames = []string{
	"Carlos Ruiz",
	"Ana González",
	"Luis Pérez",
	"María López",
	"Jorge Martínez",
}

// StudentNamer gives a display name to orders placed by anonymous requesters.
type StudentNamer interface {
	StudentName() string
}

type randomNamer struct {
	mu    sync.Mutex
	rnd   *rand.Rand
	names []string
}

// NewRandomNamer picks names at random from `names` (DefaultStudentNames if empty).
func NewRandomNamer(names ...string) StudentNamer {
	if len(names) == 0 {
		names = DefaultStudentNames
	}
	return &randomNamer{
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
		names: names,
	}
}

func (n *randomNamer) StudentName() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.names[n.rnd.Intn(len(n.names))]
}
