package registration

import (
	"math/rand"
	"strings"
	"sync"
	"time"
)

const (
	TEAM_ID_PREFIX = "TEAM-"
	TEAM_ID_LENGTH = 6

	base36 = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// TeamIDGenerator produces human facing labels such as TEAM-9F3KX1.
// Labels are not checked against earlier submissions and may collide.
type TeamIDGenerator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewTeamIDGenerator(src rand.Source) *TeamIDGenerator {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &TeamIDGenerator{rnd: rand.New(src)}
}

func (g *TeamIDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	var b strings.Builder
	b.Grow(len(TEAM_ID_PREFIX) + TEAM_ID_LENGTH)
	b.WriteString(TEAM_ID_PREFIX)
	for i := 0; i < TEAM_ID_LENGTH; i++ {
		b.WriteByte(base36[g.rnd.Intn(len(base36))])
	}

	return strings.ToUpper(b.String())
}
