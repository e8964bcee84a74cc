package receipt

import (
	"fmt"
	"math/rand"
	"time"
)

// Generate returns a receipt number of the form "BE" followed by the
// last six digits of the current unix-millisecond timestamp and three
// random digits. Collisions are possible in theory; the sales table
// carries a unique index on the column as a backstop.
func Generate() string {
	return generateAt(time.Now())
}

func generateAt(t time.Time) string {
	millis := t.UnixMilli()
	return fmt.Sprintf("BE%06d%03d", millis%1000000, rand.Intn(1000))
}
