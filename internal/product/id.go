package product

import (
	"fmt"
	"hash/fnv"
	"regexp"
	"time"
)

// IDPattern matches identifiers produced by GenerateID
var IDPattern = regexp.MustCompile(`^pub_\d+_\d{1,4}$`)

// GenerateID builds a publication ID from the publish instant and the title:
// pub_<unix millis>_<fnv32a(title) mod 10000>. Two publishes of the same title
// within one millisecond collide.
func GenerateID(title string, now time.Time) string {
	h := fnv.New32a()
	h.Write([]byte(title))
	return fmt.Sprintf("pub_%d_%d", now.UnixMilli(), h.Sum32()%10000)
}
