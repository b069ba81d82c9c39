package registration

import (
	"fmt"
	"math/rand/v2"
)

// NewCode returns prefix-#### with #### in [1000, 9999]. Collisions are not checked.
func NewCode(prefix string, intn func(int) int) string {
	if intn == nil {
		intn = rand.IntN
	}
	return fmt.Sprintf("%s-%d", prefix, 1000+intn(9000))
}
