package rigid

import "fmt"

// assert panics when an internal consistency check fails.
func assert(truth bool, msg ...interface{}) {
	if !truth {
		panic(fmt.Sprint("Assertion failed: ", fmt.Sprint(msg...)))
	}
}
