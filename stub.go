package main

import "kfs/kernel/kmain"

// main makes a dummy call to the actual kernel entrypoint. It is
// intentionally defined to prevent the Go compiler from optimizing away the
// real kernel code as it is not aware of the rt0 code that calls Kmain.
func main() {
	kmain.Kmain()
}
