package main

import (
	"log"
	"os"
	sys "os"
)

func helper() {
	os.Exit(2)
}

func main() {
	defer helper()
	log.Fatal("boom")        // want `direct call log.Fatal is not allowed in main function`
	os.Exit(1)               // want `direct call os.Exit is not allowed in main function`
	sys.Exit(3)              // want `direct call os.Exit is not allowed in main function`
	func() { os.Exit(4) }() // want `direct call os.Exit is not allowed in main function`
}
