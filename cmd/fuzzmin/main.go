// Command fuzzmin shrinks a flux-encoded input that triggers a given
// decode failure down to the smallest byte sequence reproducing the
// same ErrorKind (or panic). It exists to turn a large fuzz-corpus
// crasher into a minimal regression test input.
//
// Grounded on the teacher's pairing of its own fuzz.go with
// github.com/dgryski/go-ddmin in go.mod — the teacher declares the
// dependency for exactly this purpose but never calls it from any
// file in its tree; this command is where it is actually wired in.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/crous/flux/flux"
	"github.com/dgryski/go-ddmin"
)

func main() {
	var wantKind string
	flag.StringVar(&wantKind, "kind", "", "ErrorKind the minimized input must still reproduce, written as ErrorKind.String() prints it (e.g. \"truncated document\"); empty means \"reproduces a panic\"")
	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatal("usage: fuzzmin -kind=<ErrorKind.String() text> <path-to-crashing-input>")
	}

	orig, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}

	interesting := func(candidate []byte) (ok bool) {
		defer func() {
			if r := recover(); r != nil {
				ok = wantKind == ""
			}
		}()

		d := &flux.Decoder{}
		_, err := d.DecodeValue(candidate)
		if wantKind == "" {
			return false // no panic, not interesting
		}
		var de *flux.DecodeError
		if err == nil {
			return false
		}
		if !asDecodeError(err, &de) {
			return false
		}
		return de.Kind.String() == wantKind
	}

	if !interesting(orig) {
		log.Fatal("the original input does not reproduce the requested failure; nothing to minimize")
	}

	minimized := ddmin.Minimize(orig, func(candidate []byte) ddmin.Result {
		if interesting(candidate) {
			return ddmin.Fail
		}
		return ddmin.Pass
	})
	fmt.Printf("minimized %d bytes -> %d bytes\n", len(orig), len(minimized))
	os.Stdout.Write(minimized)
}

func asDecodeError(err error, target **flux.DecodeError) bool {
	de, ok := err.(*flux.DecodeError)
	if ok {
		*target = de
	}
	return ok
}
