// Command fluxdump decodes one or more flux-encoded files (or stdin)
// and pretty-prints the decoded value tree. Grounded on the teacher's
// cmd/dsrl tool: same flag/ioutil/spew shape, adapted to this codec.
package main

import (
	"flag"
	"io"
	"log"
	"os"

	"github.com/crous/flux/flux"
	"github.com/davecgh/go-spew/spew"
)

func process(name string, b []byte) {
	v, err := flux.Decode(b)
	if err != nil {
		log.Fatalf("error decoding %s: %s", name, err)
	}
	spew.Dump(v)
}

func main() {
	flag.Parse()

	if flag.NArg() == 0 {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			log.Fatal(err)
		}
		process("stdin", b)
		return
	}

	for _, arg := range flag.Args() {
		b, err := os.ReadFile(arg)
		if err != nil {
			log.Fatal(err)
		}
		process(arg, b)
	}
}
