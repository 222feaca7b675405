package main

import (
	"bytes"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/maxsupermanhd/yrpl-inspector/probe"
	"github.com/maxsupermanhd/yrpl-inspector/yrpl"
)

var (
	outDir = flag.String("out", ".", "directory for per message dumps")
	unique = flag.Bool("unique", true, "skip payloads already dumped for the same message id")
)

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: packet-postprocess [-out dir] [-unique=false] replay")
		os.Exit(2)
	}
	rpl := noerr(yrpl.Decode(noerr(readReplay(flag.Arg(0)))))

	idSeparated := map[yrpl.MessageID][][]byte{}
	seen := map[yrpl.MessageID]map[uint64]bool{}
	for _, pk := range rpl.Packets {
		if *unique {
			if seen[pk.ID] == nil {
				seen[pk.ID] = map[uint64]bool{}
			}
			fp := probe.Fingerprint(pk.Payload)
			if seen[pk.ID][fp] {
				continue
			}
			seen[pk.ID][fp] = true
		}
		idSeparated[pk.ID] = append(idSeparated[pk.ID], pk.Payload)
	}
	for k, v := range idSeparated {
		ret := strings.Builder{}
		noerr(ret.WriteString("# " + k.String() + "\n"))
		for _, vv := range v {
			noerr(ret.WriteString(hex.Dump(vv) + "\n"))
		}
		must(os.WriteFile(filepath.Join(*outDir, fmt.Sprintf("%03d.txt", k)), []byte(ret.String()), 0644))
	}
}

func readReplay(p string) ([]byte, error) {
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, err
	}
	return bytes.TrimPrefix(b, []byte{0xef, 0xbb, 0xbf}), nil
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func noerr[T any](ret T, err error) T {
	must(err)
	return ret
}
