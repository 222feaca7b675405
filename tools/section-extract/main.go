package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/maxsupermanhd/yrpl-inspector/yrpl"
	"github.com/pierrec/lz4/v4"
)

var (
	outDir = flag.String("out", ".", "directory for extracted sections")
	keys   = flag.String("keys", "", "comma separated extra section keys")
	plain  = flag.Bool("plain", false, "write raw bytes instead of lz4 frames")
)

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: section-extract [-out dir] [-keys a,b] [-plain] replay")
		os.Exit(2)
	}
	cfg := yrpl.DefaultConfig()
	for _, k := range strings.Split(*keys, ",") {
		if k != "" {
			cfg.SectionKeys = append(cfg.SectionKeys, k)
		}
	}
	parser := noerr(yrpl.NewParser("", cfg))
	rpl, err := parser.Decode(noerr(os.ReadFile(flag.Arg(0))))
	if rpl == nil {
		must(err)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "partial decode:", err)
	}

	base := strings.TrimSuffix(filepath.Base(flag.Arg(0)), filepath.Ext(flag.Arg(0)))
	switch {
	case rpl.Keyed != nil:
		must(writeDump(base+".raw", rpl.Keyed.Raw))
		for i, sec := range rpl.Keyed.Sections {
			must(writeDump(fmt.Sprintf("%s.%02d.%s", base, i, sec.Key), sec.Bytes))
		}
	case rpl.Legacy != nil:
		must(writeDump(base+".payload", rpl.Legacy.Payload))
	}
}

func writeDump(name string, data []byte) (err error) {
	if *plain {
		return os.WriteFile(filepath.Join(*outDir, name), data, 0644)
	}
	f, err := os.Create(filepath.Join(*outDir, name+".lz4"))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return compress(f, data)
}

func compress(w io.Writer, data []byte) error {
	zw := lz4.NewWriter(w)
	err := zw.Apply(lz4.ChecksumOption(true), lz4.SizeOption(uint64(len(data))))
	if err != nil {
		return err
	}
	_, err = zw.Write(data)
	if err != nil {
		return err
	}
	return zw.Close()
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
