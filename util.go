package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"maps"
	"os"
	"regexp"
	"slices"
	"strings"

	"github.com/maxsupermanhd/yrpl-inspector/yrpl"
	"github.com/pkg/errors"
)

var utf8BOM = []byte{0xef, 0xbb, 0xbf}

func loadReplayFile(loadPath string) ([]byte, error) {
	st, err := os.Stat(loadPath)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if st.IsDir() {
		return nil, errors.Errorf("%q is a directory", loadPath)
	}
	replayBytes, err := os.ReadFile(loadPath)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	// keyed replays are often saved by text editors
	return bytes.TrimPrefix(replayBytes, utf8BOM), nil
}

func cleanHex(s string) string {
	return strings.NewReplacer(`^`, "", `\x`, "", " ", "", "0x", "").Replace(s)
}

func parseSignature(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	ret, err := hex.DecodeString(cleanHex(s))
	if err != nil {
		return nil, fmt.Errorf("decoding hex %q: %w", s, err)
	}
	return ret, nil
}

// packetMatcher returns nil when there is nothing to search for.
func packetMatcher(mode, term string) (func([]byte) bool, error) {
	if term == "" {
		return nil, nil
	}
	switch mode {
	case "regex-hex":
		reg, err := regexp.Compile(term)
		if err != nil {
			return nil, err
		}
		return func(b []byte) bool {
			return reg.MatchString(hex.EncodeToString(b))
		}, nil
	case "regex-plain":
		reg, err := regexp.Compile(term)
		if err != nil {
			return nil, err
		}
		return reg.Match, nil
	case "prefix-hex":
		t, err := parseSignature(term)
		if err != nil {
			return nil, err
		}
		return func(b []byte) bool {
			return bytes.HasPrefix(b, t)
		}, nil
	case "contains-hex":
		t, err := parseSignature(term)
		if err != nil {
			return nil, err
		}
		return func(b []byte) bool {
			return bytes.Contains(b, t)
		}, nil
	case "contains-plain":
		return func(b []byte) bool {
			return bytes.Contains(b, []byte(term))
		}, nil
	default:
		return nil, fmt.Errorf("unknown search mode %q", mode)
	}
}

func showCounts(counts map[yrpl.MessageID]int) {
	for _, id := range slices.Sorted(maps.Keys(counts)) {
		fmt.Printf("  %#02x %-24s %d\n", byte(id), id, counts[id])
	}
}
