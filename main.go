package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/maxsupermanhd/yrpl-inspector/probe"
	"github.com/maxsupermanhd/yrpl-inspector/yrpl"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

var (
	cachePath     = flag.String("cache", "cache.json", "size policy cache file, empty to disable")
	verbose       = flag.Bool("v", false, "debug logging")
	dialectFlag   = flag.String("dialect", "auto", "container dialect: auto, legacy, keyed, keyed-raw")
	keysFlag      = flag.String("keys", "", "comma separated extra section keys to scan for")
	sectionFlag   = flag.String("section", yrpl.SectionGameMessages, "section holding the message stream")
	windowFlag    = flag.Int("window", yrpl.DefaultKeyWindow, "key scan window")
	policyFlag    = flag.String("policy", "declared,unknown", "lzma size policy order")
	framingFlag   = flag.String("legacy-framing", "aligned", "legacy message framing: aligned, wide")
	showPackets   = flag.Bool("packets", false, "list packets")
	showProbe     = flag.Bool("probe", false, "print field hypotheses for every listed packet")
	findFlag      = flag.String("find", "", "hex signature to look for in packet payloads")
	searchFlag    = flag.String("search", "", "packet search term")
	searchMode    = flag.String("search-mode", "contains-hex", "search mode: regex-hex, regex-plain, prefix-hex, contains-hex, contains-plain")
	typeFilter    = flag.Int("type", -1, "only list packets with this message id")
	dumpFlag      = flag.Bool("dump", false, "spew container headers and diagnostics")
	limitFlag     = flag.Int("limit", 0, "list at most this many packets, 0 for all")
	payloadLength = 48
)

func main() {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	flag.Parse()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	cfg, err := configFromFlags()
	if err != nil {
		log.Fatal().Err(err).Msg("bad flags")
	}
	match, err := packetMatcher(*searchMode, *searchFlag)
	if err != nil {
		log.Fatal().Err(err).Msg("bad search")
	}
	signature, err := parseSignature(*findFlag)
	if err != nil {
		log.Fatal().Err(err).Msg("bad signature")
	}

	parser, err := yrpl.NewParser(*cachePath, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("creating parser")
	}

	for _, loadPath := range flag.Args() {
		log.Info().Str("path", loadPath).Msg("loading")
		replayBytes, err := loadReplayFile(loadPath)
		if err != nil {
			log.Warn().Stack().Err(err).Str("path", loadPath).Msg("failed to open")
			continue
		}
		rpl, err := parser.Decode(replayBytes)
		log.Err(err).Str("path", loadPath).Msg("decoding replay")
		if rpl == nil {
			continue
		}
		showReplay(loadPath, rpl, match, signature)
	}
	err = parser.WriteCache()
	log.Err(err).Msg("parser cache write")
}

func configFromFlags() (cfg yrpl.Config, err error) {
	cfg = yrpl.DefaultConfig()
	cfg.Dialect, err = yrpl.ParseDialect(*dialectFlag)
	if err != nil {
		return
	}
	cfg.LegacyFraming, err = yrpl.ParseFraming(*framingFlag)
	if err != nil {
		return
	}
	cfg.PolicyOrder = nil
	for _, s := range splitList(*policyFlag) {
		p, err := yrpl.ParseSizePolicy(s)
		if err != nil {
			return cfg, err
		}
		cfg.PolicyOrder = append(cfg.PolicyOrder, p)
	}
	cfg.SectionKeys = append(cfg.SectionKeys, splitList(*keysFlag)...)
	cfg.MessageSection = *sectionFlag
	cfg.KeyWindow = *windowFlag
	return cfg, nil
}

func showReplay(loadPath string, rpl *yrpl.Replay, match func([]byte) bool, signature []byte) {
	d := rpl.Diagnostics
	fmt.Printf("%s: %s, %d bytes decompressed, %d packets\n", loadPath, d.Dialect, d.DecompressedSize, len(rpl.Packets))
	if rpl.Legacy != nil {
		h := rpl.Legacy.Header
		fmt.Printf("  legacy %s version %#x flags %#x seed %d declared %d policy %s\n", magicString(h.ID), h.Version, h.Flags, h.Seed, h.DataSize, d.SizePolicy)
		for _, a := range d.Attempts {
			fmt.Printf("  attempt %s: %v\n", a.Policy, a.Err)
		}
		if p := rpl.Legacy.Preamble; p != nil {
			fmt.Printf("  players %q (%d vs %d) lp %d hand %d draw %d duel flags %#x\n", p.Names, p.HomeCount, p.AwayCount, p.StartLP, p.StartHand, p.DrawCount, p.DuelFlags)
			for i, deck := range p.Decks {
				fmt.Printf("  deck %d: %d main, %d extra\n", i, len(deck.Main), len(deck.Extra))
			}
		}
	}
	if rpl.Keyed != nil {
		for _, sec := range rpl.Keyed.Sections {
			fmt.Printf("  section %-20q at %#06x type %#02x length %d\n", sec.Key, sec.Offset, sec.Type, sec.Length)
		}
	}
	if d.PacketError != nil {
		fmt.Printf("  framing stopped: %v\n", d.PacketError)
	}
	if *dumpFlag {
		if rpl.Legacy != nil {
			fmt.Print(spew.Sdump(rpl.Legacy.Header, rpl.Legacy.Extended, rpl.Legacy.Preamble))
		}
		fmt.Print(spew.Sdump(d))
	}

	counts := map[yrpl.MessageID]int{}
	listed := 0
	for i, pk := range rpl.Packets {
		counts[pk.ID]++
		if *typeFilter >= 0 && pk.ID != yrpl.MessageID(*typeFilter) {
			continue
		}
		if match != nil && !match(pk.Payload) {
			continue
		}
		if len(signature) > 0 {
			for _, at := range probe.Find(pk.Payload, signature) {
				fmt.Printf("  signature in packet %d (%s) at payload offset %d\n", i, pk.ID, at)
			}
		}
		if !*showPackets || (*limitFlag > 0 && listed >= *limitFlag) {
			continue
		}
		listed++
		showPacket(i, pk)
	}
	if *showPackets {
		showCounts(counts)
	}
}

func showPacket(i int, pk *yrpl.Packet) {
	payload := pk.Payload[:min(len(pk.Payload), payloadLength)]
	fmt.Printf("  %5d %#07x %-24s %4d %s\n", i, pk.Offset, pk.ID, pk.Length, hex.EncodeToString(payload))
	if !*showProbe {
		return
	}
	h := probe.Describe(pk.Payload)
	fmt.Printf("        ascii %s\n", h.ASCII)
	fmt.Printf("        i32   %v\n", h.Int32)
	fmt.Printf("        i16   %v\n", h.Int16)
	for shift, v := range h.Shifted {
		if shift == 0 {
			continue
		}
		fmt.Printf("        u32+%d %v\n", shift, v)
	}
	fmt.Printf("        xxh   %016x\n", h.Fingerprint)
	for _, blob := range probe.Blobs(pk.Payload) {
		fmt.Printf("        zstd  at %d, %d bytes (%v)\n%s", blob.Offset, len(blob.Data), blob.Err, hex.Dump(blob.Data))
	}
}

func magicString(id uint32) string {
	switch id {
	case yrpl.MagicYRP1:
		return "yrp1"
	case yrpl.MagicYRPX:
		return "yrpX"
	default:
		return fmt.Sprintf("%#08x", id)
	}
}

func splitList(s string) []string {
	ret := []string{}
	for _, v := range strings.Split(s, ",") {
		v = strings.TrimSpace(v)
		if v != "" {
			ret = append(ret, v)
		}
	}
	return ret
}
