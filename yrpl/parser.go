/*
	yrpl: duel replay parsing library (golang)
	Copyright (C) 2025 flexcoral

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU Affero General Public License as published
	by the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU Affero General Public License for more details.

	You should have received a copy of the GNU Affero General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

package yrpl

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"sync"

	"github.com/rs/zerolog/log"
)

type Config struct {
	// SectionKeys are the keys recognized while scanning keyed containers.
	SectionKeys []string
	// MessageSection is the section holding the packet stream.
	MessageSection string
	KeyWindow      int
	// PolicyOrder is the lzma size policy order for compressed legacy replays.
	PolicyOrder []SizePolicy
	// MaxDictCap rejects legacy headers asking for a larger lzma dictionary.
	MaxDictCap uint32
	// LegacyFraming frames legacy payloads.
	LegacyFraming Framing
	Dialect       Dialect
	LZMA          Decompressor
	Deflate       Decompressor
}

func DefaultConfig() Config {
	return Config{
		SectionKeys:    []string{SectionGameMessages},
		MessageSection: SectionGameMessages,
		KeyWindow:      DefaultKeyWindow,
		PolicyOrder:    []SizePolicy{SizePolicyDeclared, SizePolicyUnknown},
		MaxDictCap:     DefaultMaxDictCap,
		LegacyFraming:  FramingAligned,
		Dialect:        DialectAuto,
		LZMA:           LZMADecompressor{},
		Deflate:        RawDeflateDecompressor{},
	}
}

func (cfg Config) withDefaults() Config {
	def := DefaultConfig()
	if cfg.MessageSection == "" {
		cfg.MessageSection = def.MessageSection
	}
	if !slices.Contains(cfg.SectionKeys, cfg.MessageSection) {
		cfg.SectionKeys = append(slices.Clone(cfg.SectionKeys), cfg.MessageSection)
	}
	if cfg.KeyWindow <= 0 {
		cfg.KeyWindow = def.KeyWindow
	}
	if len(cfg.PolicyOrder) == 0 {
		cfg.PolicyOrder = def.PolicyOrder
	}
	if cfg.MaxDictCap == 0 {
		cfg.MaxDictCap = def.MaxDictCap
	}
	if cfg.LZMA == nil {
		cfg.LZMA = def.LZMA
	}
	if cfg.Deflate == nil {
		cfg.Deflate = def.Deflate
	}
	return cfg
}

// Parser decodes replays with a fixed config. It remembers which lzma size
// policy worked for each legacy header so repeated decodes try it first.
// Safe for concurrent use.
type Parser struct {
	cfg           Config
	cacheFilePath string
	// don't forget to lock with cacheLock
	cache     parserCache
	cacheLock sync.Mutex
}

type parserCache struct {
	SizePolicies map[string]SizePolicy
}

// NewParser loads the policy cache from cacheFilePath if it exists. An empty
// path keeps the cache in memory only.
func NewParser(cacheFilePath string, cfg Config) (ret *Parser, err error) {
	ret = &Parser{
		cfg:           cfg.withDefaults(),
		cacheFilePath: cacheFilePath,
		cache: parserCache{
			SizePolicies: map[string]SizePolicy{},
		},
	}
	if cacheFilePath == "" {
		return ret, nil
	}
	cacheBytes, err := os.ReadFile(cacheFilePath)
	if err != nil {
		return ret, nil
	}
	err = json.Unmarshal(cacheBytes, &ret.cache)
	if err != nil {
		return ret, fmt.Errorf("loading parser cache %q: %w", cacheFilePath, err)
	}
	if ret.cache.SizePolicies == nil {
		ret.cache.SizePolicies = map[string]SizePolicy{}
	}
	return ret, nil
}

func (parser *Parser) Config() Config {
	return parser.cfg
}

func (parser *Parser) WriteCache() (err error) {
	if parser.cacheFilePath == "" {
		return nil
	}
	parser.cacheLock.Lock()
	defer parser.cacheLock.Unlock()
	cacheBytes, err := json.Marshal(parser.cache)
	if err != nil {
		return
	}
	return os.WriteFile(parser.cacheFilePath, cacheBytes, 0644)
}

func (parser *Parser) cachedPolicy(fingerprint string) (SizePolicy, bool) {
	parser.cacheLock.Lock()
	defer parser.cacheLock.Unlock()
	p, ok := parser.cache.SizePolicies[fingerprint]
	return p, ok
}

func (parser *Parser) rememberPolicy(fingerprint string, p SizePolicy) {
	parser.cacheLock.Lock()
	defer parser.cacheLock.Unlock()
	parser.cache.SizePolicies[fingerprint] = p
}

// Decode detects the dialect (unless configured), unpacks the container and
// frames the message stream. On a truncated packet stream the replay is
// returned together with the error, holding every packet before the cut.
func (parser *Parser) Decode(input []byte) (ret *Replay, err error) {
	dialect := parser.cfg.Dialect
	if dialect == DialectAuto {
		dialect, err = DetectDialect(input)
		if err != nil {
			return nil, err
		}
	}
	log.Debug().Stringer("dialect", dialect).Int("size", len(input)).Msg("decoding replay")
	ret = &Replay{}
	ret.Diagnostics.Dialect = dialect

	framing := FramingAligned
	switch dialect {
	case DialectLegacy:
		err = parser.decodeLegacy(ret, input)
		framing = parser.cfg.LegacyFraming
	case DialectKeyed, DialectKeyedRaw:
		err = parser.decodeKeyed(ret, input, dialect)
	default:
		return nil, newDecodeError(ErrUnknownDialect, "decoding replay as "+dialect.String(), 0, -1, len(input), nil)
	}
	if err != nil {
		if ret.Legacy == nil && ret.Keyed == nil {
			return nil, err
		}
		return ret, err
	}

	ret.Diagnostics.Framing = framing
	ret.Packets, err = NewFramer(ret.Messages, framing).Collect()
	if err != nil {
		ret.Diagnostics.PacketError = err
		return ret, fmt.Errorf("framing message stream: %w", err)
	}
	log.Debug().Int("packets", len(ret.Packets)).Msg("message stream framed")
	return ret, nil
}

func (parser *Parser) decodeLegacy(ret *Replay, input []byte) error {
	order := parser.cfg.PolicyOrder
	h, err := ReadLegacyHeader(input)
	if err != nil {
		return err
	}
	fingerprint := h.Fingerprint()
	if cached, ok := parser.cachedPolicy(fingerprint); ok {
		order = append([]SizePolicy{cached}, order...)
	}
	lc, err := DecodeLegacy(input, parser.cfg.LZMA, order, parser.cfg.MaxDictCap)
	if lc != nil {
		ret.Legacy = lc
		ret.Diagnostics.SizePolicy = lc.Policy
		ret.Diagnostics.Attempts = lc.Attempts
	}
	if err != nil {
		return err
	}
	if lc.Policy != SizePolicyNone {
		parser.rememberPolicy(fingerprint, lc.Policy)
	}
	ret.Diagnostics.DecompressedSize = len(lc.Payload)
	ret.Messages, err = lc.ReadPreamble()
	return err
}

func (parser *Parser) decodeKeyed(ret *Replay, input []byte, dialect Dialect) (err error) {
	var kc *KeyedContainer
	if dialect == DialectKeyed {
		kc, err = DecodeKeyedBase64(input, parser.cfg.Deflate, parser.cfg.SectionKeys, parser.cfg.KeyWindow)
	} else {
		kc, err = DecodeKeyed(input, parser.cfg.Deflate, parser.cfg.SectionKeys, parser.cfg.KeyWindow)
	}
	if kc != nil {
		ret.Keyed = kc
		ret.Diagnostics.DecompressedSize = len(kc.Raw)
	}
	if err != nil {
		return err
	}
	sec, err := kc.Section(parser.cfg.MessageSection)
	if err != nil {
		return err
	}
	ret.Messages = sec.Bytes
	return nil
}

var defaultParser, _ = NewParser("", DefaultConfig())

// Decode decodes with the default config and an in-memory policy cache.
func Decode(input []byte) (*Replay, error) {
	return defaultParser.Decode(input)
}
