package yrpl

import (
	"unicode/utf16"

	"github.com/rs/zerolog/log"

	"github.com/maxsupermanhd/yrpl-inspector/danet"
)

const (
	// PlayerNameSize is a NUL padded UTF-16LE name.
	PlayerNameSize = 40
	maxSidePlayers = 20
	maxDeckCards   = 1000
)

type Deck struct {
	Main  []uint32
	Extra []uint32
}

// LegacyPreamble is the duel setup stored before the message stream of a
// legacy payload.
type LegacyPreamble struct {
	Names     []string
	HomeCount int
	AwayCount int
	StartLP   uint32
	StartHand uint32
	DrawCount uint32
	DuelFlags uint64
	Decks     []Deck
	// Size is the number of payload bytes the preamble occupies.
	Size int
}

// ReadLegacyPreamble reads player names, duel parameters and decks from the
// start of a legacy payload. Player counts above 20 per side and card counts
// above 1000 are capped.
func ReadLegacyPreamble(payload []byte, flags uint32) (ret *LegacyPreamble, err error) {
	c := danet.NewCursor(payload)
	ret = &LegacyPreamble{}
	fail := func(what string, err error) (*LegacyPreamble, error) {
		return nil, newDecodeError(ErrTruncatedPayload, "reading legacy preamble "+what, c.Pos(), -1, c.Remaining(), err)
	}

	if flags&FlagSingleMode != 0 {
		for range 2 {
			name, err := readPlayerName(c)
			if err != nil {
				return fail("names", err)
			}
			ret.Names = append(ret.Names, name)
		}
		ret.HomeCount, ret.AwayCount = 1, 1
	} else {
		for side := range 2 {
			count := uint32(1)
			if flags&FlagNewReplay != 0 {
				count, err = c.ReadU32LE()
				if err != nil {
					return fail("player count", err)
				}
			} else if flags&FlagTag != 0 {
				count = 2
			}
			if count > maxSidePlayers {
				log.Warn().Uint32("count", count).Int("side", side).Msg("capping player count")
				count = maxSidePlayers
			}
			for range count {
				name, err := readPlayerName(c)
				if err != nil {
					return fail("names", err)
				}
				ret.Names = append(ret.Names, name)
			}
			if side == 0 {
				ret.HomeCount = int(count)
			} else {
				ret.AwayCount = int(count)
			}
		}
	}

	for _, v := range []*uint32{&ret.StartLP, &ret.StartHand, &ret.DrawCount} {
		*v, err = c.ReadU32LE()
		if err != nil {
			return fail("params", err)
		}
	}
	if flags&Flag64BitDuelFlag != 0 {
		ret.DuelFlags, err = c.ReadU64LE()
	} else {
		var f uint32
		f, err = c.ReadU32LE()
		ret.DuelFlags = uint64(f)
	}
	if err != nil {
		return fail("duel flags", err)
	}

	for range ret.HomeCount + ret.AwayCount {
		d := Deck{}
		d.Main, err = readDeckList(c)
		if err != nil {
			return fail("main deck", err)
		}
		d.Extra, err = readDeckList(c)
		if err != nil {
			return fail("extra deck", err)
		}
		ret.Decks = append(ret.Decks, d)
	}
	ret.Size = c.Pos()
	log.Debug().Strs("names", ret.Names).Int("decks", len(ret.Decks)).Int("size", ret.Size).Msg("legacy preamble read")
	return ret, nil
}

func readPlayerName(c *danet.Cursor) (string, error) {
	b, err := c.ReadBytes(PlayerNameSize)
	if err != nil {
		return "", err
	}
	units := make([]uint16, 0, PlayerNameSize/2)
	for i := 0; i < len(b); i += 2 {
		u := uint16(b[i]) | uint16(b[i+1])<<8
		if u == 0 {
			break
		}
		units = append(units, u)
	}
	return string(utf16.Decode(units)), nil
}

func readDeckList(c *danet.Cursor) ([]uint32, error) {
	count, err := c.ReadU32LE()
	if err != nil {
		return nil, err
	}
	if count > maxDeckCards {
		log.Warn().Uint32("count", count).Msg("capping deck size")
		count = maxDeckCards
	}
	ret := make([]uint32, 0, count)
	for range count {
		card, err := c.ReadU32LE()
		if err != nil {
			return nil, err
		}
		ret = append(ret, card)
	}
	return ret, nil
}
