package yrpl

import "fmt"

// MessageID is the engine message id carried by every packet. Only the
// label is known here, payload layouts are left to consumers.
type MessageID byte

const (
	MsgRetry              MessageID = 1
	MsgHint               MessageID = 2
	MsgWaiting            MessageID = 3
	MsgStart              MessageID = 4
	MsgWin                MessageID = 5
	MsgUpdateData         MessageID = 6
	MsgUpdateCard         MessageID = 7
	MsgRequestDeck        MessageID = 8
	MsgSelectBattleCmd    MessageID = 10
	MsgSelectIdleCmd      MessageID = 11
	MsgSelectEffectYN     MessageID = 12
	MsgSelectYesNo        MessageID = 13
	MsgSelectOption       MessageID = 14
	MsgSelectCard         MessageID = 15
	MsgSelectChain        MessageID = 16
	MsgSelectPlace        MessageID = 18
	MsgSelectPosition     MessageID = 19
	MsgSelectTribute      MessageID = 20
	MsgSortChain          MessageID = 21
	MsgSelectCounter      MessageID = 22
	MsgSelectSum          MessageID = 23
	MsgSelectDisfield     MessageID = 24
	MsgSortCard           MessageID = 25
	MsgSelectUnselectCard MessageID = 26
	MsgConfirmDecktop     MessageID = 30
	MsgConfirmCards       MessageID = 31
	MsgShuffleDeck        MessageID = 32
	MsgShuffleHand        MessageID = 33
	MsgRefreshDeck        MessageID = 34
	MsgSwapGraveDeck      MessageID = 35
	MsgShuffleSetCard     MessageID = 36
	MsgReverseDeck        MessageID = 37
	MsgDeckTop            MessageID = 38
	MsgShuffleExtra       MessageID = 39
	MsgNewTurn            MessageID = 40
	MsgNewPhase           MessageID = 41
	MsgConfirmExtratop    MessageID = 42
	MsgMove               MessageID = 50
	MsgPosChange          MessageID = 53
	MsgSet                MessageID = 54
	MsgSwap               MessageID = 55
	MsgFieldDisabled      MessageID = 56
	MsgSummoning          MessageID = 60
	MsgSummoned           MessageID = 61
	MsgSpSummoning        MessageID = 62
	MsgSpSummoned         MessageID = 63
	MsgFlipSummoning      MessageID = 64
	MsgFlipSummoned       MessageID = 65
	MsgChaining           MessageID = 70
	MsgChained            MessageID = 71
	MsgChainSolving       MessageID = 72
	MsgChainSolved        MessageID = 73
	MsgChainEnd           MessageID = 74
	MsgChainNegated       MessageID = 75
	MsgChainDisabled      MessageID = 76
	MsgCardSelected       MessageID = 80
	MsgRandomSelected     MessageID = 81
	MsgBecomeTarget       MessageID = 83
	MsgDraw               MessageID = 90
	MsgDamage             MessageID = 91
	MsgRecover            MessageID = 92
	MsgEquip              MessageID = 93
	MsgLPUpdate           MessageID = 94
	MsgUnequip            MessageID = 95
	MsgCardTarget         MessageID = 96
	MsgCancelTarget       MessageID = 97
	MsgPayLPCost          MessageID = 100
	MsgAddCounter         MessageID = 101
	MsgRemoveCounter      MessageID = 102
	MsgAttack             MessageID = 110
	MsgBattle             MessageID = 111
	MsgAttackDisabled     MessageID = 112
	MsgDamageStepStart    MessageID = 113
	MsgDamageStepEnd      MessageID = 114
	MsgMissedEffect       MessageID = 120
	MsgBeChainTarget      MessageID = 121
	MsgCreateRelation     MessageID = 122
	MsgReleaseRelation    MessageID = 123
	MsgTossCoin           MessageID = 130
	MsgTossDice           MessageID = 131
	MsgRockPaperScissors  MessageID = 132
	MsgHandRes            MessageID = 133
	MsgAnnounceRace       MessageID = 140
	MsgAnnounceAttrib     MessageID = 141
	MsgAnnounceCard       MessageID = 142
	MsgAnnounceNumber     MessageID = 143
	MsgCardHint           MessageID = 160
	MsgTagSwap            MessageID = 161
	MsgReloadField        MessageID = 162
	MsgAIName             MessageID = 163
	MsgShowHint           MessageID = 164
	MsgPlayerHint         MessageID = 165
	MsgMatchKill          MessageID = 170
	MsgCustomMsg          MessageID = 180
	MsgRemoveCards        MessageID = 190
)

var messageNames = map[MessageID]string{
	MsgRetry:              "MSG_RETRY",
	MsgHint:               "MSG_HINT",
	MsgWaiting:            "MSG_WAITING",
	MsgStart:              "MSG_START",
	MsgWin:                "MSG_WIN",
	MsgUpdateData:         "MSG_UPDATE_DATA",
	MsgUpdateCard:         "MSG_UPDATE_CARD",
	MsgRequestDeck:        "MSG_REQUEST_DECK",
	MsgSelectBattleCmd:    "MSG_SELECT_BATTLECMD",
	MsgSelectIdleCmd:      "MSG_SELECT_IDLECMD",
	MsgSelectEffectYN:     "MSG_SELECT_EFFECTYN",
	MsgSelectYesNo:        "MSG_SELECT_YESNO",
	MsgSelectOption:       "MSG_SELECT_OPTION",
	MsgSelectCard:         "MSG_SELECT_CARD",
	MsgSelectChain:        "MSG_SELECT_CHAIN",
	MsgSelectPlace:        "MSG_SELECT_PLACE",
	MsgSelectPosition:     "MSG_SELECT_POSITION",
	MsgSelectTribute:      "MSG_SELECT_TRIBUTE",
	MsgSortChain:          "MSG_SORT_CHAIN",
	MsgSelectCounter:      "MSG_SELECT_COUNTER",
	MsgSelectSum:          "MSG_SELECT_SUM",
	MsgSelectDisfield:     "MSG_SELECT_DISFIELD",
	MsgSortCard:           "MSG_SORT_CARD",
	MsgSelectUnselectCard: "MSG_SELECT_UNSELECT_CARD",
	MsgConfirmDecktop:     "MSG_CONFIRM_DECKTOP",
	MsgConfirmCards:       "MSG_CONFIRM_CARDS",
	MsgShuffleDeck:        "MSG_SHUFFLE_DECK",
	MsgShuffleHand:        "MSG_SHUFFLE_HAND",
	MsgRefreshDeck:        "MSG_REFRESH_DECK",
	MsgSwapGraveDeck:      "MSG_SWAP_GRAVE_DECK",
	MsgShuffleSetCard:     "MSG_SHUFFLE_SET_CARD",
	MsgReverseDeck:        "MSG_REVERSE_DECK",
	MsgDeckTop:            "MSG_DECK_TOP",
	MsgShuffleExtra:       "MSG_SHUFFLE_EXTRA",
	MsgNewTurn:            "MSG_NEW_TURN",
	MsgNewPhase:           "MSG_NEW_PHASE",
	MsgConfirmExtratop:    "MSG_CONFIRM_EXTRATOP",
	MsgMove:               "MSG_MOVE",
	MsgPosChange:          "MSG_POS_CHANGE",
	MsgSet:                "MSG_SET",
	MsgSwap:               "MSG_SWAP",
	MsgFieldDisabled:      "MSG_FIELD_DISABLED",
	MsgSummoning:          "MSG_SUMMONING",
	MsgSummoned:           "MSG_SUMMONED",
	MsgSpSummoning:        "MSG_SPSUMMONING",
	MsgSpSummoned:         "MSG_SPSUMMONED",
	MsgFlipSummoning:      "MSG_FLIPSUMMONING",
	MsgFlipSummoned:       "MSG_FLIPSUMMONED",
	MsgChaining:           "MSG_CHAINING",
	MsgChained:            "MSG_CHAINED",
	MsgChainSolving:       "MSG_CHAIN_SOLVING",
	MsgChainSolved:        "MSG_CHAIN_SOLVED",
	MsgChainEnd:           "MSG_CHAIN_END",
	MsgChainNegated:       "MSG_CHAIN_NEGATED",
	MsgChainDisabled:      "MSG_CHAIN_DISABLED",
	MsgCardSelected:       "MSG_CARD_SELECTED",
	MsgRandomSelected:     "MSG_RANDOM_SELECTED",
	MsgBecomeTarget:       "MSG_BECOME_TARGET",
	MsgDraw:               "MSG_DRAW",
	MsgDamage:             "MSG_DAMAGE",
	MsgRecover:            "MSG_RECOVER",
	MsgEquip:              "MSG_EQUIP",
	MsgLPUpdate:           "MSG_LPUPDATE",
	MsgUnequip:            "MSG_UNEQUIP",
	MsgCardTarget:         "MSG_CARD_TARGET",
	MsgCancelTarget:       "MSG_CANCEL_TARGET",
	MsgPayLPCost:          "MSG_PAY_LPCOST",
	MsgAddCounter:         "MSG_ADD_COUNTER",
	MsgRemoveCounter:      "MSG_REMOVE_COUNTER",
	MsgAttack:             "MSG_ATTACK",
	MsgBattle:             "MSG_BATTLE",
	MsgAttackDisabled:     "MSG_ATTACK_DISABLED",
	MsgDamageStepStart:    "MSG_DAMAGE_STEP_START",
	MsgDamageStepEnd:      "MSG_DAMAGE_STEP_END",
	MsgMissedEffect:       "MSG_MISSED_EFFECT",
	MsgBeChainTarget:      "MSG_BE_CHAIN_TARGET",
	MsgCreateRelation:     "MSG_CREATE_RELATION",
	MsgReleaseRelation:    "MSG_RELEASE_RELATION",
	MsgTossCoin:           "MSG_TOSS_COIN",
	MsgTossDice:           "MSG_TOSS_DICE",
	MsgRockPaperScissors:  "MSG_ROCK_PAPER_SCISSORS",
	MsgHandRes:            "MSG_HAND_RES",
	MsgAnnounceRace:       "MSG_ANNOUNCE_RACE",
	MsgAnnounceAttrib:     "MSG_ANNOUNCE_ATTRIB",
	MsgAnnounceCard:       "MSG_ANNOUNCE_CARD",
	MsgAnnounceNumber:     "MSG_ANNOUNCE_NUMBER",
	MsgCardHint:           "MSG_CARD_HINT",
	MsgTagSwap:            "MSG_TAG_SWAP",
	MsgReloadField:        "MSG_RELOAD_FIELD",
	MsgAIName:             "MSG_AI_NAME",
	MsgShowHint:           "MSG_SHOW_HINT",
	MsgPlayerHint:         "MSG_PLAYER_HINT",
	MsgMatchKill:          "MSG_MATCH_KILL",
	MsgCustomMsg:          "MSG_CUSTOM_MSG",
	MsgRemoveCards:        "MSG_REMOVE_CARDS",
}

func (id MessageID) Known() bool {
	_, ok := messageNames[id]
	return ok
}

func (id MessageID) String() string {
	if n, ok := messageNames[id]; ok {
		return n
	}
	return fmt.Sprintf("unknown(0x%02x)", byte(id))
}
