package stdlib

import (
	"math/big"
	"time"
)

var minusOne = big.NewRat(-1, 1)

const (
	defaultGap       = 300 * time.Millisecond
	defaultNoteDur   = 800 * time.Millisecond
	defaultRenderDur = 2 * time.Second
)
