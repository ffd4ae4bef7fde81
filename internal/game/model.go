package game

import (
	"errors"
	"math/rand"
	"time"
)

const (
	StartingDays       = 40
	StartingCash       = 2000
	StartingDebt       = 5000
	StartingHealth     = 100
	StartingReputation = 100

	StartingCapacity    = 100
	CapacityPerUpgrade  = 10
	MaxCapacity         = 140
	CapacityUpgradeCost = 30000

	// Number of with-replacement exclusion draws per market refresh.
	MarketLeaveOut = 3

	SavingsInterestPct = 1
	DebtInterestPct    = 10

	DebtCollectorDays   = 10
	DebtCollectorDamage = 10

	HospitalThreshold    = 85
	HospitalCopay        = 200
	HospitalCostPerPoint = 10000

	DarkwebDailyVisits = 3

	ProfitTaxPct   = 45
	MandyHourlyPay = 10
)

var (
	ErrInstrumentNotFound   = errors.New("instrument not found")
	ErrNotTradable          = errors.New("instrument not tradable today")
	ErrInvalidEffect        = errors.New("price effect factor must be positive")
	ErrInvalidAmount        = errors.New("amount must be positive")
	ErrInsufficientFunds    = errors.New("not enough cash")
	ErrInsufficientSavings  = errors.New("not enough savings")
	ErrCapacityExceeded     = errors.New("trade book capacity exceeded")
	ErrCapacityMaxed        = errors.New("trade book already at maximum capacity")
	ErrNotHeld              = errors.New("instrument not in trade book")
	ErrInsufficientQuantity = errors.New("not enough shares held")
	ErrFullHealth           = errors.New("already at full health")
	ErrVisitsExhausted      = errors.New("no darkweb visits left today")
	ErrGameOver             = errors.New("game is over")
)

// dice is the single source of randomness for a session. *rand.Rand
// satisfies it; tests substitute scripted draws.
type dice interface {
	Intn(n int) int
}

func newDice() dice {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}
