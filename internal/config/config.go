package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// GameMode selects one of the two parallel parameter sets for trading
// costs and short selling.
type GameMode string

const (
	GameModeRealLife GameMode = "real_life"
	GameModeHardLife GameMode = "hard_life"
)

// TradingCosts is the per-mode trading-cost table consumed by the pricing
// engine. Percentages are fractions (0.005 = 0.5%), money is cents.
type TradingCosts struct {
	SpreadPercent      float64
	SlippagePerShare   float64 // fraction of price per share of order size
	MaxSlippagePercent float64 // per-share slippage cap, fraction of price
	FeePercent         float64
	MinimumFee         int64   // cents
	OrderDelayCycles   int64   // market/short/cover settlement delay
	CashBufferPercent  float64 // extra reservation against price drift
}

// ShortSelling is the per-mode short-selling table consumed by the short
// position manager.
type ShortSelling struct {
	InitialMarginPercent     float64 // collateral locked at open, of position value
	MaintenanceMarginPercent float64 // margin-call threshold, of position value
	BaseBorrowFeePerCycle    float64 // of position value, per cycle
	HardToBorrowMultiplier   float64
	HardToBorrowThreshold    float64 // short-interest ratio, inclusive
	MaxShortPercentOfFloat   float64
	MarginCallGraceCycles    int64
}

// Tables bundles every game-balance constant for one mode. These are
// compile-time constants, not runtime-negotiated.
type Tables struct {
	Mode                GameMode
	Costs               TradingCosts
	Shorts              ShortSelling
	OrderValidityCycles int64 // default lifetime of limit/stop orders
	SplitTriggerPrice   int64 // cents; price at or above this splits 2-for-1
	SplitRatio          int64
	CollateralRatio     float64 // credit extended per dollar of stock collateral
	LowFloatThreshold   float64 // utilization at which a low-float warning fires
	InventoryReversion  float64 // per-cycle mean reversion of market-maker inventory
}

// TablesFor returns the parameter tables for the given mode. Unknown
// modes fall back to real-life.
func TablesFor(mode GameMode) Tables {
	t := Tables{
		Mode: GameModeRealLife,
		Costs: TradingCosts{
			SpreadPercent:      0.004,
			SlippagePerShare:   0.0002,
			MaxSlippagePercent: 0.02,
			FeePercent:         0.0025,
			MinimumFee:         999, // $9.99
			OrderDelayCycles:   1,
			CashBufferPercent:  0.05,
		},
		Shorts: ShortSelling{
			InitialMarginPercent:     1.5,
			MaintenanceMarginPercent: 1.25,
			BaseBorrowFeePerCycle:    0.001,
			HardToBorrowMultiplier:   3.0,
			HardToBorrowThreshold:    0.5,
			MaxShortPercentOfFloat:   0.5,
			MarginCallGraceCycles:    5,
		},
		OrderValidityCycles: 10,
		SplitTriggerPrice:   75000, // $750
		SplitRatio:          2,
		CollateralRatio:     0.5,
		LowFloatThreshold:   0.90,
		InventoryReversion:  0.05,
	}
	if mode == GameModeHardLife {
		t.Mode = GameModeHardLife
		t.Costs.SpreadPercent = 0.01
		t.Costs.SlippagePerShare = 0.0005
		t.Costs.MaxSlippagePercent = 0.05
		t.Costs.FeePercent = 0.005
		t.Costs.MinimumFee = 1999 // $19.99
		t.Shorts.MarginCallGraceCycles = 3
	}
	return t
}

// Config holds all runtime configuration for the simulator.
type Config struct {
	Port            int
	LogLevel        string
	Mode            GameMode
	TickInterval    time.Duration
	SnapshotDir     string // empty disables snapshot persistence
	BotCount        int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables, applies defaults,
// and validates values. It returns an error for any invalid value.
func Load() (*Config, error) {
	port, err := getInt("PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	logLevel := getStr("LOG_LEVEL", "info")
	if !isValidLogLevel(logLevel) {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %q, must be one of: debug, info, warn, error", logLevel)
	}

	mode := GameMode(getStr("GAME_MODE", string(GameModeRealLife)))
	if mode != GameModeRealLife && mode != GameModeHardLife {
		return nil, fmt.Errorf("invalid GAME_MODE: %q, must be one of: real_life, hard_life", mode)
	}

	tickInterval, err := getDuration("TICK_INTERVAL", 2*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid TICK_INTERVAL: %w", err)
	}

	botCount, err := getInt("BOT_COUNT", 8)
	if err != nil {
		return nil, fmt.Errorf("invalid BOT_COUNT: %w", err)
	}
	if botCount < 0 {
		return nil, fmt.Errorf("invalid BOT_COUNT: must be >= 0")
	}

	readTimeout, err := getDuration("READ_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid READ_TIMEOUT: %w", err)
	}

	writeTimeout, err := getDuration("WRITE_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid WRITE_TIMEOUT: %w", err)
	}

	idleTimeout, err := getDuration("IDLE_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid IDLE_TIMEOUT: %w", err)
	}

	shutdownTimeout, err := getDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
	}

	return &Config{
		Port:            port,
		LogLevel:        logLevel,
		Mode:            mode,
		TickInterval:    tickInterval,
		SnapshotDir:     getStr("SNAPSHOT_DIR", ""),
		BotCount:        botCount,
		ReadTimeout:     readTimeout,
		WriteTimeout:    writeTimeout,
		IdleTimeout:     idleTimeout,
		ShutdownTimeout: shutdownTimeout,
	}, nil
}

func getStr(key, defaultVal string) string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v
}

func getInt(key string, defaultVal int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return strconv.Atoi(v)
}

func getDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return time.ParseDuration(v)
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}
