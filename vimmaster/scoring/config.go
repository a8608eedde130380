package scoring

type Config struct {
	// Attempt penalty: applied per attempt past the first
	AttemptPenaltyStep float64
	AttemptPenaltyCap  float64

	// Hint penalty: applied per hint revealed
	HintPenaltyStep float64
	HintPenaltyCap  float64

	// Time penalty: applied per time_limit overrun ratio
	TimePenaltyStep float64
	TimePenaltyCap  float64

	// A correct answer never scores below this
	MinScore int

	// Level thresholds
	LevelCap            int
	ExtendedLevelBase   int
	ExtendedLevelStride int
}

func NewDefaultConfig() *Config {
	return &Config{
		AttemptPenaltyStep: 0.2,
		AttemptPenaltyCap:  0.5,

		HintPenaltyStep: 0.1,
		HintPenaltyCap:  0.3,

		TimePenaltyStep: 0.1,
		TimePenaltyCap:  0.2,

		MinScore: 1,

		LevelCap:            10,
		ExtendedLevelBase:   750,
		ExtendedLevelStride: 250,
	}
}
