package scoring

import (
	"github.com/vimmasterbot/vimmaster/vimmaster/database/models"
)

type Calculator struct {
	config *Config
}

func NewCalculator(config *Config) *Calculator {
	return &Calculator{config: config}
}

// CalculateQuestScore converts attempt quality into points. Penalties
// compound sequentially on the already-discounted score: attempts first,
// then hints, then time. The order is part of the scoring contract.
func (c *Calculator) CalculateQuestScore(quest *models.Quest, isCorrect bool, attempts int, hintsUsed int, timeSpent int) int {
	if !isCorrect {
		return 0
	}

	score := quest.MaxScore

	if attempts > 1 {
		penalty := c.config.AttemptPenaltyStep * float64(attempts-1)
		if penalty > c.config.AttemptPenaltyCap {
			penalty = c.config.AttemptPenaltyCap
		}
		score = int(float64(score) * (1 - penalty))
	}

	if hintsUsed > 0 {
		penalty := c.config.HintPenaltyStep * float64(hintsUsed)
		if penalty > c.config.HintPenaltyCap {
			penalty = c.config.HintPenaltyCap
		}
		score = int(float64(score) * (1 - penalty))
	}

	if quest.TimeLimit > 0 && timeSpent > 0 && timeSpent > quest.TimeLimit {
		penalty := c.config.TimePenaltyStep * float64(timeSpent-quest.TimeLimit) / float64(quest.TimeLimit)
		if penalty > c.config.TimePenaltyCap {
			penalty = c.config.TimePenaltyCap
		}
		score = int(float64(score) * (1 - penalty))
	}

	if score < c.config.MinScore {
		score = c.config.MinScore
	}
	return score
}

// CalculateLevel derives the player level from the cumulative score.
// Pure step function, monotonic, capped at LevelCap.
func (c *Calculator) CalculateLevel(totalScore int) int {
	switch {
	case totalScore < 50:
		return 1
	case totalScore < 150:
		return 2
	case totalScore < 300:
		return 3
	case totalScore < 500:
		return 4
	case totalScore < 750:
		return 5
	}

	level := 5 + (totalScore-c.config.ExtendedLevelBase)/c.config.ExtendedLevelStride
	if level > c.config.LevelCap {
		level = c.config.LevelCap
	}
	return level
}
