package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vimmasterbot/vimmaster/vimmaster/database/models"
)

func TestCalculateQuestScore(t *testing.T) {
	calc := NewCalculator(NewDefaultConfig())

	quest := &models.Quest{MaxScore: 10, TimeLimit: 60}

	tests := []struct {
		name      string
		quest     *models.Quest
		isCorrect bool
		attempts  int
		hintsUsed int
		timeSpent int
		want      int
	}{
		{
			name:      "perfect first try",
			quest:     quest,
			isCorrect: true,
			attempts:  1,
			want:      10,
		},
		{
			name:      "incorrect scores zero",
			quest:     quest,
			isCorrect: false,
			attempts:  1,
			want:      0,
		},
		{
			name:      "incorrect with many attempts still zero",
			quest:     quest,
			isCorrect: false,
			attempts:  7,
			hintsUsed: 3,
			want:      0,
		},
		{
			name:      "second attempt",
			quest:     quest,
			isCorrect: true,
			attempts:  2,
			want:      8,
		},
		{
			name:      "third attempt",
			quest:     quest,
			isCorrect: true,
			attempts:  3,
			want:      6,
		},
		{
			name:      "attempt penalty capped at half",
			quest:     quest,
			isCorrect: true,
			attempts:  10,
			want:      5,
		},
		{
			name:      "single hint",
			quest:     quest,
			isCorrect: true,
			attempts:  1,
			hintsUsed: 1,
			want:      9,
		},
		{
			name:      "hint penalty capped",
			quest:     quest,
			isCorrect: true,
			attempts:  1,
			hintsUsed: 5,
			want:      7,
		},
		{
			name:      "attempt and hint penalties compound",
			quest:     quest,
			isCorrect: true,
			attempts:  2,
			hintsUsed: 1,
			want:      7, // int(int(10*0.8) * 0.9)
		},
		{
			name:      "mild overtime",
			quest:     quest,
			isCorrect: true,
			attempts:  1,
			timeSpent: 90,
			want:      9, // 0.1 * 30/60 = 5% penalty
		},
		{
			name:      "overtime penalty capped",
			quest:     quest,
			isCorrect: true,
			attempts:  1,
			timeSpent: 6000,
			want:      8,
		},
		{
			name:      "within time limit",
			quest:     quest,
			isCorrect: true,
			attempts:  1,
			timeSpent: 59,
			want:      10,
		},
		{
			name:      "no time limit means no time penalty",
			quest:     &models.Quest{MaxScore: 10},
			isCorrect: true,
			attempts:  1,
			timeSpent: 5000,
			want:      10,
		},
		{
			name:      "unreported time means no time penalty",
			quest:     quest,
			isCorrect: true,
			attempts:  1,
			timeSpent: 0,
			want:      10,
		},
		{
			name:      "correct answer never drops below one point",
			quest:     &models.Quest{MaxScore: 1, TimeLimit: 60},
			isCorrect: true,
			attempts:  10,
			hintsUsed: 5,
			timeSpent: 6000,
			want:      1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calc.CalculateQuestScore(tt.quest, tt.isCorrect, tt.attempts, tt.hintsUsed, tt.timeSpent)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCalculateQuestScoreMonotonicInAttempts(t *testing.T) {
	calc := NewCalculator(NewDefaultConfig())
	quest := &models.Quest{MaxScore: 20, TimeLimit: 60}

	prev := calc.CalculateQuestScore(quest, true, 1, 0, 0)
	for attempts := 2; attempts <= 12; attempts++ {
		got := calc.CalculateQuestScore(quest, true, attempts, 0, 0)
		assert.LessOrEqual(t, got, prev, "attempts=%d", attempts)
		prev = got
	}
}

func TestCalculateLevel(t *testing.T) {
	calc := NewCalculator(NewDefaultConfig())

	tests := []struct {
		totalScore int
		want       int
	}{
		{0, 1},
		{49, 1},
		{50, 2},
		{149, 2},
		{150, 3},
		{299, 3},
		{300, 4},
		{499, 4},
		{500, 5},
		{749, 5},
		{750, 5},
		{1000, 6},
		{1999, 9},
		{2000, 10},
		{10000, 10},
	}

	for _, tt := range tests {
		got := calc.CalculateLevel(tt.totalScore)
		assert.Equal(t, tt.want, got, "totalScore=%d", tt.totalScore)
	}
}
