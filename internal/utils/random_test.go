package utils

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCodeFromName(t *testing.T) {
	assert.Equal(t, "zhongchaoliansai", GenerateCodeFromName("中超联赛"))
	assert.Equal(t, "beijingmenghu", GenerateCodeFromName("北京猛虎"))

	// 非中文字符原样保留并转为小写
	assert.Equal(t, "ceshi2026", GenerateCodeFromName("测试2026"))
	assert.Equal(t, "abc", GenerateCodeFromName("ABC"))
}

func TestGenerateRandomLeague(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 50; i++ {
		league := GenerateRandomLeague(rng, 20)

		require.NoError(t, ValidateLeagueTeams(league))
		assert.GreaterOrEqual(t, league.NTeams(), 4)
		assert.LessOrEqual(t, league.NTeams(), 20)
		assert.NotEmpty(t, league.Name)
		assert.NotEmpty(t, league.Code)
	}
}

func TestGenerateRandomScheduleJob(t *testing.T) {
	rng := rand.New(rand.NewSource(11))

	for i := 0; i < 50; i++ {
		job := GenerateRandomScheduleJob(rng, 1)

		assert.EqualValues(t, 1, job.LeagueID)
		assert.Positive(t, job.MaxEvaluations)

		switch job.Algorithm {
		case "simulated_annealing":
			assert.Positive(t, job.InitialTemperature)
		case "plant_propagation":
			assert.Positive(t, job.NMaxRunners)
			assert.Positive(t, job.PopulationSize)
		default:
			t.Fatalf("未知算法: %s", job.Algorithm)
		}
	}
}
