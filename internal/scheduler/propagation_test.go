package scheduler

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlantPropagationInvalidArguments(t *testing.T) {
	valid := PropagationParams{NTeams: 4, MaxEvaluations: 100, NMaxRunners: 5, PopulationSize: 5}
	rng := rand.New(rand.NewSource(31))

	_, err := PlantPropagation(nil, valid)
	assert.ErrorIs(t, err, ErrNilRandomSource)

	params := valid
	params.NTeams = 5
	_, err = PlantPropagation(rng, params)
	assert.ErrorIs(t, err, ErrInvalidTeamCount)

	params = valid
	params.MaxEvaluations = 0
	_, err = PlantPropagation(rng, params)
	assert.ErrorIs(t, err, ErrInvalidMaxEvaluations)

	params = valid
	params.NMaxRunners = 0
	_, err = PlantPropagation(rng, params)
	assert.ErrorIs(t, err, ErrInvalidMaxRunners)

	params = valid
	params.PopulationSize = 0
	_, err = PlantPropagation(rng, params)
	assert.ErrorIs(t, err, ErrInvalidPopulationSize)
}

func TestPlantPropagationBudget(t *testing.T) {
	params := PropagationParams{NTeams: 6, MaxEvaluations: 50, NMaxRunners: 8, PopulationSize: 6}
	rng := rand.New(rand.NewSource(32))

	res, err := PlantPropagation(rng, params)
	require.NoError(t, err)

	// 评估次数不超过初始种群加上 runner 预算
	assert.LessOrEqual(t, res.Evaluations, params.PopulationSize+params.MaxEvaluations)
}

func TestPlantPropagationResultShape(t *testing.T) {
	params := PropagationParams{NTeams: 4, MaxEvaluations: 200, NMaxRunners: 5, PopulationSize: 8}
	rng := rand.New(rand.NewSource(33))

	res, err := PlantPropagation(rng, params)
	require.NoError(t, err)

	require.Len(t, res.Population, params.PopulationSize)
	require.Len(t, res.PopulationHomeTeams, params.PopulationSize)
	for i := range res.Population {
		require.Len(t, res.Population[i], NRounds(params.NTeams))
		for r := range res.Population[i] {
			assertConsistent(t, res.Population[i][r], res.PopulationHomeTeams[i][r])
		}
	}

	// 最优快照自洽
	assert.Equal(t, res.BestViolations, CheckViolations(res.BestSchedule, res.BestHomeTeams, DefaultMaxStreak))
	for r := range res.BestSchedule {
		assertConsistent(t, res.BestSchedule[r], res.BestHomeTeams[r])
	}

	// 足够长的运行必然有后代被保留
	accepted := 0
	for kind := 0; kind < NumMutationKinds; kind++ {
		accepted += res.Accepted[kind]
	}
	assert.Greater(t, accepted, 0)
}

func TestPlantPropagationConvergesOnTinyLeague(t *testing.T) {
	// 两队联赛可达的最小违反数为 2（相邻重复对阵不可避免）
	params := PropagationParams{NTeams: 2, MaxEvaluations: 200, NMaxRunners: 4, PopulationSize: 4}
	rng := rand.New(rand.NewSource(34))

	res, err := PlantPropagation(rng, params)
	require.NoError(t, err)

	assert.Equal(t, 2, res.BestViolations.Sum())
}

func TestPlantPropagationDeterministic(t *testing.T) {
	params := PropagationParams{NTeams: 4, MaxEvaluations: 100, NMaxRunners: 5, PopulationSize: 5}

	res1, err := PlantPropagation(rand.New(rand.NewSource(35)), params)
	require.NoError(t, err)
	res2, err := PlantPropagation(rand.New(rand.NewSource(35)), params)
	require.NoError(t, err)

	assert.Equal(t, res1, res2)
}
