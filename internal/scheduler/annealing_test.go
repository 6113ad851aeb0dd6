package scheduler

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulatedAnnealingInvalidArguments(t *testing.T) {
	rng := rand.New(rand.NewSource(21))
	schedule, homeTeams, err := NewSchedule(rng, 4)
	require.NoError(t, err)

	_, err = SimulatedAnnealing(nil, schedule, homeTeams, 100, 1000)
	assert.ErrorIs(t, err, ErrNilRandomSource)

	_, err = SimulatedAnnealing(rng, schedule, homeTeams, 0, 1000)
	assert.ErrorIs(t, err, ErrInvalidMaxEvaluations)

	_, err = SimulatedAnnealing(rng, schedule, homeTeams, 100, 0)
	assert.ErrorIs(t, err, ErrInvalidInitialTemp)
}

func TestSimulatedAnnealingDoesNotMutateInput(t *testing.T) {
	rng := rand.New(rand.NewSource(22))
	schedule, homeTeams, err := NewSchedule(rng, 4)
	require.NoError(t, err)

	scheduleBefore := schedule.Clone()
	homeBefore := homeTeams.Clone()

	_, err = SimulatedAnnealing(rng, schedule, homeTeams, 200, 1000)
	require.NoError(t, err)

	assert.Equal(t, scheduleBefore, schedule)
	assert.Equal(t, homeBefore, homeTeams)
}

func TestSimulatedAnnealingCountersAndTrace(t *testing.T) {
	rng := rand.New(rand.NewSource(23))
	schedule, homeTeams, err := NewSchedule(rng, 6)
	require.NoError(t, err)

	const maxEvaluations = 500
	res, err := SimulatedAnnealing(rng, schedule, homeTeams, maxEvaluations, 1000)
	require.NoError(t, err)

	proposed := 0
	for kind := 0; kind < NumMutationKinds; kind++ {
		assert.GreaterOrEqual(t, res.Proposed[kind], res.Accepted[kind])
		proposed += res.Proposed[kind]
	}
	assert.Equal(t, maxEvaluations, proposed)
	assert.Equal(t, maxEvaluations, res.Evaluations)

	// 温度轨迹：起点为初始温度，之后每次评估乘以 0.9999，严格递减
	require.Len(t, res.Temperatures, maxEvaluations+1)
	assert.Equal(t, 1000.0, res.Temperatures[0])
	for i := 1; i < len(res.Temperatures); i++ {
		assert.Less(t, res.Temperatures[i], res.Temperatures[i-1])
	}
}

func TestSimulatedAnnealingBestTracking(t *testing.T) {
	rng := rand.New(rand.NewSource(24))
	schedule, homeTeams, err := NewSchedule(rng, 6)
	require.NoError(t, err)

	initialSum := CheckViolations(schedule, homeTeams, DefaultMaxStreak).Sum()

	res, err := SimulatedAnnealing(rng, schedule, homeTeams, 2000, 1000)
	require.NoError(t, err)

	// Best 快照必须自洽且不差于初始状态
	assert.Equal(t, res.BestViolations, CheckViolations(res.BestSchedule, res.BestHomeTeams, DefaultMaxStreak))
	assert.LessOrEqual(t, res.BestViolations.Sum(), initialSum)

	// 历史最优不差于最近接受的状态
	lastSum := CheckViolations(res.LastAcceptedSchedule, res.LastAcceptedHomeTeams, DefaultMaxStreak).Sum()
	assert.LessOrEqual(t, res.BestViolations.Sum(), lastSum)

	for r := range res.BestSchedule {
		assertConsistent(t, res.BestSchedule[r], res.BestHomeTeams[r])
	}
}

func TestSimulatedAnnealingGreedyAtLowTemperature(t *testing.T) {
	// 两队联赛：两轮主客场相同则违反数为 4（双循环缺口），
	// 否则为 2（相邻重复对阵不可避免）。
	// 温度极低时 Metropolis 准则退化为只接受不变差的移动，
	// 搜索必须收敛到可达的最小违反数 2
	schedule := Schedule{
		{2, -1},
		{2, -1},
	}
	homeTeams := HomeTeams{
		{1},
		{1},
	}
	require.Equal(t, 4, CheckViolations(schedule, homeTeams, DefaultMaxStreak).Sum())

	rng := rand.New(rand.NewSource(25))
	res, err := SimulatedAnnealing(rng, schedule, homeTeams, 500, 1e-9)
	require.NoError(t, err)

	assert.Equal(t, 2, res.BestViolations.Sum())
}

func TestSimulatedAnnealingDeterministic(t *testing.T) {
	schedule, homeTeams := perfectSchedule()

	res1, err := SimulatedAnnealing(rand.New(rand.NewSource(26)), schedule, homeTeams, 300, 1000)
	require.NoError(t, err)
	res2, err := SimulatedAnnealing(rand.New(rand.NewSource(26)), schedule, homeTeams, 300, 1000)
	require.NoError(t, err)

	assert.Equal(t, res1, res2)
}
