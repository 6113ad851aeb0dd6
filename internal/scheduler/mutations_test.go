package scheduler

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMutationRevertRoundTrip(t *testing.T) {
	operators := []struct {
		name  string
		apply func(*rand.Rand, Schedule, HomeTeams) UndoRecord
	}{
		{"swap_rounds", SwapRounds},
		{"rebuild_round", RebuildRound},
		{"invert_round", InvertRound},
		{"invert_match", InvertMatch},
	}

	for _, op := range operators {
		t.Run(op.name, func(t *testing.T) {
			rng := rand.New(rand.NewSource(11))

			for _, nTeams := range []int{4, 8} {
				schedule, homeTeams, err := NewSchedule(rng, nTeams)
				require.NoError(t, err)

				for i := 0; i < 50; i++ {
					scheduleBefore := schedule.Clone()
					homeBefore := homeTeams.Clone()

					rec := op.apply(rng, schedule, homeTeams)

					// 应用后不变式必须保持
					for r := range schedule {
						assertConsistent(t, schedule[r], homeTeams[r])
					}

					Revert(rec, schedule, homeTeams)

					// 回退后必须和变异前逐位相等
					require.Equal(t, scheduleBefore, schedule)
					require.Equal(t, homeBefore, homeTeams)
				}
			}
		})
	}
}

func TestMutationsKeepConsistency(t *testing.T) {
	rng := rand.New(rand.NewSource(12))

	schedule, homeTeams, err := NewSchedule(rng, 6)
	require.NoError(t, err)

	// 连续应用不回退，状态必须始终保持一致
	for i := 0; i < 200; i++ {
		kind, _ := ApplyRandomMutation(rng, schedule, homeTeams)
		require.GreaterOrEqual(t, int(kind), 0)
		require.Less(t, int(kind), NumMutationKinds)

		for r := range schedule {
			assertConsistent(t, schedule[r], homeTeams[r])
		}
	}
}

func TestSwapRoundsPicksDistinctRounds(t *testing.T) {
	rng := rand.New(rand.NewSource(13))

	schedule, homeTeams, err := NewSchedule(rng, 4)
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		rec := SwapRounds(rng, schedule, homeTeams)
		assert.NotEqual(t, rec.Round1, rec.Round2)
	}
}

func TestInvertRoundSwapsHomeAway(t *testing.T) {
	schedule, homeTeams := perfectSchedule()
	rng := rand.New(rand.NewSource(14))

	before := schedule.Clone()
	rec := InvertRound(rng, schedule, homeTeams)
	r := rec.Round

	// 每个槽位的符号都被翻转
	for slot := range schedule[r] {
		assert.Equal(t, -before[r][slot], schedule[r][slot])
	}

	// 新主队恰好是原轮次中以正数出现的球队
	for _, team := range homeTeams[r] {
		found := false
		for _, cell := range before[r] {
			if cell == team {
				found = true
			}
		}
		assert.True(t, found, "球队 %d 在原轮次中不是客队", team)
	}
}

func TestInvertMatchTogglesSingleFixture(t *testing.T) {
	schedule, homeTeams := perfectSchedule()
	rng := rand.New(rand.NewSource(15))

	before := schedule.Clone()
	rec := InvertMatch(rng, schedule, homeTeams)

	r := rec.Round
	slot1 := rec.Slot
	slot2 := abs(rec.OriginalCell1) - 1

	changed := 0
	for slot := range schedule[r] {
		if schedule[r][slot] != before[r][slot] {
			changed++
			assert.Equal(t, -before[r][slot], schedule[r][slot])
		}
	}
	assert.Equal(t, 2, changed, "只有一场比赛的两个槽位被翻转")
	assert.NotEqual(t, before[r][slot1], schedule[r][slot1])
	assert.NotEqual(t, before[r][slot2], schedule[r][slot2])

	// 其余轮次不受影响
	for other := range schedule {
		if other != r {
			assert.Equal(t, before[other], schedule[other])
		}
	}

	for r := range schedule {
		assertConsistent(t, schedule[r], homeTeams[r])
	}
}
