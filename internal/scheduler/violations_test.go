package scheduler

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// perfectSchedule 手工构造一个 4 队的合法双循环赛程：
// 第一循环 1v2/3v4、3v1/4v2、1v4/2v3，第二循环主客场互换，
// 无相邻重复对阵，所有球队连续主/客场不超过 3 轮
func perfectSchedule() (Schedule, HomeTeams) {
	schedule := Schedule{
		{2, -1, 4, -3},  // 1v2, 3v4
		{-3, -4, 1, 2},  // 3v1, 4v2
		{4, 3, -2, -1},  // 1v4, 2v3
		{-2, 1, -4, 3},  // 2v1, 4v3
		{3, 4, -1, -2},  // 1v3, 2v4
		{-4, -3, 2, 1},  // 4v1, 3v2
	}
	homeTeams := HomeTeams{
		{1, 3},
		{3, 4},
		{1, 2},
		{2, 4},
		{1, 2},
		{4, 3},
	}
	return schedule, homeTeams
}

func TestCheckViolationsPerfectSchedule(t *testing.T) {
	schedule, homeTeams := perfectSchedule()

	v := CheckViolations(schedule, homeTeams, DefaultMaxStreak)
	assert.Equal(t, Violations{}, v)
	assert.Equal(t, 0, v.Sum())
}

func TestCheckViolationsNoRepeat(t *testing.T) {
	schedule, homeTeams := perfectSchedule()

	// 把第 2 轮改成第 1 轮的副本：4 队赛程里重复一场对阵会连带重复另一场，
	// 因此相邻两轮的 4 个槽位全部命中
	schedule[1] = append([]int{}, schedule[0]...)
	homeTeams[1] = append([]int{}, homeTeams[0]...)

	v := CheckViolations(schedule, homeTeams, DefaultMaxStreak)
	assert.Equal(t, 4, v.NoRepeat)
}

func TestCheckViolationsMaxStreak(t *testing.T) {
	schedule, _ := perfectSchedule()

	// 球队 1 连续 5 轮主场：长度 4 和长度 5 各记一次，共 2 次；
	// 其他球队的连续主/客场都不超过 3 轮
	homeTeams := HomeTeams{
		{1, 2},
		{1, 2, 4},
		{1, 3, 4},
		{1, 3},
		{1, 2},
		{2, 4},
	}

	v := CheckViolations(schedule, homeTeams, DefaultMaxStreak)
	assert.Equal(t, 2, v.MaxStreak)
}

func TestCheckViolationsRoundRobinMissingFixture(t *testing.T) {
	schedule, homeTeams := perfectSchedule()

	// 翻转第 6 轮所有主客场：4v1 变成 1v4、3v2 变成 2v3，
	// 于是 1 对 4、4 对 1、2 对 3、3 对 2 这 4 个有序对各缺一种主客场
	for slot := range schedule[5] {
		schedule[5][slot] = -schedule[5][slot]
	}
	homeTeams[5] = []int{1, 2}

	v := CheckViolations(schedule, homeTeams, DefaultMaxStreak)
	assert.Equal(t, 4, v.RoundRobin)
}

func TestCheckViolationsPure(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	schedule, homeTeams, err := NewSchedule(rng, 6)
	require.NoError(t, err)

	scheduleBefore := schedule.Clone()
	homeBefore := homeTeams.Clone()

	v1 := CheckViolations(schedule, homeTeams, DefaultMaxStreak)
	v2 := CheckViolations(schedule, homeTeams, DefaultMaxStreak)

	assert.Equal(t, v1, v2, "相同输入必须得到相同结果")
	assert.Equal(t, scheduleBefore, schedule, "评估不得修改赛程")
	assert.Equal(t, homeBefore, homeTeams, "评估不得修改主队列表")
}
