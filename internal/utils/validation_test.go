package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/league-scheduler/backend/internal/domain"
)

func TestValidateLeagueTeams(t *testing.T) {
	league := &domain.League{
		TeamNames: []string{"北京猛虎", "上海飞龙", "广州雄鹰", "深圳奔狼"},
	}
	assert.NoError(t, ValidateLeagueTeams(league))

	tooFew := &domain.League{TeamNames: []string{"甲", "乙"}}
	assert.Error(t, ValidateLeagueTeams(tooFew))

	odd := &domain.League{TeamNames: []string{"甲", "乙", "丙", "丁", "戊"}}
	assert.Error(t, ValidateLeagueTeams(odd))

	empty := &domain.League{TeamNames: []string{"甲", "", "丙", "丁"}}
	assert.Error(t, ValidateLeagueTeams(empty))

	duplicate := &domain.League{TeamNames: []string{"甲", "乙", "甲", "丁"}}
	assert.Error(t, ValidateLeagueTeams(duplicate))
}

// 四支球队的合法赛程，正数表示该槽位的球队主场
func validRounds() ([][]int, [][]int) {
	rounds := [][]int{
		{2, -1, 4, -3},
		{-3, -4, 1, 2},
		{4, 3, -2, -1},
		{-2, 1, -4, 3},
		{3, 4, -1, -2},
		{-4, -3, 2, 1},
	}
	homeTeams := [][]int{
		{1, 3},
		{3, 4},
		{1, 2},
		{2, 4},
		{1, 2},
		{4, 3},
	}
	return rounds, homeTeams
}

func TestValidateScheduleResult(t *testing.T) {
	rounds, homeTeams := validRounds()
	require.NoError(t, ValidateScheduleResult(rounds, homeTeams, 4))
}

func TestValidateScheduleResultWrongDimensions(t *testing.T) {
	rounds, homeTeams := validRounds()
	assert.Error(t, ValidateScheduleResult(rounds[:5], homeTeams[:5], 4))
	assert.Error(t, ValidateScheduleResult(rounds, homeTeams[:5], 4))

	rounds, homeTeams = validRounds()
	rounds[0] = []int{2, -1, 4}
	assert.Error(t, ValidateScheduleResult(rounds, homeTeams, 4))
}

func TestValidateScheduleResultBrokenPairing(t *testing.T) {
	// 对手编号越界
	rounds, homeTeams := validRounds()
	rounds[0][0] = 5
	assert.Error(t, ValidateScheduleResult(rounds, homeTeams, 4))

	// 和自己配对
	rounds, homeTeams = validRounds()
	rounds[0][0] = 1
	assert.Error(t, ValidateScheduleResult(rounds, homeTeams, 4))

	// 镜像槽位不互指
	rounds, homeTeams = validRounds()
	rounds[0][1] = -3
	assert.Error(t, ValidateScheduleResult(rounds, homeTeams, 4))

	// 双方都标记为主场
	rounds, homeTeams = validRounds()
	rounds[0][1] = 1
	assert.Error(t, ValidateScheduleResult(rounds, homeTeams, 4))
}

func TestValidateScheduleResultHomeTeamsMismatch(t *testing.T) {
	// 主队数量不对
	rounds, homeTeams := validRounds()
	homeTeams[0] = []int{1}
	assert.Error(t, ValidateScheduleResult(rounds, homeTeams, 4))

	// 主队列表中的球队在矩阵中是客场
	rounds, homeTeams = validRounds()
	homeTeams[0] = []int{2, 3}
	assert.Error(t, ValidateScheduleResult(rounds, homeTeams, 4))

	// 主队编号越界
	rounds, homeTeams = validRounds()
	homeTeams[0] = []int{1, 5}
	assert.Error(t, ValidateScheduleResult(rounds, homeTeams, 4))
}
