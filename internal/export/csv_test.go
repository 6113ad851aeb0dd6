package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/league-scheduler/backend/internal/domain"
)

func testLeague() *domain.League {
	return &domain.League{
		ID:        1,
		Name:      "测试联赛",
		Code:      "ceshiliansai",
		TeamNames: []string{"北京猛虎", "上海飞龙", "广州雄鹰", "深圳奔狼"},
	}
}

func TestBuildFixtureRows(t *testing.T) {
	league := testLeague()
	rounds := [][]int{
		{2, -1, 4, -3},
		{-3, -4, 1, 2},
	}

	fixtureRows, err := BuildFixtureRows(league, rounds)
	require.NoError(t, err)

	// 每轮 4 支球队产生 2 场比赛
	require.Len(t, fixtureRows, 4)

	assert.Equal(t, &FixtureRow{Round: 1, HomeTeam: "北京猛虎", AwayTeam: "上海飞龙"}, fixtureRows[0])
	assert.Equal(t, &FixtureRow{Round: 1, HomeTeam: "广州雄鹰", AwayTeam: "深圳奔狼"}, fixtureRows[1])
	assert.Equal(t, &FixtureRow{Round: 2, HomeTeam: "广州雄鹰", AwayTeam: "北京猛虎"}, fixtureRows[2])
	assert.Equal(t, &FixtureRow{Round: 2, HomeTeam: "深圳奔狼", AwayTeam: "上海飞龙"}, fixtureRows[3])
}

func TestBuildFixtureRowsOpponentOutOfRange(t *testing.T) {
	league := testLeague()
	rounds := [][]int{
		{5, -1, 4, -3},
	}

	_, err := BuildFixtureRows(league, rounds)
	assert.Error(t, err)
}

func TestWriteFixturesCSV(t *testing.T) {
	league := testLeague()
	rounds := [][]int{
		{2, -1, 4, -3},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteFixturesCSV(&buf, league, rounds))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "轮次,主队,客队", lines[0])
	assert.Equal(t, "1,北京猛虎,上海飞龙", lines[1])
	assert.Equal(t, "1,广州雄鹰,深圳奔狼", lines[2])
}
