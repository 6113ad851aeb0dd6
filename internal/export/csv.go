// Package export 负责把赛程结果导出为 CSV 文件
package export

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
	"github.com/sysu-ecnc-dev/league-scheduler/backend/internal/domain"
)

// FixtureRow 是 CSV 中的一行，对应一场比赛
type FixtureRow struct {
	Round    int    `csv:"轮次"`
	HomeTeam string `csv:"主队"`
	AwayTeam string `csv:"客队"`
}

// BuildFixtureRows 把赛程矩阵展开为逐场比赛的行。
// 矩阵中正数单元格表示该槽位的球队主场迎战对手，
// 每场比赛只从主队一侧展开一次，避免重复
func BuildFixtureRows(league *domain.League, rounds [][]int) ([]*FixtureRow, error) {
	nTeams := league.NTeams()
	fixtureRows := []*FixtureRow{}

	for r, round := range rounds {
		for slot, cell := range round {
			if cell <= 0 {
				continue
			}

			home := slot + 1
			away := cell
			if away < 1 || away > nTeams {
				return nil, fmt.Errorf("第 %d 轮中球队 %d 的对手编号 %d 越界", r+1, home, away)
			}

			fixtureRows = append(fixtureRows, &FixtureRow{
				Round:    r + 1,
				HomeTeam: league.TeamNames[home-1],
				AwayTeam: league.TeamNames[away-1],
			})
		}
	}

	return fixtureRows, nil
}

// WriteFixturesCSV 把赛程结果写为 CSV
func WriteFixturesCSV(w io.Writer, league *domain.League, rounds [][]int) error {
	fixtureRows, err := BuildFixtureRows(league, rounds)
	if err != nil {
		return err
	}

	return gocsv.Marshal(fixtureRows, w)
}
