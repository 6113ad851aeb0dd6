package utils

import (
	"fmt"

	"github.com/sysu-ecnc-dev/league-scheduler/backend/internal/domain"
)

// ValidateLeagueTeams 检查联赛的球队列表是否满足双循环赛的要求
func ValidateLeagueTeams(league *domain.League) error {
	n := len(league.TeamNames)
	if n < 4 {
		return fmt.Errorf("联赛至少需要 4 支球队")
	}
	if n%2 == 1 {
		return fmt.Errorf("球队数量必须为偶数")
	}

	seen := make(map[string]bool, n)
	for i, name := range league.TeamNames {
		if name == "" {
			return fmt.Errorf("第 %d 支球队的名称不能为空", i+1)
		}
		if seen[name] {
			return fmt.Errorf("球队名称 %s 重复", name)
		}
		seen[name] = true
	}

	return nil
}

// ValidateScheduleResult 检查赛程矩阵和主队列表是否满足结构不变式：
// 每轮每支球队恰好出现一次、两两配对、每场比赛恰好一方主场，
// 且主队列表与矩阵的符号模式一致。worker 在持久化结果前调用
func ValidateScheduleResult(rounds [][]int, homeTeams [][]int, nTeams int) error {
	wantRounds := 2 * (nTeams - 1)
	if len(rounds) != wantRounds {
		return fmt.Errorf("轮数应为 %d，实际为 %d", wantRounds, len(rounds))
	}
	if len(homeTeams) != wantRounds {
		return fmt.Errorf("主队列表的轮数应为 %d，实际为 %d", wantRounds, len(homeTeams))
	}

	for r, round := range rounds {
		if len(round) != nTeams {
			return fmt.Errorf("第 %d 轮的槽位数应为 %d，实际为 %d", r+1, nTeams, len(round))
		}

		for slot, cell := range round {
			team := slot + 1
			opponent := cell
			if opponent < 0 {
				opponent = -opponent
			}

			if opponent < 1 || opponent > nTeams {
				return fmt.Errorf("第 %d 轮第 %d 个槽位的对手编号 %d 越界", r+1, team, opponent)
			}
			if opponent == team {
				return fmt.Errorf("第 %d 轮中球队 %d 和自己配对", r+1, team)
			}

			// 镜像槽位必须指回本队且符号相反
			mirror := round[opponent-1]
			mirrorOpponent := mirror
			if mirrorOpponent < 0 {
				mirrorOpponent = -mirrorOpponent
			}
			if mirrorOpponent != team {
				return fmt.Errorf("第 %d 轮中球队 %d 和 %d 的配对不互指", r+1, team, opponent)
			}
			if (cell > 0) == (mirror > 0) {
				return fmt.Errorf("第 %d 轮中球队 %d 和 %d 的主客场标记冲突", r+1, team, opponent)
			}
		}

		// 主队列表和符号模式一致
		if len(homeTeams[r]) != nTeams/2 {
			return fmt.Errorf("第 %d 轮的主队数量应为 %d，实际为 %d", r+1, nTeams/2, len(homeTeams[r]))
		}
		for _, team := range homeTeams[r] {
			if team < 1 || team > nTeams {
				return fmt.Errorf("第 %d 轮的主队编号 %d 越界", r+1, team)
			}
			if round[team-1] <= 0 {
				return fmt.Errorf("第 %d 轮中球队 %d 被列为主队但矩阵标记为客场", r+1, team)
			}
		}
	}

	return nil
}
