package scheduler

import "slices"

// DefaultMaxStreak 是默认的最大连续主/客场轮数
const DefaultMaxStreak = 3

// Violations 是三类约束的违反次数
type Violations struct {
	MaxStreak  int `json:"maxStreak"`  // 连续主/客场超限
	NoRepeat   int `json:"noRepeat"`   // 相邻两轮重复对阵
	RoundRobin int `json:"roundRobin"` // 双循环约束
}

// Sum 返回违反总数，搜索算法用它作为适应度（越小越好）
func (v Violations) Sum() int {
	return v.MaxStreak + v.NoRepeat + v.RoundRobin
}

// CheckViolations 统计赛程违反约束的次数。纯函数：不修改输入，也不使用随机数。
func CheckViolations(schedule Schedule, homeTeams HomeTeams, maxStreak int) Violations {
	var v Violations
	nTeams := len(schedule[0])

	// 相邻两轮重复对阵：同一槽位在相邻两轮出现同一对手
	for r := 1; r < len(schedule); r++ {
		prev := schedule[r-1]
		cur := schedule[r]
		for t := 0; t < nTeams; t++ {
			if abs(prev[t]) == abs(cur[t]) {
				v.NoRepeat++
			}
		}
	}

	// 连续主/客场超限：每超出一轮记一次违反，
	// 例如连续 5 个主场在 maxStreak=3 时记 2 次（长度 4 和长度 5 各一次）
	for team := 1; team <= nTeams; team++ {
		homeStreak := 0
		awayStreak := 0

		for r := range schedule {
			if slices.Contains(homeTeams[r], team) {
				homeStreak++
				awayStreak = 0
			} else {
				awayStreak++
				homeStreak = 0
			}

			if homeStreak > maxStreak {
				v.MaxStreak++
			}
			if awayStreak > maxStreak {
				v.MaxStreak++
			}
		}
	}

	// 双循环约束
	type fixture struct {
		opponent int
		wasHome  bool
	}
	matches := make(map[int][]fixture, nTeams)

	for r, round := range schedule {
		// 每支球队都必须在本轮出场
		seen := make(map[int]struct{}, nTeams)
		for _, cell := range round {
			seen[abs(cell)] = struct{}{}
		}
		if len(seen) != nTeams {
			v.RoundRobin++
		}

		for _, cell := range round {
			team1 := abs(cell)
			team2 := abs(round[team1-1])
			matches[team1] = append(matches[team1], fixture{opponent: team2, wasHome: slices.Contains(homeTeams[r], team1)})
			matches[team2] = append(matches[team2], fixture{opponent: team1, wasHome: slices.Contains(homeTeams[r], team2)})
		}
	}

	// 每支球队必须对每个对手主客场各赛一次
	for team := 1; team <= nTeams; team++ {
		for opponent := 1; opponent <= nTeams; opponent++ {
			if opponent == team {
				continue
			}

			homeMatch := false
			awayMatch := false
			for _, f := range matches[team] {
				if f.opponent != opponent {
					continue
				}
				if f.wasHome {
					homeMatch = true
				} else {
					awayMatch = true
				}
			}

			if !homeMatch || !awayMatch {
				v.RoundRobin++
			}
		}
	}

	return v
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
