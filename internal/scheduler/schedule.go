// Package scheduler 实现双循环赛赛程的构造、约束检查与两种元启发式修复算法
// （模拟退火和植物繁殖算法）。
package scheduler

import (
	"errors"
	"math/rand"
)

// ErrInvalidTeamCount 表示球队数量不合法（必须为正偶数）
var ErrInvalidTeamCount = errors.New("球队数量必须为正偶数")

// Schedule 是赛程矩阵，共 2*(n-1) 轮，每轮 n 个槽位。
// 第 r 轮第 t 个槽位的值为带符号的 1-based 对手编号：
// 正数 k 表示球队 t+1 主场迎战球队 k，负数 -k 表示球队 t+1 客场挑战球队 k。
type Schedule [][]int

// HomeTeams 记录每一轮的主队编号列表，和 Schedule 的符号模式保持一致：
// 球队 k 在第 r 轮是主队，当且仅当该轮中某个对手槽位的值为 -k。
type HomeTeams [][]int

// NRounds 返回 n 支球队的双循环赛轮数
func NRounds(nTeams int) int {
	return 2 * (nTeams - 1)
}

// NewRound 随机生成一轮赛程：把所有球队两两随机配对，主客场由均匀抛硬币决定。
// 返回该轮的槽位行和该轮的主队列表。
func NewRound(rng *rand.Rand, nTeams int) ([]int, []int, error) {
	if nTeams <= 0 || nTeams%2 == 1 {
		return nil, nil, ErrInvalidTeamCount
	}

	// 未配对球队池
	teams := make([]int, nTeams)
	for i := range teams {
		teams[i] = i + 1
	}

	round := make([]int, nTeams)
	homeTeams := make([]int, 0, nTeams/2)

	for len(teams) > 0 {
		// 从池中随机取出两支球队
		i := rng.Intn(len(teams))
		team1 := teams[i]
		teams[i] = teams[len(teams)-1]
		teams = teams[:len(teams)-1]

		j := rng.Intn(len(teams))
		team2 := teams[j]
		teams[j] = teams[len(teams)-1]
		teams = teams[:len(teams)-1]

		home, away := team1, team2
		if rng.Intn(2) == 0 {
			home, away = team2, team1
		}

		round[home-1] = away
		round[away-1] = -home
		homeTeams = append(homeTeams, home)
	}

	return round, homeTeams, nil
}

// NewSchedule 独立地生成 2*(n-1) 轮随机赛程。各轮之间没有任何协调，
// 初始赛程通常存在大量违反约束的地方，由搜索算法负责修复。
func NewSchedule(rng *rand.Rand, nTeams int) (Schedule, HomeTeams, error) {
	if nTeams <= 0 || nTeams%2 == 1 {
		return nil, nil, ErrInvalidTeamCount
	}

	nRounds := NRounds(nTeams)
	schedule := make(Schedule, nRounds)
	homeTeams := make(HomeTeams, nRounds)

	for r := 0; r < nRounds; r++ {
		round, home, err := NewRound(rng, nTeams)
		if err != nil {
			return nil, nil, err
		}
		schedule[r] = round
		homeTeams[r] = home
	}

	return schedule, homeTeams, nil
}

// Clone 返回赛程矩阵的深拷贝
func (s Schedule) Clone() Schedule {
	c := make(Schedule, len(s))
	for r, round := range s {
		c[r] = make([]int, len(round))
		copy(c[r], round)
	}
	return c
}

// Clone 返回每轮主队列表的深拷贝
func (ht HomeTeams) Clone() HomeTeams {
	c := make(HomeTeams, len(ht))
	for r, teams := range ht {
		c[r] = make([]int, len(teams))
		copy(c[r], teams)
	}
	return c
}
