package domain

import "time"

// ScheduleResult 是任务完成后持久化的赛程结果。
// Rounds 和 HomeTeams 与 internal/scheduler 的矩阵表示一致：
// 第 r 轮第 t 个槽位为带符号的 1-based 对手编号，正数表示球队 t+1 主场
type ScheduleResult struct {
	ID        int64   `json:"id"`
	JobID     int64   `json:"jobID"`
	Rounds    [][]int `json:"rounds"`
	HomeTeams [][]int `json:"homeTeams"`

	MaxStreakViolations  int `json:"maxStreakViolations"`
	NoRepeatViolations   int `json:"noRepeatViolations"`
	RoundRobinViolations int `json:"roundRobinViolations"`

	Proposed    []int `json:"proposed"` // 按算子类型统计的提议次数（仅模拟退火）
	Accepted    []int `json:"accepted"` // 按算子类型统计的接受次数
	Evaluations int   `json:"evaluations"`

	FinalTemperature float64 `json:"finalTemperature"` // 仅模拟退火

	CreatedAt time.Time `json:"createdAt"`
	Version   int32     `json:"-"`
}

// TotalViolations 返回三类违反的总数
func (r *ScheduleResult) TotalViolations() int {
	return r.MaxStreakViolations + r.NoRepeatViolations + r.RoundRobinViolations
}
