package scheduler

import (
	"errors"
	"math"
	"math/rand"
)

// 模拟退火的几何降温系数
const coolingFactor = 0.9999

var (
	ErrInvalidMaxEvaluations = errors.New("最大评估次数必须为正数")
	ErrInvalidInitialTemp    = errors.New("初始温度必须为正数")
	ErrInvalidMaxRunners     = errors.New("最大 runner 数量必须为正数")
	ErrInvalidPopulationSize = errors.New("种群大小必须为正数")
	ErrNilRandomSource       = errors.New("随机数生成器未初始化")
)

// AnnealingResult 是一次模拟退火运行的完整输出。
// LastAccepted 快照在每次接受变异时被无条件覆盖（沿用参考实现的行为，
// 由于退火会以非零概率接受变差的解，它未必是历史最优）；
// Best 快照则始终是运行过程中违反总数最低的状态，两者都返回，由调用方选择。
type AnnealingResult struct {
	LastAcceptedSchedule  Schedule
	LastAcceptedHomeTeams HomeTeams
	BestSchedule          Schedule
	BestHomeTeams         HomeTeams
	BestViolations        Violations
	Proposed              [NumMutationKinds]int
	Accepted              [NumMutationKinds]int
	Temperatures          []float64
	Evaluations           int
}

// SimulatedAnnealing 用模拟退火修复赛程：每次均匀随机应用一种变异算子并重新评估，
// 变好或持平无条件接受，变差以 exp(-delta/T) 的概率接受（Metropolis 准则），
// 拒绝则按撤销记录回退。每次评估后温度乘以 0.9999，温度降到 0 或评估次数用尽时终止。
func SimulatedAnnealing(rng *rand.Rand, initialSchedule Schedule, initialHomeTeams HomeTeams, maxEvaluations int, initialTemp float64) (*AnnealingResult, error) {
	if rng == nil {
		return nil, ErrNilRandomSource
	}
	if maxEvaluations <= 0 {
		return nil, ErrInvalidMaxEvaluations
	}
	if initialTemp <= 0 {
		return nil, ErrInvalidInitialTemp
	}

	current := initialSchedule.Clone()
	currentHome := initialHomeTeams.Clone()
	currentViolations := CheckViolations(current, currentHome, DefaultMaxStreak)
	currentSum := currentViolations.Sum()

	res := &AnnealingResult{
		LastAcceptedSchedule:  current.Clone(),
		LastAcceptedHomeTeams: currentHome.Clone(),
		BestSchedule:          current.Clone(),
		BestHomeTeams:         currentHome.Clone(),
		BestViolations:        currentViolations,
	}
	bestSum := currentSum

	temperature := initialTemp
	res.Temperatures = append(res.Temperatures, temperature)

	for i := 0; i < maxEvaluations; i++ {
		kind, rec := ApplyRandomMutation(rng, current, currentHome)
		res.Proposed[kind]++

		newViolations := CheckViolations(current, currentHome, DefaultMaxStreak)
		newSum := newViolations.Sum()
		res.Evaluations++

		delta := newSum - currentSum
		if delta <= 0 || rng.Float64() < math.Exp(-float64(delta)/temperature) {
			currentSum = newSum
			res.Accepted[kind]++

			// 最近接受的状态无条件覆盖快照
			res.LastAcceptedSchedule = current.Clone()
			res.LastAcceptedHomeTeams = currentHome.Clone()

			// 历史最优单独跟踪
			if newSum <= bestSum {
				bestSum = newSum
				res.BestSchedule = current.Clone()
				res.BestHomeTeams = currentHome.Clone()
				res.BestViolations = newViolations
			}
		} else {
			Revert(rec, current, currentHome)
		}

		// 降温
		temperature *= coolingFactor
		if temperature <= 0 {
			break
		}
		res.Temperatures = append(res.Temperatures, temperature)
	}

	return res, nil
}
