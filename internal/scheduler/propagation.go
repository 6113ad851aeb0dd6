package scheduler

import (
	"math/rand"
	"slices"
)

// PropagationParams 是植物繁殖算法的输入参数
type PropagationParams struct {
	NTeams         int
	MaxEvaluations int
	NMaxRunners    int
	PopulationSize int
}

// PropagationResult 是一次植物繁殖算法运行的完整输出
type PropagationResult struct {
	Population          []Schedule
	PopulationHomeTeams []HomeTeams
	BestSchedule        Schedule
	BestHomeTeams       HomeTeams
	BestViolations      Violations
	Accepted            [NumMutationKinds]int
	Evaluations         int
}

// runner 是种群个体：初始个体或由父代深拷贝加一次变异得到的后代
type runner struct {
	schedule  Schedule
	homeTeams HomeTeams
	sum       int

	// 以下字段仅后代携带
	fromMutation bool
	kind         MutationKind
	rec          UndoRecord
	parent       Schedule
	parentHome   HomeTeams
}

// PlantPropagation 用植物繁殖算法生成赛程：每一代里每个个体按归一化适应度
// 产生若干 runner 后代（深拷贝加一次随机变异），后代与当前种群合并后按
// 违反总数升序稳定排序，保留前 PopulationSize 个作为下一代。
// 全程累计 runner 数量一旦超过评估预算，立即返回当前最优（允许代中截断）。
func PlantPropagation(rng *rand.Rand, params PropagationParams) (*PropagationResult, error) {
	if rng == nil {
		return nil, ErrNilRandomSource
	}
	if params.MaxEvaluations <= 0 {
		return nil, ErrInvalidMaxEvaluations
	}
	if params.NMaxRunners <= 0 {
		return nil, ErrInvalidMaxRunners
	}
	if params.PopulationSize <= 0 {
		return nil, ErrInvalidPopulationSize
	}

	res := &PropagationResult{}

	// 初始化种群
	population := make([]runner, params.PopulationSize)
	for i := range population {
		schedule, homeTeams, err := NewSchedule(rng, params.NTeams)
		if err != nil {
			return nil, err
		}
		population[i] = runner{
			schedule:  schedule,
			homeTeams: homeTeams,
			sum:       CheckViolations(schedule, homeTeams, DefaultMaxStreak).Sum(),
		}
		res.Evaluations++
	}

	// 初始最优取初始种群中违反总数最低的个体，
	// 这样即使第一代就触发截断也能返回可用的快照
	bestIdx := 0
	for i := range population {
		if population[i].sum < population[bestIdx].sum {
			bestIdx = i
		}
	}
	bestSum := population[bestIdx].sum
	res.BestSchedule = population[bestIdx].schedule.Clone()
	res.BestHomeTeams = population[bestIdx].homeTeams.Clone()
	res.BestViolations = CheckViolations(res.BestSchedule, res.BestHomeTeams, DefaultMaxStreak)

	totalRunners := 0

	for gen := 0; gen < params.MaxEvaluations; gen++ {
		// 当前种群的适应度范围，用于归一化
		minSum, maxSum := population[0].sum, population[0].sum
		for _, ind := range population[1:] {
			minSum = min(minSum, ind.sum)
			maxSum = max(maxSum, ind.sum)
		}

		var offspring []runner

		for i := range population {
			// 归一化适应度：全体持平时定义为 1，避免除零
			normalized := 1.0
			if maxSum != minSum {
				normalized = float64(maxSum-population[i].sum) / float64(maxSum-minSum)
			}

			nRunners := int(float64(params.NMaxRunners) * normalized * rng.Float64())
			nRunners = max(1, min(params.NMaxRunners, nRunners))

			for j := 0; j < nRunners; j++ {
				totalRunners++
				if totalRunners > params.MaxEvaluations {
					// 预算耗尽，代中截断
					finishPopulation(res, population)
					return res, nil
				}

				child := runner{
					schedule:     population[i].schedule.Clone(),
					homeTeams:    population[i].homeTeams.Clone(),
					fromMutation: true,
					parent:       population[i].schedule,
					parentHome:   population[i].homeTeams,
				}
				child.kind, child.rec = ApplyRandomMutation(rng, child.schedule, child.homeTeams)
				child.sum = CheckViolations(child.schedule, child.homeTeams, DefaultMaxStreak).Sum()
				res.Evaluations++

				offspring = append(offspring, child)
			}
		}

		// 合并、升序稳定排序、截断出下一代
		combined := append(offspring, population...)
		slices.SortStableFunc(combined, func(a, b runner) int {
			return a.sum - b.sum
		})
		population = combined[:params.PopulationSize]

		for i := range population {
			if population[i].fromMutation {
				res.Accepted[population[i].kind]++
			}
			if population[i].sum <= bestSum {
				bestSum = population[i].sum
				res.BestSchedule = population[i].schedule.Clone()
				res.BestHomeTeams = population[i].homeTeams.Clone()
				res.BestViolations = CheckViolations(res.BestSchedule, res.BestHomeTeams, DefaultMaxStreak)
			} else if population[i].fromMutation {
				// 沿用参考实现：未超越历史最优的后代在其父代对象上回退变异。
				// 对 rebuild/invert 类算子这是无操作（撤销记录保存的就是父代原状态），
				// 对 swap_rounds 则会交换父代的两轮
				Revert(population[i].rec, population[i].parent, population[i].parentHome)
			}
		}

		// 幸存的后代从下一代起视作普通个体
		for i := range population {
			population[i].fromMutation = false
			population[i].rec = UndoRecord{}
			population[i].parent = nil
			population[i].parentHome = nil
		}
	}

	finishPopulation(res, population)
	return res, nil
}

func finishPopulation(res *PropagationResult, population []runner) {
	res.Population = make([]Schedule, len(population))
	res.PopulationHomeTeams = make([]HomeTeams, len(population))
	for i := range population {
		res.Population[i] = population[i].schedule
		res.PopulationHomeTeams[i] = population[i].homeTeams
	}
}
