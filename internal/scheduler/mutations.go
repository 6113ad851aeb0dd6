package scheduler

import (
	"math/rand"
	"slices"
)

// MutationKind 标识四种变异算子
type MutationKind int

const (
	MutationSwapRounds MutationKind = iota
	MutationRebuildRound
	MutationInvertRound
	MutationInvertMatch

	NumMutationKinds = 4
)

var mutationNames = map[MutationKind]string{
	MutationSwapRounds:   "swap_rounds",
	MutationRebuildRound: "rebuild_round",
	MutationInvertRound:  "invert_round",
	MutationInvertMatch:  "invert_match",
}

func (k MutationKind) String() string {
	return mutationNames[k]
}

// UndoRecord 是变异的撤销记录：记录算子类型和恢复变异前状态所需的字段。
// 记录只在一次"应用-评估-接受或回退"的决策期间有效，之后即丢弃。
type UndoRecord struct {
	Kind MutationKind

	// swap_rounds
	Round1 int
	Round2 int

	// rebuild_round / invert_round / invert_match
	Round        int
	OriginalRow  []int
	OriginalHome []int

	// invert_match
	Slot          int
	OriginalCell1 int
	OriginalCell2 int
}

// SwapRounds 随机选择两个不同的轮次，交换它们的槽位行和主队列表
func SwapRounds(rng *rand.Rand, schedule Schedule, homeTeams HomeTeams) UndoRecord {
	nRounds := len(schedule)

	round1 := rng.Intn(nRounds)
	round2 := rng.Intn(nRounds - 1)
	if round2 >= round1 {
		round2++
	}

	schedule[round1], schedule[round2] = schedule[round2], schedule[round1]
	homeTeams[round1], homeTeams[round2] = homeTeams[round2], homeTeams[round1]

	return UndoRecord{Kind: MutationSwapRounds, Round1: round1, Round2: round2}
}

// RebuildRound 随机选择一个轮次，用新生成的随机轮次替换它
func RebuildRound(rng *rand.Rand, schedule Schedule, homeTeams HomeTeams) UndoRecord {
	r := rng.Intn(len(schedule))

	rec := UndoRecord{
		Kind:         MutationRebuildRound,
		Round:        r,
		OriginalRow:  slices.Clone(schedule[r]),
		OriginalHome: slices.Clone(homeTeams[r]),
	}

	// 输入状态满足不变式时球队数必为正偶数，NewRound 不会失败
	round, home, _ := NewRound(rng, len(schedule[r]))
	schedule[r] = round
	homeTeams[r] = home

	return rec
}

// InvertRound 随机选择一个轮次，翻转该轮所有比赛的主客场。
// 新的主队列表恰好是原轮次中以正数形式出现的球队（即原来的客队）。
func InvertRound(rng *rand.Rand, schedule Schedule, homeTeams HomeTeams) UndoRecord {
	r := rng.Intn(len(schedule))

	rec := UndoRecord{
		Kind:         MutationInvertRound,
		Round:        r,
		OriginalRow:  slices.Clone(schedule[r]),
		OriginalHome: slices.Clone(homeTeams[r]),
	}

	newHome := make([]int, 0, len(homeTeams[r]))
	for t := range schedule[r] {
		if schedule[r][t] > 0 {
			newHome = append(newHome, schedule[r][t])
		}
		schedule[r][t] = -schedule[r][t]
	}
	homeTeams[r] = newHome

	return rec
}

// InvertMatch 随机选择一轮中的一个槽位，翻转该槽位所在比赛的主客场。
// 对手槽位由当前（变异前）的槽位值确定。
func InvertMatch(rng *rand.Rand, schedule Schedule, homeTeams HomeTeams) UndoRecord {
	r := rng.Intn(len(schedule))
	slot1 := rng.Intn(len(schedule[r]))
	slot2 := abs(schedule[r][slot1]) - 1

	rec := UndoRecord{
		Kind:          MutationInvertMatch,
		Round:         r,
		Slot:          slot1,
		OriginalCell1: schedule[r][slot1],
		OriginalCell2: schedule[r][slot2],
		OriginalHome:  slices.Clone(homeTeams[r]),
	}

	schedule[r][slot1] = -schedule[r][slot1]
	schedule[r][slot2] = -schedule[r][slot2]

	toggleHome(homeTeams, r, slot1+1)
	toggleHome(homeTeams, r, slot2+1)

	return rec
}

// ApplyRandomMutation 均匀随机选择一种算子并应用，返回算子类型和撤销记录
func ApplyRandomMutation(rng *rand.Rand, schedule Schedule, homeTeams HomeTeams) (MutationKind, UndoRecord) {
	kind := MutationKind(rng.Intn(NumMutationKinds))

	var rec UndoRecord
	switch kind {
	case MutationSwapRounds:
		rec = SwapRounds(rng, schedule, homeTeams)
	case MutationRebuildRound:
		rec = RebuildRound(rng, schedule, homeTeams)
	case MutationInvertRound:
		rec = InvertRound(rng, schedule, homeTeams)
	case MutationInvertMatch:
		rec = InvertMatch(rng, schedule, homeTeams)
	}

	return kind, rec
}

// Revert 按撤销记录把赛程和主队列表恢复到变异前的状态
func Revert(rec UndoRecord, schedule Schedule, homeTeams HomeTeams) {
	switch rec.Kind {
	case MutationSwapRounds:
		// 交换轮次是自逆的
		schedule[rec.Round1], schedule[rec.Round2] = schedule[rec.Round2], schedule[rec.Round1]
		homeTeams[rec.Round1], homeTeams[rec.Round2] = homeTeams[rec.Round2], homeTeams[rec.Round1]
	case MutationRebuildRound, MutationInvertRound:
		schedule[rec.Round] = rec.OriginalRow
		homeTeams[rec.Round] = rec.OriginalHome
	case MutationInvertMatch:
		slot2 := abs(rec.OriginalCell1) - 1
		schedule[rec.Round][rec.Slot] = rec.OriginalCell1
		schedule[rec.Round][slot2] = rec.OriginalCell2
		homeTeams[rec.Round] = rec.OriginalHome
	}
}

// toggleHome 切换球队在某轮主队列表中的成员资格
func toggleHome(homeTeams HomeTeams, round int, team int) {
	if i := slices.Index(homeTeams[round], team); i >= 0 {
		homeTeams[round] = slices.Delete(homeTeams[round], i, i+1)
	} else {
		homeTeams[round] = append(homeTeams[round], team)
	}
}
