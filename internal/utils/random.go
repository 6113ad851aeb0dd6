package utils

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/mozillazg/go-pinyin"
	"github.com/sysu-ecnc-dev/league-scheduler/backend/internal/domain"
)

var commonCityNames = []string{
	"北京", "上海", "广州", "深圳", "成都", "杭州", "武汉", "南京", "重庆", "西安",
	"长沙", "沈阳", "青岛", "大连", "厦门", "苏州", "天津", "郑州", "昆明", "哈尔滨",
}

var commonTeamSuffixes = []string{
	"猛虎", "飞龙", "雄鹰", "奔狼", "闪电", "烈焰", "巨浪", "荣耀", "先锋", "铁骑",
}

// GenerateRandomTeamName 随机生成一个"城市+队名"形式的中文球队名称
func GenerateRandomTeamName(rng *rand.Rand) string {
	city := commonCityNames[rng.Intn(len(commonCityNames))]
	suffix := commonTeamSuffixes[rng.Intn(len(commonTeamSuffixes))]
	return city + suffix
}

// GenerateCodeFromName 把中文名称转换为拼音小写代码，非中文字符原样保留，
// 用于联赛和球队的导出文件名等 ASCII 场景
func GenerateCodeFromName(name string) string {
	var sb strings.Builder

	for _, r := range name {
		converted := pinyin.LazyConvert(string(r), nil)
		if len(converted) == 0 {
			sb.WriteRune(r)
			continue
		}
		sb.WriteString(converted[0])
	}

	return strings.ToLower(sb.String())
}

var digits = "0123456789"

// GenerateRandomID 生成字母加数字的随机标识，用于随机联赛名称去重
func GenerateRandomID(rng *rand.Rand, digitLength int) string {
	id := make([]byte, digitLength)
	for i := range id {
		id[i] = digits[rng.Intn(len(digits))]
	}
	return string(id)
}

// GenerateRandomLeague 随机生成一个联赛：球队数量为 [4, maxTeams] 之间的偶数，
// 球队名称两两不同
func GenerateRandomLeague(rng *rand.Rand, maxTeams int) *domain.League {
	nTeams := 4 + 2*rng.Intn(maxTeams/2-1)

	teamNames := make([]string, 0, nTeams)
	used := make(map[string]bool, nTeams)
	for len(teamNames) < nTeams {
		name := GenerateRandomTeamName(rng)
		if used[name] {
			continue
		}
		used[name] = true
		teamNames = append(teamNames, name)
	}

	name := fmt.Sprintf("测试联赛%s", GenerateRandomID(rng, 4))
	return &domain.League{
		Name:        name,
		Code:        GenerateCodeFromName(name),
		Description: fmt.Sprintf("%d 支球队的双循环赛测试数据", nTeams),
		TeamNames:   teamNames,
	}
}

// GenerateRandomScheduleJob 随机生成一个任务参数合法的赛程生成任务
func GenerateRandomScheduleJob(rng *rand.Rand, leagueID int64) *domain.ScheduleJob {
	job := &domain.ScheduleJob{
		LeagueID:       leagueID,
		MaxEvaluations: (rng.Intn(10) + 1) * 10000,
		Status:         domain.JobStatusPending,
	}

	if rng.Intn(2) == 0 {
		job.Algorithm = domain.AlgorithmSimulatedAnnealing
		job.InitialTemperature = float64((rng.Intn(10) + 1) * 100)
	} else {
		job.Algorithm = domain.AlgorithmPlantPropagation
		job.NMaxRunners = rng.Intn(10) + 1
		job.PopulationSize = rng.Intn(20) + 5
	}

	return job
}
