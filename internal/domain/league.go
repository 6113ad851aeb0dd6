package domain

import "time"

type League struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Code         string    `json:"code"` // 由联赛名称的拼音生成，用于导出文件名等场景
	Description  string    `json:"description"`
	TeamNames    []string  `json:"teamNames"` // 球队编号 1..n 按此列表顺序对应
	ContactEmail string    `json:"contactEmail"`
	CreatedAt    time.Time `json:"createdAt"`
	Version      int32     `json:"-"`
}

// NTeams 返回联赛的球队数量
func (l *League) NTeams() int {
	return len(l.TeamNames)
}
