package model

// TargetKindBook is the default target kind, a paper book product page.
const (
	TargetKindBook    = "book"
	TargetKindKindle  = "kindle"
	TargetKindAudible = "audible"
)

// Target is a watched Amazon product page. Columns is the number of ranking
// columns the target contributes to an appended row, so sheet rows keep a
// stable shape across runs.
type Target struct {
	ID       int64  `gorm:"primaryKey" json:"id"`
	Slug     string `gorm:"uniqueIndex" json:"slug"`
	Name     string `json:"name"`
	URL      string `gorm:"column:url" json:"url"`
	Kind     string `json:"kind"`
	Columns  int    `json:"columns"`
	Position int    `json:"position"`
	Enabled  bool   `json:"enabled"`
}

func (t Target) TableName() string {
	return "targets"
}
