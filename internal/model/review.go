package model

// ReviewEntry 是用户提交的一条反馈，按插入顺序保存，提交后不再修改。
type ReviewEntry struct {
	Text string `json:"text"`
}

// RankedReview 是展示用的评论视图，Rank 从 1 开始，1 表示最近提交的一条。
// Rank 只在展示时计算，从不存储。
type RankedReview struct {
	Rank int    `json:"rank"`
	Text string `json:"text"`
}

// RankReviews 将按插入顺序存储的评论转换为倒序、带排名的展示列表，不修改入参。
func RankReviews(entries []ReviewEntry) []RankedReview {
	ranked := make([]RankedReview, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		ranked = append(ranked, RankedReview{Rank: len(ranked) + 1, Text: entries[i].Text})
	}
	return ranked
}
