package web

import (
	"bytes"
	"fmt"
	"html/template"

	"design-o-pedia-go/internal/model"

	"github.com/yuin/goldmark"
)

// ReviewRenderer 把评论渲染成 "**N.** text" 形式的 Markdown。
// goldmark 默认不输出原始 HTML，评论中的标签会被省略。
type ReviewRenderer struct {
	md goldmark.Markdown
}

// NewReviewRenderer 创建一个 ReviewRenderer。
func NewReviewRenderer() *ReviewRenderer {
	return &ReviewRenderer{md: goldmark.New()}
}

// Render 渲染一条带排名的评论。
func (r *ReviewRenderer) Render(review model.RankedReview) (template.HTML, error) {
	src := fmt.Sprintf("**%d.** %s", review.Rank, review.Text)
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("render review %d: %w", review.Rank, err)
	}
	return template.HTML(buf.String()), nil
}

// RenderAll 按顺序渲染评论列表。
func (r *ReviewRenderer) RenderAll(reviews []model.RankedReview) ([]ReviewView, error) {
	views := make([]ReviewView, 0, len(reviews))
	for _, review := range reviews {
		html, err := r.Render(review)
		if err != nil {
			return nil, err
		}
		views = append(views, ReviewView{Rank: review.Rank, HTML: html})
	}
	return views, nil
}
