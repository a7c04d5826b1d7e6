package service

import "design-o-pedia-go/internal/model"

// Section 是页面上可渲染的一个区块。
type Section string

const (
	SectionTextToImage Section = "text-to-image"
	SectionImageToText Section = "image-to-text"
	SectionReviews     Section = "reviews"
)

// Dispatch 根据模式选择器返回要渲染的区块：恰好一个转换流程，之后总是评论区。
func Dispatch(mode model.Mode) []Section {
	flow := SectionTextToImage
	if mode == model.ModeImageToText {
		flow = SectionImageToText
	}
	return []Section{flow, SectionReviews}
}
