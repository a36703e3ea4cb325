package es

import (
	"Folio/internal/model"
	"time"
)

// PostDoc 写入 ES 的帖子文档
type PostDoc struct {
	ID        uint64    `json:"id"`
	Title     string    `json:"title"`
	Excerpt   string    `json:"excerpt"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	Category  string    `json:"category"`
	Tags      []string  `json:"tags"`
	Status    string    `json:"status"`
	Date      time.Time `json:"date"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewPostDoc(p *model.Post) *PostDoc {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return &PostDoc{
		ID:        p.ID,
		Title:     p.Title,
		Excerpt:   p.Excerpt,
		Content:   p.Content,
		Author:    p.Author,
		Category:  string(p.Category),
		Tags:      tags,
		Status:    string(p.Status),
		Date:      p.Date,
		UpdatedAt: p.UpdatedAt,
	}
}
