package domain

import "time"

type Note struct {
	ID        int64
	Title     string
	Content   string
	CreatedAt time.Time
}

type NotePatch struct {
	Title   *string
	Content *string
}

func (p NotePatch) Empty() bool { return p.Title == nil && p.Content == nil }
