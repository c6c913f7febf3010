package collect

import "time"

type Item struct {
	Path    string
	Size    int64
	ModTime time.Time
}

type Options struct {
	Exclude []string
}

type Result struct {
	Items      []Item
	TotalBytes int64
}
