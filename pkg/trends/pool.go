package trends

import (
	"strings"
	"sync/atomic"
)

// URLPool round-robins over one or more trends API base URLs
type URLPool struct {
	urls    []string
	current int64
}

// NewURLPool creates a pool from comma-separated URLs
func NewURLPool(urlString string) *URLPool {
	rawURLs := strings.Split(urlString, ",")
	urls := make([]string, 0, len(rawURLs))
	for _, u := range rawURLs {
		if cleaned := strings.TrimSpace(u); cleaned != "" {
			urls = append(urls, cleaned)
		}
	}

	return &URLPool{
		urls:    urls,
		current: -1,
	}
}

// Next returns the next URL, or "" when the pool is empty
func (p *URLPool) Next() string {
	switch len(p.urls) {
	case 0:
		return ""
	case 1:
		return p.urls[0]
	}

	next := atomic.AddInt64(&p.current, 1)
	n := int64(len(p.urls))
	return p.urls[((next%n)+n)%n]
}

func (p *URLPool) Size() int {
	return len(p.urls)
}
