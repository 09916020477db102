package main

import (
	"sync"
	"time"
)

// SnipedMessage is the last deleted message seen in a channel.
type SnipedMessage struct {
	Author    string
	Content   string
	DeletedAt time.Time
}

// SnipeCache remembers one deleted message per channel.
type SnipeCache struct {
	mu        sync.Mutex
	byChannel map[string]SnipedMessage
}

func NewSnipeCache() *SnipeCache {
	return &SnipeCache{byChannel: make(map[string]SnipedMessage)}
}

func (c *SnipeCache) Put(channelID, author, content string) {
	c.mu.Lock()
	c.byChannel[channelID] = SnipedMessage{
		Author:    author,
		Content:   content,
		DeletedAt: time.Now(),
	}
	c.mu.Unlock()
}

func (c *SnipeCache) Get(channelID string) (SnipedMessage, bool) {
	c.mu.Lock()
	m, ok := c.byChannel[channelID]
	c.mu.Unlock()
	return m, ok
}
