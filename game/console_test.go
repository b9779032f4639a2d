package game

import (
	"context"
	"time"
)

// scriptConsole replays keys one per poll. A KeyNone entry means "nothing
// pending" for that poll. Once the script is exhausted, sleeping more than
// maxIdle times fails so a broken loop cannot hang the test.
type scriptConsole struct {
	script  []Key
	frames  []string
	sleeps  []time.Duration
	idle    int
	maxIdle int
}

func newScript(keys ...Key) *scriptConsole {
	return &scriptConsole{script: keys, maxIdle: 50}
}

var none = Key{Code: KeyNone}

func (c *scriptConsole) PollKey() (Key, bool) {
	if len(c.script) == 0 {
		return Key{}, false
	}
	k := c.script[0]
	c.script = c.script[1:]
	if k.Code == KeyNone {
		return Key{}, false
	}
	return k, true
}

func (c *scriptConsole) RenderFrame(frame string) error {
	c.frames = append(c.frames, frame)
	return nil
}

func (c *scriptConsole) Sleep(ctx context.Context, d time.Duration) error {
	c.sleeps = append(c.sleeps, d)
	if len(c.script) == 0 {
		c.idle++
		if c.idle > c.maxIdle {
			return context.DeadlineExceeded
		}
	}
	return ctx.Err()
}

func (c *scriptConsole) lastFrame() string {
	if len(c.frames) == 0 {
		return ""
	}
	return c.frames[len(c.frames)-1]
}
