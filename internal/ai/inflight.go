package ai

import "sync"

// Guard 保证同一触发元素同一时刻至多一个在途请求：
// 前一个请求未落定前，重复触发直接拒绝（对应 UI 上的 loading 态）。
type Guard struct {
	mu   sync.Mutex
	busy map[string]struct{}
}

// NewGuard 构造空的在途请求表。
func NewGuard() *Guard {
	return &Guard{busy: map[string]struct{}{}}
}

// Acquire 尝试占用 key。成功时返回释放函数，调用方必须在请求落定后调用它；
// key 已被占用时返回 ok=false。
func (g *Guard) Acquire(key string) (release func(), ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, exists := g.busy[key]; exists {
		return nil, false
	}
	g.busy[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.busy, key)
			g.mu.Unlock()
		})
	}, true
}
