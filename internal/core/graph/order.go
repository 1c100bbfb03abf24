package graph

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// NodeOrder 決定貪婪著色時走訪節點的順序
type NodeOrder interface {
	Name() string
	Order(g *ConflictGraph) []int
}

// SequentialOrder 標準順序：全部 Starch、再 Meat、再 Vegetable，分類內保持輸入順序
type SequentialOrder struct{}

// Name 策略名稱
func (SequentialOrder) Name() string { return "sequential" }

// Order 回傳節點索引
func (SequentialOrder) Order(g *ConflictGraph) []int {
	out := make([]int, g.NodeCount())
	for i := range out {
		out[i] = i
	}
	return out
}

// ShuffledOrder 在各分類內隨機打亂後再串接；相同 Seed 得到相同結果
type ShuffledOrder struct {
	Seed int64
}

// Name 策略名稱
func (o ShuffledOrder) Name() string { return "shuffled" }

// Order 回傳節點索引
func (o ShuffledOrder) Order(g *ConflictGraph) []int {
	rng := rand.New(rand.NewSource(o.Seed))
	out := make([]int, 0, g.NodeCount())

	// 分類順序固定，只打亂分類內部
	start := 0
	for start < g.NodeCount() {
		end := start
		for end < g.NodeCount() && g.Node(end).Category == g.Node(start).Category {
			end++
		}
		block := make([]int, 0, end-start)
		for i := start; i < end; i++ {
			block = append(block, i)
		}
		rng.Shuffle(len(block), func(a, b int) { block[a], block[b] = block[b], block[a] })
		out = append(out, block...)
		start = end
	}
	return out
}

// ParseOrder 由設定字串建立順序策略；shuffled 且 seed 為 0 時以當下時間為種子
func ParseOrder(name string, seed int64) (NodeOrder, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "sequential":
		return SequentialOrder{}, nil
	case "shuffled", "random":
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		return ShuffledOrder{Seed: seed}, nil
	}
	return nil, fmt.Errorf("unknown node order %q", name)
}
