package graph

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// DOTKind 輸出哪一種圖
type DOTKind string

const (
	// DOTConflict 衝突圖：同分類相連
	DOTConflict DOTKind = "conflict"
	// DOTMeals 菜單圖：同顏色相連
	DOTMeals DOTKind = "meals"
)

// ParseDOTKind 解析圖種類
func ParseDOTKind(raw string) (DOTKind, error) {
	switch DOTKind(strings.ToLower(strings.TrimSpace(raw))) {
	case "", DOTConflict:
		return DOTConflict, nil
	case DOTMeals:
		return DOTMeals, nil
	}
	return "", fmt.Errorf("unknown graph kind %q", raw)
}

// palette 顯示用顏色，只屬於呈現層，超過時循環使用
var palette = []string{
	"red", "orange", "yellow", "green", "blue", "purple", "pink", "brown",
	"gray", "black", "white", "magenta", "cyan", "turquoise", "maroon",
}

// DisplayColor 顏色編號對應的顯示顏色
func DisplayColor(color int) string {
	if color < 0 {
		return "lightgray"
	}
	return palette[color%len(palette)]
}

// WriteDOT 以 Graphviz DOT 格式輸出圖；colors 可為 nil（不著色）
func WriteDOT(w io.Writer, g *ConflictGraph, colors ColorAssignment, kind DOTKind) error {
	if kind == DOTMeals && colors == nil {
		return fmt.Errorf("meal graph requires a colour assignment")
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "graph %s {\n", kind)
	fmt.Fprintln(bw, "  node [style=filled];")

	for i, n := range g.nodes {
		attrs := fmt.Sprintf("label=%q", n.Name)
		if colors != nil {
			attrs += fmt.Sprintf(", fillcolor=%q", DisplayColor(colors[i]))
		}
		fmt.Fprintf(bw, "  %q [%s];\n", n.Key(), attrs)
	}

	switch kind {
	case DOTMeals:
		for i := range g.nodes {
			for j := i + 1; j < len(g.nodes); j++ {
				if colors[i] != Uncolored && colors[i] == colors[j] {
					fmt.Fprintf(bw, "  %q -- %q;\n", g.nodes[i].Key(), g.nodes[j].Key())
				}
			}
		}
	default:
		for _, e := range g.Edges() {
			fmt.Fprintf(bw, "  %q -- %q;\n", g.nodes[e.From].Key(), g.nodes[e.To].Key())
		}
	}

	fmt.Fprintln(bw, "}")
	return bw.Flush()
}
