package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"fridge-planner/internal/core/inventory"
)

// askFavorites 依序詢問三個分類的最愛食材，空白回答表示沒有
func askFavorites(in io.Reader, out io.Writer) ([]string, error) {
	scanner := bufio.NewScanner(in)
	var favorites []string
	for _, cat := range inventory.Categories {
		fmt.Fprintf(out, "Enter your favorite %s in the fridge: ", cat)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return nil, fmt.Errorf("failed to read answer: %w", err)
			}
			// 輸入結束時視為其餘問題都沒有回答
			fmt.Fprintln(out)
			break
		}
		if answer := strings.TrimSpace(scanner.Text()); answer != "" {
			favorites = append(favorites, answer)
		}
	}
	return favorites, nil
}
