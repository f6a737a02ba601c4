package stage_test

import (
	"fmt"

	"github.com/matzehuels/gliffydb/pkg/entity"
	"github.com/matzehuels/gliffydb/pkg/stage"
)

func ExampleStage_Add() {
	header, _ := entity.NewShape("rectangle", map[string]any{"strokeWidth": 1})
	label, _ := entity.NewText(map[string]any{"text": "users"})
	_ = header.AddChild(label)

	table := entity.NewGroup()
	_ = table.AddChild(header)

	s := stage.New(stage.WithTitle("schema"))
	_ = s.Add(table)

	for _, n := range []*entity.Node{header, label, table} {
		fmt.Println(n.ID(), n.Order())
	}
	fmt.Println("nodeIndex", s.NodeIndex())
	// Output:
	// 0 0
	// 2 auto
	// 4 4
	// nodeIndex 5
}
