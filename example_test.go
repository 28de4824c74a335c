package emberflow_test

import (
	"context"
	"fmt"
	"time"

	"github.com/emberflow/emberflow"
	"github.com/emberflow/emberflow/pkg/domain"
)

func ExampleEngine_Execute() {
	eng := emberflow.New(emberflow.WithClock(&instantClock{now: time.Unix(0, 0)}))

	flow := &domain.Flow{
		ID: "welcome",
		Nodes: []domain.Node{
			{ID: "start", Type: domain.NodeTypeTrigger},
			{ID: "mail", Type: domain.NodeTypeEmail, Dependencies: []string{"start"}},
		},
	}

	report := eng.Execute(context.Background(), flow, nil)

	fmt.Printf("status: %s\n", report.Status)
	fmt.Printf("steps: %d/%d\n", report.StepsCompleted, report.TotalSteps)
	fmt.Printf("last step type: %s\n", report.Results[1].Type)
	// Output:
	// status: completed
	// steps: 2/2
	// last step type: email
}

func ExampleEngine_Translate() {
	flow := &domain.Flow{
		ID: "sync",
		Nodes: []domain.Node{
			{ID: "fetch", Type: domain.NodeTypeAPICall},
			{ID: "review", Type: "human_review"},
		},
		Edges: []domain.Edge{{ID: "e1", Source: "fetch", Target: "review"}},
	}

	for _, node := range emberflow.New().Translate(flow) {
		fmt.Println(node.Type)
	}
	// Output:
	// tab
	// http request
	// comment
}
