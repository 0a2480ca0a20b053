package coopwatch_test

import (
	"context"
	"fmt"

	"github.com/bft-labs/coopwatch/pkg/coopwatch"
	"github.com/bft-labs/coopwatch/pkg/view"
)

// ExampleNew shows a watcher rendering into an in-memory board.
func ExampleNew() {
	board := view.NewBoard()

	w, err := coopwatch.New(coopwatch.Config{Origin: "http://localhost:5000"},
		coopwatch.WithSurface(board))
	if err != nil {
		fmt.Printf("failed to create watcher: %v\n", err)
		return
	}

	// Nothing has been received yet.
	fmt.Println(w.Current().State)
	fmt.Println(w.Display().Indicators)

	// Output:
	// unknown
	// [unknown]
}

// ExampleStatusURL shows how the status endpoint is derived from the origin.
func ExampleStatusURL() {
	u, _ := coopwatch.StatusURL("https://coop.example", "")
	fmt.Println(u)
	// Output: wss://coop.example/status
}

// Example_withEventHandler shows how to follow status changes.
func Example_withEventHandler() {
	w, err := coopwatch.New(coopwatch.Config{Origin: "http://localhost:5000"},
		coopwatch.WithEventHandler(&doorPrinter{}))
	if err != nil {
		fmt.Printf("failed to create watcher: %v\n", err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		return
	}
	defer w.Stop()

	// Open the door without waiting for the controller.
	_ = w.Dispatch("open")
}

// doorPrinter prints every accepted status.
type doorPrinter struct {
	coopwatch.BaseEventHandler
}

func (doorPrinter) OnStatus(e coopwatch.StatusEvent) {
	if e.Changed {
		fmt.Printf("door is %s\n", e.Record.State)
	}
}
