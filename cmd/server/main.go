package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aulavia/aulavia-backend/internal/app"
)

func main() {
	ctx := context.Background()

	a, err := app.New(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		a.Close(shutdownCtx)
	}()

	if err := a.Run(); err != nil {
		a.Log.Error("server stopped", "error", err)
	}
}
