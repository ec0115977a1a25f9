package main

import (
	"context"
	"log"

	"github.com/Apurer/daycare-api/internal/app/worker"
)

func main() {
	if err := worker.Run(context.Background()); err != nil {
		log.Fatalf("daycare worker failed: %v", err)
	}
}
