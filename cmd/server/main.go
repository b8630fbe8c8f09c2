// Command server runs the SERP gateway.
package main

import (
	"fmt"
	"os"

	"github.com/alex-user-go/serpgateway/internal/app"
)

func main() {
	if err := app.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "serp gateway: %v\n", err)
		os.Exit(1)
	}
}
