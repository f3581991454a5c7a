package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <content.csv|requirements.yaml|levels.yaml>...\n", os.Args[0])
		os.Exit(1)
	}

	v := NewContentValidator(os.Getenv("LOCALE"))
	if err := v.ValidateFiles(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}

	for _, w := range v.warnings {
		fmt.Printf("warning: %s\n", w)
	}
	fmt.Println("Content is valid!")
}
