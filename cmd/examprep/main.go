package main

import (
	"os"

	"github.com/futig/exam-practice/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
