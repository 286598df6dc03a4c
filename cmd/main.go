package main

import "github.com/m04kA/holidaze-booking/internal/cli"

func main() {
	cli.Execute()
}
