package main

import "github.com/cobaltwing/phishguard/internal/cmd"

func main() {
	cmd.Main()
}
