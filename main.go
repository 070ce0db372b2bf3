package main

import "github.com/simako/simako-backend/cmd"

func main() {
	cmd.Execute()
}
