package main

import "github.com/karchag/karchag-backend/cmd"

func main() {
	cmd.Execute()
}
