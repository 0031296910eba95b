package main

import "github.com/pulseboard/listening-backend/cmd"

func main() {
	cmd.Execute()
}
