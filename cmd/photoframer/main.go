package main

import "github.com/MeKo-Tech/photoframer/internal/cmd"

func main() {
	cmd.Execute()
}
