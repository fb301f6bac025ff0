package main

import "github.com/webcraft-studio/webcraft-backend/cmd"

func main() {
	cmd.Init()
}
