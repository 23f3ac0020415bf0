package main

import "github.com/0xLeif/AppState-sub000/cmd/statectl/cmd"

func main() {
	cmd.Execute()
}
