package main

import "github.com/clipstream/clipstream/internal/clipctl"

func main() {
	clipctl.Execute()
}
