package main

import "github.com/RyanBlaney/fft-golden/cmd"

func main() {
	cmd.Execute()
}
