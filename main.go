package main

import "budgetboard/cmd"

func main() {
	cmd.Execute()
}
