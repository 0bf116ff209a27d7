package main

import "github.com/aaallexandr/kbju-dashboard/cmd/kbju"

func main() {
	kbju.Execute()
}
