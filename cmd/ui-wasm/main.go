//go:build js && wasm

package main

import "github.com/Its-donkey/tms-ui/internal/ui/wasm"

func main() {
	wasm.RunApp()
}
