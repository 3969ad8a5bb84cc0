package cmd

import "github.com/cwbudde/scmgo/internal/runtime"

func printValue(v runtime.Value) string {
	return runtime.Print(v)
}
