// cmd/scorefnd/main.go
package main

import (
	"github.com/joeydtaylor/steeze-scorefn/pkg/serverfx"
	"go.uber.org/fx"
)

func main() {
	fx.New(
		serverfx.Module(serverfx.WithService("scorefnd")),
	).Run()
}
