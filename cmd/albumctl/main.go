package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/SamTheHermit/AlbumPhoto/internal/pkg/apperr"
)

func main() {
	cmd := newRootCommand(newCommandContext())
	if err := cmd.Execute(); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(1)
		}
		if appErr, ok := apperr.As(err); ok {
			fmt.Fprintln(os.Stderr, appErr.Message)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
