package repomanager

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/dmitrijs2005/sessionkeeper/internal/logging"
)

// gooseLogger routes goose output into the structured logger.
type gooseLogger struct {
	ctx context.Context
	l   logging.Logger
}

// osExit is a seam for Fatalf.
var osExit = os.Exit

func (g *gooseLogger) Printf(format string, v ...interface{}) {
	g.l.Info(g.ctx, strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (g *gooseLogger) Fatalf(format string, v ...interface{}) {
	g.l.Error(g.ctx, strings.TrimSpace(fmt.Sprintf(format, v...)))
	osExit(1)
}
