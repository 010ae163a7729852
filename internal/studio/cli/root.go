package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
)

func (a *App) getStatus() string {
	s := ""
	if u := a.session.User(); u != nil {
		s = u.Name
		if u.Provider != "" {
			s = fmt.Sprintf("%s (%s)", s, u.Provider)
		}
	}
	return s
}

func (a *App) Root(ctx context.Context) {
	log.Println("Welcome to Nebula studio CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	runREPL(ctx, a, a.getStatus, scanner)
}
