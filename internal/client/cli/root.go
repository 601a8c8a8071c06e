package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

func (a *App) getStatus(ctx context.Context) string {
	parts := []string{}
	if sess, err := a.session.Current(ctx); err == nil {
		parts = append(parts, sess.Username)
	}
	if a.watcher.Online() {
		parts = append(parts, "online")
	} else {
		parts = append(parts, "offline")
	}
	return "(" + strings.Join(parts, " ") + ")"
}

func (a *App) Root(ctx context.Context) {
	fmt.Println("FieldTrack client (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Printf("ft %s> ", a.getStatus(ctx))
		if !scanner.Scan() {
			break
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			printHelp()
		case "login":
			a.login(ctx)
		case "logout":
			a.logout(ctx)
		case "report":
			a.addReport(ctx)
		case "note":
			a.addNote(ctx)
		case "reports":
			a.listReports(ctx, args)
		case "notes":
			a.listNotes(ctx, args)
		case "pending":
			a.showPending(ctx)
		case "sync":
			a.sync(ctx)
		case "refresh":
			a.refresh(ctx)
		case "status":
			a.showStatus(ctx)
		case "cleanup":
			a.cleanup(ctx)
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Println("Unknown command:", cmd)
		}
	}
}

func printHelp() {
	fmt.Println(`Commands:
  login            authenticate against the server
  logout           drop the stored session
  report           capture a time report
  note             capture a note (optionally with a media file)
  reports <from> <to>   list reports in a date range (YYYY-MM-DD)
  notes [project <id> | personal | group <name>]
  pending          show records awaiting sync
  sync             run a sync pass now
  refresh          refresh projects / work types / categories
  status           show session, connectivity and counters
  cleanup          reclaim local media already uploaded
  exit             quit`)
}
