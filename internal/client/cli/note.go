package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/dmitrijs2005/fieldtrack/internal/client/models"
)

func (a *App) addNote(ctx context.Context) {
	sess, ok := a.currentSession(ctx)
	if !ok {
		return
	}

	kind, err := GetSimpleText(a.reader, "Kind (text/audio/image/video)", os.Stdout)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	n := &models.Note{
		UserID:     sess.UserID,
		Kind:       models.NoteKind(kind),
		AuthorName: sess.FullName,
	}

	projectInput, err := GetSimpleText(a.reader, "Project id (empty for personal)", os.Stdout)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	if projectInput == "" {
		n.Group = models.NoteGroupPersonal
	} else {
		projectID, err := strconv.ParseInt(projectInput, 10, 64)
		if err != nil {
			fmt.Println("error: not a number:", projectInput)
			return
		}
		n.ProjectID = &projectID
		n.Group = models.NoteGroupProject
	}

	n.Title, err = GetSimpleText(a.reader, "Title", os.Stdout)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	n.Content, err = GetMultiline(a.reader, "Content", os.Stdout)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	var id int64
	if n.Kind == models.NoteKindText {
		id, err = a.notes.Create(ctx, n)
	} else {
		var mediaPath string
		mediaPath, err = GetSimpleText(a.reader, "Media file path", os.Stdout)
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		id, err = a.notes.CreateWithMedia(ctx, n, mediaPath)
	}
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("Note #%d saved locally; it will sync on the next pass.\n", id)
}

func (a *App) listNotes(ctx context.Context, args []string) {
	sess, ok := a.currentSession(ctx)
	if !ok {
		return
	}

	var (
		list []*models.Note
		err  error
	)
	switch {
	case len(args) == 0:
		list, err = a.notes.ListPersonal(ctx, sess.UserID)
	case args[0] == "personal":
		list, err = a.notes.ListPersonal(ctx, sess.UserID)
	case args[0] == "project" && len(args) == 2:
		var projectID int64
		projectID, err = strconv.ParseInt(args[1], 10, 64)
		if err == nil {
			list, err = a.notes.ListByProject(ctx, sess.UserID, projectID)
		}
	case args[0] == "group" && len(args) == 2:
		list, err = a.notes.ListByGroup(ctx, sess.UserID, args[1])
	default:
		fmt.Println("Usage: notes [project <id> | personal | group <name>]")
		return
	}
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	if len(list) == 0 {
		fmt.Println("No notes.")
		return
	}
	for _, n := range list {
		media := ""
		if n.Media.Present() {
			if n.Media.Uploaded() {
				media = " [media: uploaded]"
			} else {
				media = fmt.Sprintf(" [media: %d%%]", n.Media.UploadProgress)
			}
		}
		fmt.Printf("  #%d (%s) %s [%s]%s\n", n.LocalID, n.Kind, n.Title, n.SyncStatus, media)
	}
}
