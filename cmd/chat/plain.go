package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"friday-chat/internal/chat"
	"friday-chat/internal/models"
	"friday-chat/internal/render"
)

// runPlain is the line-based chat loop used when no terminal UI is available.
// Each line is one message; /clear empties the history and /quit exits.
func runPlain(ctx context.Context, in io.Reader, out io.Writer, session *chat.Session, r *render.Renderer, name string) error {
	session.OnChange(func(st chat.State) {
		n := len(st.Messages)
		if n == 0 {
			return
		}
		last := st.Messages[n-1]
		switch {
		case st.Loading && last.Role == models.RoleUser:
			fmt.Fprintf(out, "%s is thinking...\n", name)
		case !st.Loading && last.Role == models.RoleAssistant:
			fmt.Fprintf(out, "%s: %s\n\n", name, r.Render(last.Content))
		}
	})
	defer session.OnChange(nil)

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	fmt.Fprintf(out, "Chatting with %s. Type /clear to reset, /quit to exit.\n", name)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/clear":
			session.Clear()
			fmt.Fprintln(out, "(history cleared)")
			continue
		}

		session.Submit(ctx, line)
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}
