package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/muesli/reflow/truncate"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"lemmyterm/internal/auth"
	"lemmyterm/internal/config"
	"lemmyterm/internal/inbox"
	"lemmyterm/internal/model"
	"lemmyterm/internal/util"
)

func newTUICommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive inbox (default)",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return a.runTUI()
		},
	}
}

func newLoginCommand(a *app) *cobra.Command {
	var (
		username      string
		passwordStdin bool
	)
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and save the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.connect(); err != nil {
				return err
			}
			if username == "" {
				username = a.cfg.Username
			}
			in := bufio.NewReader(cmd.InOrStdin())
			if username == "" {
				fmt.Fprint(cmd.OutOrStdout(), "Username or email: ")
				line, err := in.ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("failed to read username: %w", err)
				}
				username = strings.TrimSpace(line)
			}
			password, err := readPassword(cmd.OutOrStdout(), in, passwordStdin)
			if err != nil {
				return err
			}

			ctx, cancel := a.withTimeout()
			defer cancel()
			s, err := auth.Login(ctx, a.client, a.db, a.cfg.Instance, model.Login{
				UsernameOrEmail: username,
				Password:        password,
			})
			if err != nil {
				return err
			}
			a.log.Info("logged_in", zap.String("instance", s.Instance), zap.String("username", username))

			a.cfg.Username = username
			if err := config.Save(a.cfgPath, a.cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in to %s as %s\n", a.cfg.Instance, username)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "username or email")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin")
	return cmd
}

// readPassword reads without echo on a terminal and falls back to a plain
// line otherwise, e.g. when piped.
func readPassword(out io.Writer, in *bufio.Reader, fromStdin bool) (string, error) {
	fd := int(os.Stdin.Fd())
	if !fromStdin {
		fmt.Fprint(out, "Password: ")
	}
	if !fromStdin && term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(b), nil
	}
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func newLogoutCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session and cached messages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.Instance == "" {
				return errors.New("no instance configured")
			}
			ctx, cancel := a.withTimeout()
			defer cancel()
			if err := auth.Logout(ctx, a.db, a.cfg.Instance); err != nil {
				return err
			}
			if err := a.db.DeleteInstance(ctx, a.cfg.Instance); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged out of %s\n", a.cfg.Instance)
			return nil
		},
	}
}

func newListCommand(a *app) *cobra.Command {
	var (
		page      int
		unread    bool
		recipient int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List private messages, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.withTimeout()
			defer cancel()
			out := cmd.OutOrStdout()

			var b *inbox.Inbox
			if unread {
				// Same request the inbox opens with: first page, unread only.
				if err := a.connect(); err != nil {
					return err
				}
				s, err := a.session(ctx)
				if err != nil {
					return err
				}
				data, err := inbox.FetchInitialData(ctx, a.client, s.Token, a.cfg.FetchLimit)
				if err != nil {
					return err
				}
				s.SetSite(data.Site)
				b = inbox.New(inbox.Options{
					Auth: s, Site: data.Site, Preloaded: &data.Messages,
					Limit: a.cfg.FetchLimit, Toaster: printer{out}, Logger: a.log,
				})
			} else {
				var err error
				b, err = a.openInbox(ctx, out, nil)
				if err != nil {
					return err
				}
				req, err := b.SetPage(page)
				if err != nil {
					return err
				}
				b.ApplyFetch(inbox.Fetch(ctx, a.client, req))
			}
			defer b.Dispose()

			st := b.State()
			if st.MessagesRes.Status == model.StatusFailed {
				return fmt.Errorf("list messages: %w", st.MessagesRes.Err)
			}
			if !unread {
				if err := a.db.SavePage(ctx, a.cfg.Instance, st.Page, st.MessagesRes.Data.PrivateMessages); err != nil {
					a.log.Warn("cache_page_failed", zap.Error(err))
				}
			}

			var views []model.PrivateMessageView
			if cmd.Flags().Changed("recipient") {
				b.SelectRecipient(recipient)
				views = b.Messages()
			} else {
				for _, r := range b.BuildCombined() {
					if pm, ok := r.Message(); ok {
						views = append(views, pm)
					}
				}
			}
			if title := b.DocumentTitle(); title != "" {
				fmt.Fprintf(out, "%s (page %d)\n\n", title, b.Page())
			}
			return printMessages(out, views)
		},
	}
	cmd.Flags().IntVarP(&page, "page", "p", 1, "page number")
	cmd.Flags().BoolVar(&unread, "unread", false, "only unread messages (first page)")
	cmd.Flags().IntVarP(&recipient, "recipient", "r", 0, "only messages sent to this person id")
	return cmd
}

func printMessages(out io.Writer, views []model.PrivateMessageView) error {
	if len(views) == 0 {
		fmt.Fprintln(out, "No messages.")
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tFROM\tTO\tPUBLISHED\tFLAGS\tCONTENT")
	for _, pm := range views {
		var flags []string
		if !pm.PrivateMessage.Read {
			flags = append(flags, "unread")
		}
		if pm.PrivateMessage.Deleted {
			flags = append(flags, "deleted")
		}
		content := strings.ReplaceAll(strings.TrimSpace(pm.PrivateMessage.Content), "\n", " ")
		if utf8.RuneCountInString(content) > 60 {
			content = truncate.StringWithTail(content, 60, "...")
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			pm.PrivateMessage.ID,
			util.DisplayName(pm.Creator.Name, "", pm.Creator.ActorID),
			util.DisplayName(pm.Recipient.Name, "", pm.Recipient.ActorID),
			pm.PrivateMessage.Published,
			strings.Join(flags, ","),
			content,
		)
	}
	return w.Flush()
}

// runAction dispatches a single action through a fresh inbox.
func runAction(a *app, cmd *cobra.Command, act inbox.Action) (inbox.ActionResult, error) {
	ctx, cancel := a.withTimeout()
	defer cancel()
	b, err := a.openInbox(ctx, cmd.OutOrStdout(), nil)
	if err != nil {
		return inbox.ActionResult{}, err
	}
	defer b.Dispose()

	res, err := b.Do(ctx, a.client, act)
	if err != nil {
		return res, err
	}
	if res.Failed() {
		return res, fmt.Errorf("%s: %w", strings.ToLower(res.Kind.String()), res.Err())
	}
	return res, nil
}

func parseID(s, what string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", what, s)
	}
	return id, nil
}

func newSendCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "send <recipient-id> <message...>",
		Short: "Send a private message",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "recipient id")
			if err != nil {
				return err
			}
			content := strings.Join(args[1:], " ")
			res, err := runAction(a, cmd, inbox.CreateMessage{RecipientID: id, Content: content})
			if err != nil {
				return err
			}
			pmv := res.Message.Data.PrivateMessageView
			fmt.Fprintf(cmd.OutOrStdout(), "Sent message %d to %s\n",
				pmv.PrivateMessage.ID, util.DisplayName(pmv.Recipient.Name, pmv.Recipient.DisplayName, pmv.Recipient.ActorID))
			return nil
		},
	}
}

func newReadCommand(a *app) *cobra.Command {
	var unread bool
	cmd := &cobra.Command{
		Use:   "read <message-id>",
		Short: "Mark a message as read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "message id")
			if err != nil {
				return err
			}
			if _, err := runAction(a, cmd, inbox.MarkMessageRead{ID: id, Read: !unread}); err != nil {
				return err
			}
			state := "read"
			if unread {
				state = "unread"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Marked message %d as %s\n", id, state)
			return nil
		},
	}
	cmd.Flags().BoolVar(&unread, "unread", false, "mark as unread instead")
	return cmd
}

func newDeleteCommand(a *app) *cobra.Command {
	var restore bool
	cmd := &cobra.Command{
		Use:   "delete <message-id>",
		Short: "Delete a message you sent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "message id")
			if err != nil {
				return err
			}
			if _, err := runAction(a, cmd, inbox.DeleteMessage{ID: id, Deleted: !restore}); err != nil {
				return err
			}
			verb := "Deleted"
			if restore {
				verb = "Restored"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s message %d\n", verb, id)
			return nil
		},
	}
	cmd.Flags().BoolVar(&restore, "restore", false, "undo a previous delete")
	return cmd
}

func newReportCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "report <message-id> <reason...>",
		Short: "Report a message to the instance admins",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "message id")
			if err != nil {
				return err
			}
			_, err = runAction(a, cmd, inbox.ReportMessage{ID: id, Reason: strings.Join(args[1:], " ")})
			return err
		},
	}
}

func newPurgeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "purge <person-id> [reason...]",
		Short: "Purge a person and their content (admins only)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "person id")
			if err != nil {
				return err
			}
			_, err = runAction(a, cmd, inbox.PurgePerson{PersonID: id, Reason: strings.Join(args[1:], " ")})
			return err
		},
	}
}
