// SPDX-License-Identifier: Apache-2.0

// Package cli implements the interactive command loop of the vault binary.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"golang.org/x/term"

	"github.com/gridhub/vault/internal/logger"
	"github.com/gridhub/vault/internal/service"
	"github.com/gridhub/vault/internal/utils"
	"github.com/gridhub/vault/models"
)

// CLI is the interactive shell over the vault service. It reads commands
// from in and writes human output to out; diagnostics go to the logger.
type CLI struct {
	vault  service.VaultService
	ids    *utils.UUIDGenerator
	in     *bufio.Reader
	out    io.Writer
	logger *logger.Logger

	// readPassword is swappable for tests; the default reads without echo
	// when stdin is a terminal.
	readPassword func() (string, error)
}

// New constructs a CLI bound to stdin/stdout.
func New(vault service.VaultService, log *logger.Logger) *CLI {
	c := &CLI{
		vault:  vault,
		ids:    utils.NewUUIDGenerator(),
		in:     bufio.NewReader(os.Stdin),
		out:    os.Stdout,
		logger: log,
	}
	c.readPassword = c.promptPassword
	return c
}

// Run executes the command loop until the user quits, input ends, or ctx is
// cancelled.
func (c *CLI) Run(ctx context.Context) error {
	fmt.Fprintln(c.out, `Type "help" for the command list.`)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		fmt.Fprint(c.out, "vault> ")
		line, err := c.in.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read command: %w", err)
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		cmd, args := fields[0], fields[1:]
		if cmd == "quit" || cmd == "exit" {
			return nil
		}

		if err := c.dispatch(ctx, cmd, args); err != nil {
			fmt.Fprintf(c.out, "error: %v\n", err)
		}
	}
}

func (c *CLI) dispatch(ctx context.Context, cmd string, args []string) error {
	ctx = c.logger.WithContext(ctx)

	switch cmd {
	case "help":
		c.printHelp()
		return nil
	case "ls":
		return c.listFolders(ctx)
	case "mkpub":
		return c.createPublic(ctx, args)
	case "mkpriv":
		return c.createPrivate(ctx, args)
	case "unlock":
		return c.unlock(ctx, args)
	case "lock":
		return c.lock(ctx, args)
	case "items":
		return c.listItems(ctx, args)
	case "add-text":
		return c.addText(ctx, args)
	case "add-link":
		return c.addLink(ctx, args)
	case "rm-item":
		return c.removeItem(ctx, args)
	case "copy":
		return c.copyItem(ctx, args)
	case "rename":
		return c.rename(ctx, args)
	case "desc":
		return c.setDescription(ctx, args)
	case "rm":
		return c.deleteFolder(ctx, args)
	case "passwd":
		return c.reseal(ctx, args)
	case "migrate":
		return c.migrate(ctx, args)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (c *CLI) printHelp() {
	fmt.Fprint(c.out, `Commands:
  ls                         list folders
  mkpub <name>               create a public folder
  mkpriv <name>              create a private folder (prompts for passphrase)
  unlock <folder-id>         unlock a private folder
  lock <folder-id>           lock a private folder
  items <folder-id>          list folder items
  add-text <folder-id> <title> <text...>   add a text block
  add-link <folder-id> <title> <url>       add a link block
  rm-item <folder-id> <item-id>            remove a block
  copy <folder-id> <item-id> copy an item's text or url to the clipboard
  rename <folder-id> <name>  rename a folder
  desc <folder-id> <text...> set a folder description
  rm <folder-id>             delete a folder
  passwd <folder-id>         change a private folder's passphrase
  migrate <folder-id>        upgrade a legacy folder to the encrypted scheme
  quit                       exit
`)
}

func (c *CLI) listFolders(ctx context.Context) error {
	folders, err := c.vault.Folders(ctx)
	if err != nil {
		return err
	}
	if len(folders) == 0 {
		fmt.Fprintln(c.out, "no folders yet")
		return nil
	}
	for _, f := range folders {
		marker := "public "
		if f.IsPrivate() {
			marker = string(c.vault.Status(f.ID))
			if f.IsLegacy() {
				marker += " (legacy)"
			}
		}
		fmt.Fprintf(c.out, "  %s  %-9s %s\n", f.ID, marker, f.Name)
	}
	return nil
}

func (c *CLI) createPublic(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: mkpub <name>")
	}
	folder, err := c.vault.CreatePublicFolder(ctx, strings.Join(args, " "), "")
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "created %s\n", folder.ID)
	return nil
}

func (c *CLI) createPrivate(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: mkpriv <name>")
	}

	password, err := c.readPassword()
	if err != nil {
		return err
	}

	folder, err := c.vault.CreatePrivateFolder(ctx, strings.Join(args, " "), "", password)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "created %s (unlocked for this session)\n", folder.ID)
	return nil
}

func (c *CLI) unlock(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: unlock <folder-id>")
	}

	password, err := c.readPassword()
	if err != nil {
		return err
	}

	items, err := c.vault.Unlock(ctx, args[0], password)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "unlocked, %d item(s)\n", len(items))
	return nil
}

func (c *CLI) lock(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: lock <folder-id>")
	}
	if err := c.vault.Lock(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "locked")
	return nil
}

func (c *CLI) listItems(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: items <folder-id>")
	}
	items, err := c.vault.Items(ctx, args[0])
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Fprintln(c.out, "empty folder")
		return nil
	}
	for _, item := range items {
		detail := item.Text
		if item.Kind == models.KindLink {
			detail = item.URL
		}
		fmt.Fprintf(c.out, "  %s  %-5s %-20s %s\n", item.ID, item.Kind, item.Title, detail)
	}
	return nil
}

func (c *CLI) addText(ctx context.Context, args []string) error {
	if len(args) < 3 {
		return errors.New("usage: add-text <folder-id> <title> <text...>")
	}
	record := models.ContentRecord{
		ID:        c.ids.Generate(),
		Kind:      models.KindText,
		Size:      models.RecordSize{Cols: 1, Rows: 1},
		Title:     args[1],
		Text:      strings.Join(args[2:], " "),
		UpdatedAt: time.Now().UTC(),
	}
	return c.appendItem(ctx, args[0], record)
}

func (c *CLI) addLink(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return errors.New("usage: add-link <folder-id> <title> <url>")
	}
	record := models.ContentRecord{
		ID:        c.ids.Generate(),
		Kind:      models.KindLink,
		Size:      models.RecordSize{Cols: 1, Rows: 1},
		Title:     args[1],
		URL:       args[2],
		UpdatedAt: time.Now().UTC(),
	}
	return c.appendItem(ctx, args[0], record)
}

// appendItem runs one full mutation: read the live list, append, commit the
// replacement list.
func (c *CLI) appendItem(ctx context.Context, folderID string, record models.ContentRecord) error {
	items, err := c.vault.Items(ctx, folderID)
	if err != nil {
		return err
	}
	if err := c.vault.Commit(ctx, folderID, append(items, record)); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "added %s\n", record.ID)
	return nil
}

func (c *CLI) removeItem(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: rm-item <folder-id> <item-id>")
	}
	items, err := c.vault.Items(ctx, args[0])
	if err != nil {
		return err
	}

	kept := items[:0]
	found := false
	for _, item := range items {
		if item.ID == args[1] {
			found = true
			continue
		}
		kept = append(kept, item)
	}
	if !found {
		return fmt.Errorf("no item %q in folder", args[1])
	}

	if err := c.vault.Commit(ctx, args[0], kept); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "removed")
	return nil
}

func (c *CLI) copyItem(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: copy <folder-id> <item-id>")
	}
	items, err := c.vault.Items(ctx, args[0])
	if err != nil {
		return err
	}

	for _, item := range items {
		if item.ID != args[1] {
			continue
		}
		payload := item.Text
		if item.Kind == models.KindLink {
			payload = item.URL
		}
		if err := clipboard.WriteAll(payload); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		fmt.Fprintln(c.out, "copied to clipboard")
		return nil
	}
	return fmt.Errorf("no item %q in folder", args[1])
}

func (c *CLI) rename(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: rename <folder-id> <name>")
	}
	return c.vault.RenameFolder(ctx, args[0], strings.Join(args[1:], " "))
}

func (c *CLI) setDescription(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: desc <folder-id> <text...>")
	}
	return c.vault.SetFolderDescription(ctx, args[0], strings.Join(args[1:], " "))
}

func (c *CLI) deleteFolder(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: rm <folder-id>")
	}
	if err := c.vault.DeleteFolder(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "deleted")
	return nil
}

func (c *CLI) reseal(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: passwd <folder-id>")
	}

	fmt.Fprintln(c.out, "current passphrase:")
	oldPassword, err := c.readPassword()
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, "new passphrase:")
	newPassword, err := c.readPassword()
	if err != nil {
		return err
	}

	if err := c.vault.Reseal(ctx, args[0], oldPassword, newPassword); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "passphrase changed")
	return nil
}

func (c *CLI) migrate(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: migrate <folder-id>")
	}

	password, err := c.readPassword()
	if err != nil {
		return err
	}

	if err := c.vault.MigrateLegacyFolder(ctx, args[0], password); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "folder migrated to the encrypted scheme")
	return nil
}

// promptPassword reads a passphrase without echo when stdin is a terminal,
// falling back to a plain line read (piped input, tests).
func (c *CLI) promptPassword() (string, error) {
	fmt.Fprint(c.out, "passphrase: ")

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		fmt.Fprintln(c.out)
		if err != nil {
			return "", fmt.Errorf("read passphrase: %w", err)
		}
		return string(raw), nil
	}

	line, err := c.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read passphrase: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
