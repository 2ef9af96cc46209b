package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/cockroachdb/errors"
	"github.com/samber/lo"

	"wipecore/internal/system"
)

// ErrInvalidSelection: введён некорректный индекс диска
var ErrInvalidSelection = errors.New("invalid disk selection")

// ConfirmFunc подтверждает затирание цели с описанием description
type ConfirmFunc func(description string) bool

// AlwaysConfirm используется с --yes
func AlwaysConfirm(string) bool { return true }

// Prompter ведёт интерактивный диалог с оператором
type Prompter struct {
	in  *bufio.Reader
	out io.Writer

	warn   lipgloss.Style
	strong lipgloss.Style
	muted  lipgloss.Style
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	r := lipgloss.NewRenderer(out)
	return &Prompter{
		in:     bufio.NewReader(in),
		out:    out,
		warn:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff0000")),
		strong: r.NewStyle().Bold(true),
		muted:  r.NewStyle().Foreground(lipgloss.Color("#ffaa00")),
	}
}

// readLine читает строку ответа. Конец ввода без данных: пустой ответ.
func (p *Prompter) readLine() (string, error) {
	fmt.Fprint(p.out, "> ")
	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", errors.Wrap(err, "error reading confirmation")
	}
	return strings.TrimSpace(line), nil
}

// ConfirmFile требует ввести yes (регистр не важен)
func (p *Prompter) ConfirmFile(path string) (bool, error) {
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, "This will overwrite the file:")
	fmt.Fprintf(p.out, "  %s\n", path)
	fmt.Fprintln(p.out, p.warn.Render("This CANNOT be undone."))
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, "Type 'YES' to continue:")

	answer, err := p.readLine()
	if err != nil {
		return false, err
	}
	if !strings.EqualFold(answer, "yes") {
		fmt.Fprintln(p.out, "Aborted by user.")
		return false, nil
	}
	return true, nil
}

// PrintDisks выводит список дисков с пометкой системного
func (p *Prompter) PrintDisks(disks []system.DiskInfo, protectedMark string) {
	for _, d := range disks {
		mark := ""
		if d.IsSystem {
			mark = " " + p.muted.Render(protectedMark)
		}
		fmt.Fprintf(p.out, "  [%d] %s - %s%s\n", d.Index, d.Path, system.SizeFormat(d.SizeBytes), mark)
	}
}

// SelectDisk спрашивает индекс диска среди candidates.
// Пустой ввод: отмена (ok == false).
func (p *Prompter) SelectDisk(candidates []system.DiskInfo) (system.DiskInfo, bool, error) {
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, "Enter the disk index you want to WIPE (non-system only), or just press Enter to cancel:")

	answer, err := p.readLine()
	if err != nil {
		return system.DiskInfo{}, false, err
	}
	if answer == "" {
		fmt.Fprintln(p.out, "Aborted by user.")
		return system.DiskInfo{}, false, nil
	}

	idx, err := strconv.Atoi(answer)
	if err != nil {
		return system.DiskInfo{}, false, errors.Wrapf(ErrInvalidSelection, "%q is not a disk index", answer)
	}

	disk, found := lo.Find(candidates, func(d system.DiskInfo) bool {
		return d.Index == idx
	})
	if !found {
		return system.DiskInfo{}, false, errors.Wrapf(ErrInvalidSelection,
			"disk %d is not a valid non-system disk", idx)
	}
	return disk, true, nil
}

// ConfirmPhrase: фраза подтверждения для диска index
func ConfirmPhrase(index int) string {
	return fmt.Sprintf("WIPE-DISK-%d", index)
}

// ConfirmDisk требует ввести фразу WIPE-DISK-<N> без изменений
func (p *Prompter) ConfirmDisk(disk system.DiskInfo, systemDisk int, details ...string) (bool, error) {
	fmt.Fprintln(p.out)
	fmt.Fprintf(p.out, "You selected: %s\n", disk.Path)
	fmt.Fprintf(p.out, "Size:         %s\n", system.SizeFormat(disk.SizeBytes))
	for _, line := range details {
		fmt.Fprintln(p.out, line)
	}
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, p.warn.Render("THIS WILL IRREVERSIBLY ERASE ALL DATA ON THIS DISK."))
	fmt.Fprintf(p.out, "It will NOT touch the system disk (disk %d).\n", systemDisk)
	fmt.Fprintln(p.out)

	phrase := ConfirmPhrase(disk.Index)
	fmt.Fprintf(p.out, "Type EXACTLY: %s\n", p.strong.Render(phrase))
	fmt.Fprintln(p.out, "Anything else will cancel.")

	answer, err := p.readLine()
	if err != nil {
		return false, err
	}
	if answer != phrase {
		fmt.Fprintln(p.out, "Aborted by user (confirmation phrase did not match).")
		return false, nil
	}
	return true, nil
}

// Confirmer адаптирует ConfirmFile к ConfirmFunc
func (p *Prompter) Confirmer() ConfirmFunc {
	return func(description string) bool {
		ok, err := p.ConfirmFile(description)
		return err == nil && ok
	}
}
